package repository

import (
	"context"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComandaRepository persists open comandas keyed by canonical table key.
// Mutations run inside a caller-managed transaction (the service opens the
// tx and passes it down), with a FOR UPDATE lock on the
// comanda row so operations on the same key are serialized while different
// keys proceed independently.
type ComandaRepository interface {
	DB() *gorm.DB
	// FindAberta loads at most one open comanda whose key OR id matches any
	// of the aliases produced by service.AliasesMesa.
	FindAberta(ctx context.Context, aliases []string) (*model.Comanda, error)
	// FindAbertaTx is FindAberta inside tx, holding a row lock.
	FindAbertaTx(tx *gorm.DB, aliases []string) (*model.Comanda, error)
	CriarTx(tx *gorm.DB, c *model.Comanda) error
	// SubstituirItensTx replaces the full item list and cached total.
	SubstituirItensTx(tx *gorm.DB, c *model.Comanda, itens []model.ItemComanda) error
	DeletarTx(tx *gorm.DB, comandaID uuid.UUID) error
}

type comandaRepo struct{ db *gorm.DB }

func NewComandaRepository(db *gorm.DB) ComandaRepository { return &comandaRepo{db: db} }

func (r *comandaRepo) DB() *gorm.DB { return r.db }

// aliasQuery biases the lookup so that exactly one row, if any, is loaded no
// matter which alias spelling the caller supplied. uuid aliases also match on
// the primary key, covering references by opaque id.
func aliasQuery(db *gorm.DB, aliases []string) *gorm.DB {
	q := db.Where("estado = ?", model.ComandaAberta).Where("chave_mesa IN ?", aliases)
	for _, a := range aliases {
		if id, err := uuid.Parse(a); err == nil {
			q = db.Where("estado = ?", model.ComandaAberta).
				Where("chave_mesa IN ? OR id = ?", aliases, id)
			break
		}
	}
	return q.Order("criada_em ASC").Limit(1)
}

func (r *comandaRepo) FindAberta(ctx context.Context, aliases []string) (*model.Comanda, error) {
	var c model.Comanda
	err := aliasQuery(r.db.WithContext(ctx).
		Preload("Itens", func(db *gorm.DB) *gorm.DB { return db.Order("posicao ASC") }), aliases).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comandaRepo) FindAbertaTx(tx *gorm.DB, aliases []string) (*model.Comanda, error) {
	var c model.Comanda
	err := aliasQuery(tx.Clauses(clause.Locking{Strength: "UPDATE"}), aliases).First(&c).Error
	if err != nil {
		return nil, err
	}
	// Itens cannot be preloaded under FOR UPDATE of the parent row only;
	// load them explicitly inside the same tx.
	if err := tx.Where("comanda_id = ?", c.ID).Order("posicao ASC").Find(&c.Itens).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *comandaRepo) CriarTx(tx *gorm.DB, c *model.Comanda) error {
	return tx.Create(c).Error
}

func (r *comandaRepo) SubstituirItensTx(tx *gorm.DB, c *model.Comanda, itens []model.ItemComanda) error {
	if err := tx.Where("comanda_id = ?", c.ID).Delete(&model.ItemComanda{}).Error; err != nil {
		return err
	}
	for i := range itens {
		itens[i].ID = uuid.Nil
		itens[i].ComandaID = c.ID
		itens[i].Posicao = i
	}
	if len(itens) > 0 {
		if err := tx.Create(&itens).Error; err != nil {
			return err
		}
	}
	c.Itens = itens
	return tx.Model(&model.Comanda{}).Where("id = ?", c.ID).
		Update("total", c.Total).Error
}

func (r *comandaRepo) DeletarTx(tx *gorm.DB, comandaID uuid.UUID) error {
	if err := tx.Where("comanda_id = ?", comandaID).Delete(&model.ItemComanda{}).Error; err != nil {
		return err
	}
	return tx.Delete(&model.Comanda{}, "id = ?", comandaID).Error
}

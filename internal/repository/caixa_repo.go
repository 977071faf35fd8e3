package repository

import (
	"context"
	"errors"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSessaoNaoAberta is returned by append/close when the target session is
// not (or no longer) open. The service layer translates it for callers.
var ErrSessaoNaoAberta = errors.New("sessão de caixa não está aberta")

type CaixaRepository interface {
	CriarSessao(ctx context.Context, s *model.SessaoCaixa) error
	FindAberta(ctx context.Context) (*model.SessaoCaixa, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error)
	// AppendMovimento atomically appends a movement and bumps the session's
	// cached totals. Re-delivery of an already-applied movement id is a no-op.
	AppendMovimento(ctx context.Context, sessaoID uuid.UUID, mov *model.MovimentoCaixa) error
	// FecharSessao locks the open session row, hands it to fn to stamp the
	// closing fields, and persists the aberta → fechada transition.
	FecharSessao(ctx context.Context, id uuid.UUID, fn func(s *model.SessaoCaixa) error) error
	ListFechadas(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

// CriarSessao inserts the new session. The partial unique index on
// estado='aberta' (see infra.NewDatabase) makes two concurrent opens race
// safely: the loser surfaces gorm.ErrDuplicatedKey.
func (r *caixaRepo) CriarSessao(ctx context.Context, s *model.SessaoCaixa) error {
	return r.db.WithContext(ctx).Create(s).Error
}

// FindAberta derives the current open session from the store on every call —
// no process-wide cache, so multiple service instances stay consistent.
func (r *caixaRepo) FindAberta(ctx context.Context) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Preload("Movimentos", func(db *gorm.DB) *gorm.DB { return db.Order("criado_em ASC") }).
		Preload("Movimentos.Itens").
		Where("estado = ?", model.SessaoAberta).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Preload("Movimentos", func(db *gorm.DB) *gorm.DB { return db.Order("criado_em ASC") }).
		Preload("Movimentos.Itens").
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) AppendMovimento(ctx context.Context, sessaoID uuid.UUID, mov *model.MovimentoCaixa) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent appends (and the close) per session.
		var sessao model.SessaoCaixa
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sessao, "id = ?", sessaoID).Error; err != nil {
			return err
		}
		if sessao.Estado != model.SessaoAberta {
			return ErrSessaoNaoAberta
		}

		// Idempotent retry: a movement id that already exists was applied by
		// a previous delivery, totals included.
		if mov.ID != uuid.Nil {
			var count int64
			if err := tx.Model(&model.MovimentoCaixa{}).
				Where("id = ?", mov.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return nil
			}
		}

		mov.SessaoCaixaID = sessaoID
		if err := tx.Create(mov).Error; err != nil {
			return err
		}

		switch mov.Tipo {
		case model.MovVenda:
			sessao.TotalVendas = sessao.TotalVendas.Add(mov.Valor)
		case model.MovEntradaManual:
			sessao.TotalEntradas = sessao.TotalEntradas.Add(mov.Valor)
		case model.MovSaidaManual:
			sessao.TotalSaidas = sessao.TotalSaidas.Add(mov.Valor)
		}
		sessao.SaldoAtual = sessao.TrocoInicial.
			Add(sessao.TotalVendas).
			Add(sessao.TotalEntradas).
			Sub(sessao.TotalSaidas)

		return tx.Model(&model.SessaoCaixa{}).
			Where("id = ?", sessaoID).
			Updates(map[string]interface{}{
				"total_vendas":   sessao.TotalVendas,
				"total_entradas": sessao.TotalEntradas,
				"total_saidas":   sessao.TotalSaidas,
				"saldo_atual":    sessao.SaldoAtual,
			}).Error
	})
}

func (r *caixaRepo) FecharSessao(ctx context.Context, id uuid.UUID, fn func(s *model.SessaoCaixa) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sessao model.SessaoCaixa
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&sessao, "id = ?", id).Error; err != nil {
			return err
		}
		if sessao.Estado != model.SessaoAberta {
			return ErrSessaoNaoAberta
		}
		if err := fn(&sessao); err != nil {
			return err
		}

		// Conditional on the current estado so the transition happens at most
		// once even if the lock path is ever bypassed.
		res := tx.Model(&model.SessaoCaixa{}).
			Where("id = ? AND estado = ?", id, model.SessaoAberta).
			Updates(map[string]interface{}{
				"estado":           model.SessaoFechada,
				"fechada_em":       sessao.FechadaEm,
				"valor_contado":    sessao.ValorContado,
				"valor_esperado":   sessao.ValorEsperado,
				"diferenca":        sessao.Diferenca,
				"status_diferenca": sessao.StatusDiferenca,
				"fechada_por":      sessao.FechadaPor,
				"obs_fechamento":   sessao.ObsFechamento,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessaoNaoAberta
		}
		return nil
	})
}

func (r *caixaRepo) ListFechadas(ctx context.Context, page, limit int) ([]model.SessaoCaixa, int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{}).Where("estado = ?", model.SessaoFechada)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var sessoes []model.SessaoCaixa
	err := q.Order("fechada_em DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessoes).Error
	return sessoes, total, err
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comanda is the running tab of one table, holding unbilled order lines.
// ChaveMesa is the canonical table key (see service.ResolverReferenciaMesa);
// at most one comanda "aberta" exists per chave, enforced by a partial unique
// index. A comanda is deleted outright when its sale is folded into the caixa
// ledger — there is no "fechada" row kept around.
type Comanda struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChaveMesa    string          `gorm:"type:varchar(40);not null;index"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'aberta'"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CriadaEm     time.Time       `gorm:"autoCreateTime"`
	AtualizadaEm time.Time       `gorm:"autoUpdateTime"`

	Itens []ItemComanda `gorm:"foreignKey:ComandaID"`
}

func (Comanda) TableName() string { return "comandas" }

// ComandaAberta is the only estado a persisted comanda ever carries; closing
// deletes the row instead of flipping the flag.
const ComandaAberta = "aberta"

// ItemComanda is one order line. Nome and PrecoUnitario are snapshotted from
// the catalog when the line is first added and never re-read afterwards, so a
// line survives even if its product is later removed from the catalog.
// Observacao ("sem sal", "ponto da carne"…) is part of the line's identity for
// merge purposes.
type ItemComanda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComandaID uuid.UUID `gorm:"type:uuid;index;not null"`
	// Posicao preserves first-seen order across save/load round trips.
	Posicao       int             `gorm:"not null;default:0"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nome          string          `gorm:"not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Observacao    string
}

func (ItemComanda) TableName() string { return "itens_comanda" }

// Subtotal is Quantidade × PrecoUnitario.
func (i ItemComanda) Subtotal() decimal.Decimal {
	return i.PrecoUnitario.Mul(decimal.NewFromInt(int64(i.Quantidade)))
}

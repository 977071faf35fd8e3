package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a menu item. Preco is the list price read once when an order
// line is created; comandas keep their own snapshot afterwards.
type Produto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome        string    `gorm:"index;not null"`
	Descricao   *string
	CategoriaID *uuid.UUID      `gorm:"type:uuid;index"`
	Preco       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Ativo       bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

func (Produto) TableName() string { return "produtos" }

package model

import (
	"time"

	"github.com/google/uuid"
)

// FormaPagamento is the payment method catalog (dinheiro, pix, cartão…).
// Informational only — the caixa ledger tracks the physical drawer, not the
// split per payment method.
type FormaPagamento struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Ativo     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (FormaPagamento) TableName() string { return "formas_pagamento" }

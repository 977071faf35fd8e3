package model

import (
	"time"

	"github.com/google/uuid"
)

// Categoria classifies menu items (bebidas, pratos, sobremesas…).
type Categoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Categoria) TableName() string { return "categorias" }

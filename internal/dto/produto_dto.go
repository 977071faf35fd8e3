package dto

import "github.com/shopspring/decimal"

type CriarProdutoRequest struct {
	Nome        string          `json:"nome"  validate:"required,min=2"`
	Descricao   *string         `json:"descricao"`
	CategoriaID *string         `json:"categoria_id" validate:"omitempty,uuid"`
	Preco       decimal.Decimal `json:"preco" validate:"required,gt=0"`
}

type AtualizarProdutoRequest struct {
	Nome        *string          `json:"nome" validate:"omitempty,min=2"`
	Descricao   *string          `json:"descricao"`
	CategoriaID *string          `json:"categoria_id" validate:"omitempty,uuid"`
	Preco       *decimal.Decimal `json:"preco"`
	Ativo       *bool            `json:"ativo"`
}

type ProdutoResponse struct {
	ID        string          `json:"id"`
	Nome      string          `json:"nome"`
	Descricao *string         `json:"descricao,omitempty"`
	Categoria *string         `json:"categoria,omitempty"`
	Preco     decimal.Decimal `json:"preco"`
	Ativo     bool            `json:"ativo"`
}

package dto

type CriarFormaPagamentoRequest struct {
	Nome string `json:"nome" validate:"required,min=2"`
}

type AtualizarFormaPagamentoRequest struct {
	Nome  *string `json:"nome" validate:"omitempty,min=2"`
	Ativo *bool   `json:"ativo"`
}

type FormaPagamentoResponse struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Ativo bool   `json:"ativo"`
}

package dto

import "github.com/shopspring/decimal"

// ItemComandaPayload is one order line as sent by the client. On lines the
// client created offline, nome/preco may be absent and are snapshotted from
// the catalog at save time.
type ItemComandaPayload struct {
	ProdutoID     string           `json:"produto_id" validate:"required,uuid"`
	Nome          string           `json:"nome"`
	Quantidade    int              `json:"quantidade" validate:"required"`
	PrecoUnitario *decimal.Decimal `json:"preco_unitario"`
	Observacao    string           `json:"observacao"`
}

// SalvarItensRequest carries the client's view of the comanda: the items it
// believes are already persisted plus the ones collected since the last save.
type SalvarItensRequest struct {
	ItensPersistidos []ItemComandaPayload `json:"itens_persistidos" validate:"dive"`
	ItensNaoSalvos   []ItemComandaPayload `json:"itens_nao_salvos"  validate:"dive"`
}

type ItemComandaResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Observacao    string          `json:"observacao,omitempty"`
}

type ComandaResponse struct {
	ID        string                `json:"id"`
	ChaveMesa string                `json:"chave_mesa"`
	Itens     []ItemComandaResponse `json:"itens"`
	Total     decimal.Decimal       `json:"total"`
	CriadaEm  string                `json:"criada_em"`
}

// FecharComandaResponse is the result of folding a comanda into the caixa
// ledger: the frozen item snapshot, the billed total and the venda movement.
type FecharComandaResponse struct {
	ChaveMesa   string                `json:"chave_mesa"`
	Itens       []ItemComandaResponse `json:"itens"`
	Total       decimal.Decimal       `json:"total"`
	MovimentoID string                `json:"movimento_id"`
}

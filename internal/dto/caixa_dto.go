package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	TrocoInicial decimal.Decimal `json:"troco_inicial" validate:"min=0"`
	Observacao   string          `json:"observacao"`
}

type MovimentoManualRequest struct {
	Tipo      string          `json:"tipo"      validate:"required,oneof=entrada_manual saida_manual"`
	Valor     decimal.Decimal `json:"valor"     validate:"required,gt=0"`
	Descricao string          `json:"descricao" validate:"required,min=3"`
	// MovimentoID allows a client to retry a failed request with the same
	// logical id; re-delivery is a no-op.
	MovimentoID string `json:"movimento_id" validate:"omitempty,uuid"`
}

type FecharCaixaRequest struct {
	ValorContado decimal.Decimal `json:"valor_contado"`
	Observacao   string          `json:"observacao"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimentoItemResponse struct {
	ProdutoID     string          `json:"produto_id"`
	Nome          string          `json:"nome"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
}

type MovimentoResponse struct {
	ID                string                  `json:"id"`
	Tipo              string                  `json:"tipo"`
	Valor             decimal.Decimal         `json:"valor"`
	Descricao         string                  `json:"descricao"`
	Operador          string                  `json:"operador"`
	ReferenciaComanda *string                 `json:"referencia_comanda,omitempty"`
	CriadoEm          string                  `json:"criado_em"`
	Itens             []MovimentoItemResponse `json:"itens,omitempty"`
}

type TotaisCaixaResponse struct {
	TotalVendas   decimal.Decimal `json:"total_vendas"`
	TotalEntradas decimal.Decimal `json:"total_entradas"`
	TotalSaidas   decimal.Decimal `json:"total_saidas"`
	SaldoAtual    decimal.Decimal `json:"saldo_atual"`
}

type FechamentoResponse struct {
	ValorContado    decimal.Decimal `json:"valor_contado"`
	ValorEsperado   decimal.Decimal `json:"valor_esperado"`
	Diferenca       decimal.Decimal `json:"diferenca"`
	StatusDiferenca string          `json:"status_diferenca"` // equilibrado | sobra | falta
	FechadaPor      string          `json:"fechada_por"`
	Observacao      *string         `json:"observacao,omitempty"`
	FechadaEm       string          `json:"fechada_em"`
}

type SessaoCaixaResponse struct {
	ID           string              `json:"id"`
	Estado       string              `json:"estado"`
	TrocoInicial decimal.Decimal     `json:"troco_inicial"`
	AbertaPor    string              `json:"aberta_por"`
	ObsAbertura  string              `json:"obs_abertura,omitempty"`
	AbertaEm     string              `json:"aberta_em"`
	Totais       TotaisCaixaResponse `json:"totais"`
	Movimentos   []MovimentoResponse `json:"movimentos,omitempty"`
	Fechamento   *FechamentoResponse `json:"fechamento,omitempty"`
}

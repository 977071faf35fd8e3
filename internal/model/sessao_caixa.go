package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessaoCaixa represents one open-to-close period of the physical cash drawer.
// Estado: "aberta" | "fechada". At most one sessão "aberta" exists system-wide,
// enforced by a partial unique index (see infra.NewDatabase).
type SessaoCaixa struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'aberta';index"`
	TrocoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AbertaPor    string          `gorm:"not null"`
	ObsAbertura  string
	AbertaEm     time.Time

	// Cached totals — updated incrementally on every movement append, never
	// recomputed by full replay in normal operation.
	TotalVendas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEntradas decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSaidas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// SaldoAtual = TrocoInicial + TotalVendas + TotalEntradas - TotalSaidas
	SaldoAtual decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Closing / reconciliation fields — set exactly once by Fechar.
	FechadaEm     *time.Time
	ValorContado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ValorEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferenca     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// StatusDiferenca: "equilibrado" | "sobra" | "falta"
	StatusDiferenca *string `gorm:"type:varchar(20)"`
	FechadaPor      *string
	ObsFechamento   *string

	Movimentos []MovimentoCaixa `gorm:"foreignKey:SessaoCaixaID"`
}

func (SessaoCaixa) TableName() string { return "sessoes_caixa" }

// MovimentoCaixa is an immutable entry in the cash session ledger.
// Tipo: "venda" | "entrada_manual" | "saida_manual"
// Valor is always positive; direction is implied by Tipo. Movements are NEVER
// updated or deleted — corrections append a compensating movement whose
// Descricao references the original movement id.
type MovimentoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoCaixaID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo          string          `gorm:"type:varchar(20);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descricao     string          `gorm:"not null"`
	Operador      string          `gorm:"not null"`
	// ReferenciaComanda holds the canonical table key when Tipo = venda
	ReferenciaComanda *string
	CriadoEm          time.Time `gorm:"autoCreateTime"`

	Itens []MovimentoItem `gorm:"foreignKey:MovimentoID"`
}

func (MovimentoCaixa) TableName() string { return "movimentos_caixa" }

// MovimentoItem is the audit snapshot of a sold line at the moment of the
// venda movement. Nome and PrecoUnitario are frozen copies, not catalog reads.
type MovimentoItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MovimentoID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nome          string          `gorm:"not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

func (MovimentoItem) TableName() string { return "movimento_itens" }

// Session and movement state/type values.
const (
	SessaoAberta  = "aberta"
	SessaoFechada = "fechada"

	MovVenda         = "venda"
	MovEntradaManual = "entrada_manual"
	MovSaidaManual   = "saida_manual"

	DifEquilibrado = "equilibrado"
	DifSobra       = "sobra"
	DifFalta       = "falta"
)

// Assinado returns the movement amount with the sign implied by Tipo.
func (m MovimentoCaixa) Assinado() decimal.Decimal {
	if m.Tipo == MovSaidaManual {
		return m.Valor.Neg()
	}
	return m.Valor
}

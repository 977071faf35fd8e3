package infra

// pdf.go — close-out report generation using go-pdf/fpdf.
// Renders an A7-size thermal receipt-style summary of one cash session:
//   - opening data (operator, troco inicial)
//   - movement list (tipo, descrição, valor with sign)
//   - totals and running balance
//   - reconciliation block (esperado, contado, diferença, status)
//
// The output file is saved to storagePath/fechamento_{id}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/go-pdf/fpdf"
)

// GerarRelatorioPDF renders the session report and returns the absolute path
// to the generated file. storagePath is created if needed.
func GerarRelatorioPDF(sessao *model.SessaoCaixa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("fechamento_%s.pdf", sessao.ID)
	filePath := filepath.Join(storagePath, fileName)

	// A7 ≈ 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "RestaurenteOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Abertura: %s (%s)",
		sessao.AbertaEm.Format("02/01/2006 15:04"), sessao.AbertaPor), "", 1, "L", false, 0, "")
	if sessao.FechadaEm != nil {
		operador := ""
		if sessao.FechadaPor != nil {
			operador = *sessao.FechadaPor
		}
		pdf.CellFormat(contentW, 4, fmt.Sprintf("Fechamento: %s (%s)",
			sessao.FechadaEm.Format("02/01/2006 15:04"), operador), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Movements ────────────────────────────────────────────────────────────
	col1 := contentW * 0.58
	col2 := contentW * 0.42

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Movimento", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Valor", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 5, "Troco inicial", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "R$ "+sessao.TrocoInicial.StringFixed(2), "", 1, "R", false, 0, "")
	for _, mov := range sessao.Movimentos {
		descr := mov.Descricao
		if len(descr) > 24 {
			descr = descr[:23] + "…"
		}
		pdf.CellFormat(col1, 5, descr, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "R$ "+mov.Assinado().StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(col1, 4, "Vendas:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 4, "R$ "+sessao.TotalVendas.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 4, "Entradas manuais:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 4, "R$ "+sessao.TotalEntradas.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.CellFormat(col1, 4, "Saídas manuais:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 4, "-R$ "+sessao.TotalSaidas.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "SALDO:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "R$ "+sessao.SaldoAtual.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Reconciliation ───────────────────────────────────────────────────────
	if sessao.ValorEsperado != nil && sessao.ValorContado != nil && sessao.Diferenca != nil {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1, 4, "Esperado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, "R$ "+sessao.ValorEsperado.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.CellFormat(col1, 4, "Contado:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 4, "R$ "+sessao.ValorContado.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		status := ""
		if sessao.StatusDiferenca != nil {
			status = " (" + *sessao.StatusDiferenca + ")"
		}
		pdf.CellFormat(col1, 5, "Diferença"+status+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "R$ "+sessao.Diferenca.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

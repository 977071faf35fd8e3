package service

import (
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/shopspring/decimal"
)

// toleranciaDiferenca absorbs rounding noise when classifying a fechamento:
// up to one centavo in either direction still counts as equilibrado.
var toleranciaDiferenca = decimal.NewFromFloat(0.01)

// Reconciliar compares the manually counted amount against the
// ledger-computed expected amount. Pure function, no persistence.
// Returns the signed difference (positive = surplus) and its classification.
func Reconciliar(esperado, contado decimal.Decimal) (decimal.Decimal, string) {
	diferenca := contado.Sub(esperado)
	switch {
	case diferenca.Abs().LessThanOrEqual(toleranciaDiferenca):
		return diferenca, model.DifEquilibrado
	case diferenca.IsPositive():
		return diferenca, model.DifSobra
	default:
		return diferenca, model.DifFalta
	}
}

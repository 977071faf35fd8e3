package service

import (
	"testing"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestReconciliar(t *testing.T) {
	cases := []struct {
		nome      string
		esperado  string
		contado   string
		diferenca string
		status    string
	}{
		{"exato", "150.00", "150.00", "0", model.DifEquilibrado},
		{"sobra", "150.00", "160.00", "10", model.DifSobra},
		{"falta", "150.00", "140.50", "-9.5", model.DifFalta},
		{"meio centavo ainda equilibrado", "150.00", "150.005", "0.005", model.DifEquilibrado},
		{"um centavo ainda equilibrado", "150.00", "150.01", "0.01", model.DifEquilibrado},
		{"um centavo a menos ainda equilibrado", "150.00", "149.99", "-0.01", model.DifEquilibrado},
		{"acima da tolerancia", "150.00", "150.02", "0.02", model.DifSobra},
		{"caixa zerado", "0", "0", "0", model.DifEquilibrado},
	}
	for _, tc := range cases {
		t.Run(tc.nome, func(t *testing.T) {
			diferenca, status := Reconciliar(dec(tc.esperado), dec(tc.contado))
			assert.True(t, dec(tc.diferenca).Equal(diferenca),
				"diferenca: esperava %s, veio %s", tc.diferenca, diferenca)
			assert.Equal(t, tc.status, status)
		})
	}
}

package service

import (
	"testing"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(produtoID uuid.UUID, nome string, qtd int, preco, obs string) model.ItemComanda {
	return model.ItemComanda{
		ProdutoID:     produtoID,
		Nome:          nome,
		Quantidade:    qtd,
		PrecoUnitario: dec(preco),
		Observacao:    obs,
	}
}

func TestMesclarItens_SomaQuantidades(t *testing.T) {
	x := uuid.New()
	y := uuid.New()

	persistidos := []model.ItemComanda{
		item(x, "X-Burger", 2, "25.00", ""),
		item(y, "Suco", 1, "8.00", ""),
	}
	naoSalvos := []model.ItemComanda{
		item(x, "X-Burger", 1, "25.00", ""),
	}

	out := MesclarItens(persistidos, naoSalvos)
	require.Len(t, out, 2)
	assert.Equal(t, 3, out[0].Quantidade)
	assert.Equal(t, "X-Burger", out[0].Nome)
	assert.Equal(t, 1, out[1].Quantidade)
}

func TestMesclarItens_ObservacaoSeparaLinhas(t *testing.T) {
	x := uuid.New()

	persistidos := []model.ItemComanda{
		item(x, "Batata", 1, "12.00", ""),
	}
	naoSalvos := []model.ItemComanda{
		item(x, "Batata", 1, "12.00", "sem sal"),
	}

	// Mesmo produto com observação diferente é outra linha
	out := MesclarItens(persistidos, naoSalvos)
	require.Len(t, out, 2)
	assert.Equal(t, "", out[0].Observacao)
	assert.Equal(t, "sem sal", out[1].Observacao)
}

func TestMesclarItens_QuantidadeZeroRemove(t *testing.T) {
	x := uuid.New()
	y := uuid.New()

	persistidos := []model.ItemComanda{
		item(x, "Cerveja", 2, "10.00", ""),
		item(y, "Agua", 1, "5.00", ""),
	}
	// Estorno lançado no cliente: -2 cervejas
	naoSalvos := []model.ItemComanda{
		item(x, "Cerveja", -2, "10.00", ""),
	}

	out := MesclarItens(persistidos, naoSalvos)
	require.Len(t, out, 1)
	assert.Equal(t, "Agua", out[0].Nome)
}

func TestMesclarItens_UltimoPrecoVence(t *testing.T) {
	x := uuid.New()

	persistidos := []model.ItemComanda{item(x, "Prato do dia", 1, "30.00", "")}
	naoSalvos := []model.ItemComanda{item(x, "Prato do dia", 1, "32.00", "")}

	out := MesclarItens(persistidos, naoSalvos)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Quantidade)
	assert.True(t, dec("32.00").Equal(out[0].PrecoUnitario))
}

func TestMesclarItens_Idempotente(t *testing.T) {
	x := uuid.New()
	y := uuid.New()

	persistidos := []model.ItemComanda{
		item(x, "X-Burger", 2, "25.00", ""),
		item(y, "Suco", 1, "8.00", "sem gelo"),
	}
	naoSalvos := []model.ItemComanda{
		item(x, "X-Burger", 1, "25.00", ""),
	}

	uma := MesclarItens(persistidos, naoSalvos)
	duas := MesclarItens(uma, nil)
	assert.Equal(t, uma, duas)
}

func TestMesclarItens_PreservaOrdem(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	persistidos := []model.ItemComanda{
		item(a, "Entrada", 1, "15.00", ""),
		item(b, "Principal", 1, "45.00", ""),
	}
	naoSalvos := []model.ItemComanda{
		item(c, "Sobremesa", 1, "18.00", ""),
		item(a, "Entrada", 1, "15.00", ""),
	}

	out := MesclarItens(persistidos, naoSalvos)
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Entrada", "Principal", "Sobremesa"},
		[]string{out[0].Nome, out[1].Nome, out[2].Nome})
	assert.Equal(t, 2, out[0].Quantidade)
}

func TestTotalItens(t *testing.T) {
	x := uuid.New()
	itens := []model.ItemComanda{
		item(x, "X-Burger", 3, "25.50", ""),
		item(uuid.New(), "Suco", 2, "8.00", ""),
	}
	// 3×25.50 + 2×8.00 = 92.50
	assert.True(t, dec("92.50").Equal(TotalItens(itens)))
	assert.True(t, TotalItens(nil).IsZero())
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolverReferenciaMesa_Numericas(t *testing.T) {
	// "7", "07" e " 7 " são a mesma mesa
	for _, raw := range []string{"7", "07", " 7 ", "007"} {
		chave, err := ResolverReferenciaMesa(raw)
		require.NoError(t, err, "ref %q", raw)
		assert.Equal(t, "07", chave, "ref %q", raw)
	}
}

func TestResolverReferenciaMesa_MesaGrande(t *testing.T) {
	chave, err := ResolverReferenciaMesa("104")
	require.NoError(t, err)
	assert.Equal(t, "104", chave)
}

func TestResolverReferenciaMesa_IDOpaco(t *testing.T) {
	// Referências não numéricas (ids de banco) passam intactas
	chave, err := ResolverReferenciaMesa("b6e1f2d0-6d1c-4a5e-9f0a-3c2b1a0d9e8f")
	require.NoError(t, err)
	assert.Equal(t, "b6e1f2d0-6d1c-4a5e-9f0a-3c2b1a0d9e8f", chave)
}

func TestResolverReferenciaMesa_Vazia(t *testing.T) {
	_, err := ResolverReferenciaMesa("")
	assert.ErrorIs(t, err, ErrReferenciaInvalida)

	_, err = ResolverReferenciaMesa("   ")
	assert.ErrorIs(t, err, ErrReferenciaInvalida)
}

func TestAliasesMesa(t *testing.T) {
	assert.Equal(t, []string{"07", "7"}, AliasesMesa("07"))
	assert.Equal(t, []string{"10"}, AliasesMesa("10"))
	assert.Equal(t, []string{"balcao-1"}, AliasesMesa("balcao-1"))
}

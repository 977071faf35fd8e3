package service

import (
	"context"
	"testing"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type fakeCaixaRepo struct {
	sessoes    map[uuid.UUID]*model.SessaoCaixa
	movimentos []model.MovimentoCaixa
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{sessoes: make(map[uuid.UUID]*model.SessaoCaixa)}
}

func (r *fakeCaixaRepo) CriarSessao(_ context.Context, s *model.SessaoCaixa) error {
	for _, existente := range r.sessoes {
		if existente.Estado == model.SessaoAberta {
			// mirror do índice único parcial
			return gorm.ErrDuplicatedKey
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessoes[s.ID] = s
	return nil
}

func (r *fakeCaixaRepo) FindAberta(_ context.Context) (*model.SessaoCaixa, error) {
	for _, s := range r.sessoes {
		if s.Estado == model.SessaoAberta {
			copia := *s
			copia.Movimentos = nil
			for _, m := range r.movimentos {
				if m.SessaoCaixaID == s.ID {
					copia.Movimentos = append(copia.Movimentos, m)
				}
			}
			return &copia, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeCaixaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	s, ok := r.sessoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *s
	copia.Movimentos = nil
	for _, m := range r.movimentos {
		if m.SessaoCaixaID == id {
			copia.Movimentos = append(copia.Movimentos, m)
		}
	}
	return &copia, nil
}

func (r *fakeCaixaRepo) AppendMovimento(_ context.Context, sessaoID uuid.UUID, mov *model.MovimentoCaixa) error {
	s, ok := r.sessoes[sessaoID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.Estado != model.SessaoAberta {
		return repository.ErrSessaoNaoAberta
	}
	for _, m := range r.movimentos {
		if m.ID == mov.ID {
			return nil // reentrega: já aplicado
		}
	}
	mov.SessaoCaixaID = sessaoID
	mov.CriadoEm = time.Now()
	r.movimentos = append(r.movimentos, *mov)

	switch mov.Tipo {
	case model.MovVenda:
		s.TotalVendas = s.TotalVendas.Add(mov.Valor)
	case model.MovEntradaManual:
		s.TotalEntradas = s.TotalEntradas.Add(mov.Valor)
	case model.MovSaidaManual:
		s.TotalSaidas = s.TotalSaidas.Add(mov.Valor)
	}
	s.SaldoAtual = s.TrocoInicial.Add(s.TotalVendas).Add(s.TotalEntradas).Sub(s.TotalSaidas)
	return nil
}

func (r *fakeCaixaRepo) FecharSessao(_ context.Context, id uuid.UUID, fn func(s *model.SessaoCaixa) error) error {
	s, ok := r.sessoes[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if s.Estado != model.SessaoAberta {
		return repository.ErrSessaoNaoAberta
	}
	if err := fn(s); err != nil {
		return err
	}
	s.Estado = model.SessaoFechada
	return nil
}

func (r *fakeCaixaRepo) ListFechadas(_ context.Context, page, limit int) ([]model.SessaoCaixa, int64, error) {
	var fechadas []model.SessaoCaixa
	for _, s := range r.sessoes {
		if s.Estado == model.SessaoFechada {
			fechadas = append(fechadas, *s)
		}
	}
	total := int64(len(fechadas))
	start := (page - 1) * limit
	if start >= len(fechadas) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(fechadas) {
		end = len(fechadas)
	}
	return fechadas[start:end], total, nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

// ── Tests ────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	resp, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{
		TrocoInicial: dec("100.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessaoAberta, resp.Estado)
	assert.Equal(t, "Maria", resp.AbertaPor)
	assert.True(t, dec("100.00").Equal(resp.Totais.SaldoAtual))
}

func TestAbrirCaixaDuplicado(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("100")})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), "João", dto.AbrirCaixaRequest{TrocoInicial: dec("50")})
	assert.ErrorIs(t, err, ErrCaixaJaAberto)
}

func TestAbrirCaixaTrocoNegativo(t *testing.T) {
	svc := NewCaixaService(newFakeCaixaRepo(), nil)
	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("-1")})
	assert.ErrorIs(t, err, ErrValorInvalido)
}

func TestMovimentoSemCaixaAberto(t *testing.T) {
	svc := NewCaixaService(newFakeCaixaRepo(), nil)
	_, err := svc.RegistrarMovimento(context.Background(), "Maria", dto.MovimentoManualRequest{
		Tipo: model.MovEntradaManual, Valor: dec("10"), Descricao: "Fundo de troco",
	})
	assert.ErrorIs(t, err, ErrCaixaNaoAberto)
}

func TestMovimentoManualAtualizaSaldo(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("100.00")})
	require.NoError(t, err)

	_, err = svc.RegistrarMovimento(context.Background(), "Maria", dto.MovimentoManualRequest{
		Tipo: model.MovEntradaManual, Valor: dec("20.00"), Descricao: "Troco extra",
	})
	require.NoError(t, err)
	_, err = svc.RegistrarMovimento(context.Background(), "Maria", dto.MovimentoManualRequest{
		Tipo: model.MovSaidaManual, Valor: dec("10.00"), Descricao: "Compra de gelo",
	})
	require.NoError(t, err)

	resp, err := svc.SessaoAberta(context.Background())
	require.NoError(t, err)
	assert.True(t, dec("110.00").Equal(resp.Totais.SaldoAtual),
		"saldo: esperava 110.00, veio %s", resp.Totais.SaldoAtual)
	assert.Len(t, resp.Movimentos, 2)
}

func TestMovimentoRetryIdempotente(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("50")})
	require.NoError(t, err)

	req := dto.MovimentoManualRequest{
		Tipo: model.MovEntradaManual, Valor: dec("30"), Descricao: "Sangria reversa",
		MovimentoID: uuid.NewString(),
	}
	_, err = svc.RegistrarMovimento(context.Background(), "Maria", req)
	require.NoError(t, err)
	// reentrega do mesmo movimento lógico
	_, err = svc.RegistrarMovimento(context.Background(), "Maria", req)
	require.NoError(t, err)

	resp, err := svc.SessaoAberta(context.Background())
	require.NoError(t, err)
	assert.Len(t, resp.Movimentos, 1)
	assert.True(t, dec("80").Equal(resp.Totais.SaldoAtual))
}

func TestRegistrarVendaIdempotente(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("0")})
	require.NoError(t, err)

	comandaID := uuid.New()
	itens := []model.ItemComanda{{ProdutoID: uuid.New(), Nome: "X-Burger", Quantidade: 2, PrecoUnitario: dec("25.00")}}

	require.NoError(t, svc.RegistrarVenda(context.Background(), "Pedro", "07", comandaID, dec("50.00"), itens))
	require.NoError(t, svc.RegistrarVenda(context.Background(), "Pedro", "07", comandaID, dec("50.00"), itens))

	resp, err := svc.SessaoAberta(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Movimentos, 1)
	assert.Equal(t, model.MovVenda, resp.Movimentos[0].Tipo)
	require.NotNil(t, resp.Movimentos[0].ReferenciaComanda)
	assert.Equal(t, "07", *resp.Movimentos[0].ReferenciaComanda)
	assert.True(t, dec("50.00").Equal(resp.Totais.TotalVendas))

	// a visão da sessão aberta inclui o snapshot das linhas da venda
	require.Len(t, resp.Movimentos[0].Itens, 1)
	assert.Equal(t, "X-Burger", resp.Movimentos[0].Itens[0].Nome)
	assert.Equal(t, 2, resp.Movimentos[0].Itens[0].Quantidade)
}

func TestFecharCaixaComFalta(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("100.00")})
	require.NoError(t, err)

	require.NoError(t, svc.RegistrarVenda(context.Background(), "Maria", "03", uuid.New(), dec("45.50"), nil))
	_, err = svc.RegistrarMovimento(context.Background(), "Maria", dto.MovimentoManualRequest{
		Tipo: model.MovSaidaManual, Valor: dec("10.00"), Descricao: "Pagamento motoboy",
	})
	require.NoError(t, err)

	// esperado = 100.00 + 45.50 - 10.00 = 135.50; contado 135.00 → falta de 0.50
	resp, err := svc.Fechar(context.Background(), "Maria", dto.FecharCaixaRequest{ValorContado: dec("135.00")})
	require.NoError(t, err)

	require.NotNil(t, resp.Fechamento)
	assert.Equal(t, model.SessaoFechada, resp.Estado)
	assert.True(t, dec("135.50").Equal(resp.Fechamento.ValorEsperado))
	assert.True(t, dec("-0.50").Equal(resp.Fechamento.Diferenca))
	assert.Equal(t, model.DifFalta, resp.Fechamento.StatusDiferenca)
	assert.Equal(t, "Maria", resp.Fechamento.FechadaPor)
}

func TestFecharCaixaDuasVezes(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("100")})
	require.NoError(t, err)

	primeira, err := svc.Fechar(context.Background(), "Maria", dto.FecharCaixaRequest{ValorContado: dec("100")})
	require.NoError(t, err)

	_, err = svc.Fechar(context.Background(), "Maria", dto.FecharCaixaRequest{ValorContado: dec("999")})
	assert.ErrorIs(t, err, ErrCaixaNaoAberto)

	// os campos de fechamento continuam os da primeira chamada
	relatorio, err := svc.Relatorio(context.Background(), uuid.MustParse(primeira.ID))
	require.NoError(t, err)
	require.NotNil(t, relatorio.Fechamento)
	assert.True(t, dec("100").Equal(relatorio.Fechamento.ValorContado))
}

func TestSaldoCacheadoEquivaleAoReplay(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("200.00")})
	require.NoError(t, err)

	require.NoError(t, svc.RegistrarVenda(context.Background(), "Maria", "01", uuid.New(), dec("33.30"), nil))
	require.NoError(t, svc.RegistrarVenda(context.Background(), "Maria", "02", uuid.New(), dec("120.45"), nil))
	for _, m := range []dto.MovimentoManualRequest{
		{Tipo: model.MovEntradaManual, Valor: dec("15.00"), Descricao: "Aporte de troco"},
		{Tipo: model.MovSaidaManual, Valor: dec("42.80"), Descricao: "Compra emergencial"},
		{Tipo: model.MovSaidaManual, Valor: dec("7.25"), Descricao: "Taxi"},
	} {
		_, err = svc.RegistrarMovimento(context.Background(), "Maria", m)
		require.NoError(t, err)
	}

	sessao, err := repo.FindAberta(context.Background())
	require.NoError(t, err)

	replay := sessao.TrocoInicial
	for _, m := range repo.movimentos {
		replay = replay.Add(m.Assinado())
	}
	assert.True(t, replay.Equal(sessao.SaldoAtual),
		"replay %s != saldo cacheado %s", replay, sessao.SaldoAtual)
}

func TestHistoricoSoListaFechadas(t *testing.T) {
	repo := newFakeCaixaRepo()
	svc := NewCaixaService(repo, nil)

	_, err := svc.Abrir(context.Background(), "Maria", dto.AbrirCaixaRequest{TrocoInicial: dec("10")})
	require.NoError(t, err)
	_, err = svc.Fechar(context.Background(), "Maria", dto.FecharCaixaRequest{ValorContado: dec("10")})
	require.NoError(t, err)

	_, err = svc.Abrir(context.Background(), "João", dto.AbrirCaixaRequest{TrocoInicial: dec("20")})
	require.NoError(t, err)

	lista, total, err := svc.Historico(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, lista, 1)
	assert.Equal(t, model.SessaoFechada, lista[0].Estado)
}

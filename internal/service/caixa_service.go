package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/dto"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CaixaService interface {
	Abrir(ctx context.Context, operador string, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error)
	// SessaoAberta returns the single open session; ErrCaixaNaoAberto when
	// there is none.
	SessaoAberta(ctx context.Context) (*dto.SessaoCaixaResponse, error)
	RegistrarMovimento(ctx context.Context, operador string, req dto.MovimentoManualRequest) (*dto.MovimentoResponse, error)
	// RegistrarVenda appends the venda movement produced by a comanda
	// fechamento. movimentoID is the logical id the caller retries with.
	RegistrarVenda(ctx context.Context, operador, chaveMesa string, movimentoID uuid.UUID, total decimal.Decimal, itens []model.ItemComanda) error
	Fechar(ctx context.Context, operador string, req dto.FecharCaixaRequest) (*dto.SessaoCaixaResponse, error)
	Relatorio(ctx context.Context, id uuid.UUID) (*dto.SessaoCaixaResponse, error)
	Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaResponse, int64, error)
}

type caixaService struct {
	repo       repository.CaixaRepository
	dispatcher *worker.Dispatcher // nil when async jobs are disabled (tests)
}

func NewCaixaService(repo repository.CaixaRepository, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{repo: repo, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, operador string, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.TrocoInicial.IsNegative() {
		return nil, ErrValorInvalido
	}

	sessao := &model.SessaoCaixa{
		Estado:        model.SessaoAberta,
		TrocoInicial:  req.TrocoInicial,
		AbertaPor:     operador,
		ObsAbertura:   req.Observacao,
		AbertaEm:      time.Now(),
		TotalVendas:   decimal.Zero,
		TotalEntradas: decimal.Zero,
		TotalSaidas:   decimal.Zero,
		SaldoAtual:    req.TrocoInicial,
	}
	if err := s.repo.CriarSessao(ctx, sessao); err != nil {
		// the partial unique index loses the race for us
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCaixaJaAberto
		}
		return nil, fmt.Errorf("abrir caixa: %w", err)
	}

	log.Info().Str("sessao_id", sessao.ID.String()).Str("operador", operador).
		Str("troco_inicial", req.TrocoInicial.StringFixed(2)).Msg("caixa aberto")
	return mapSessao(sessao, false), nil
}

// ── SessaoAberta ──────────────────────────────────────────────────────────────

func (s *caixaService) SessaoAberta(ctx context.Context) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.sessaoAbertaModel(ctx)
	if err != nil {
		return nil, err
	}
	return mapSessao(sessao, true), nil
}

func (s *caixaService) sessaoAbertaModel(ctx context.Context) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindAberta(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCaixaNaoAberto
		}
		return nil, fmt.Errorf("buscar caixa aberto: %w", err)
	}
	return sessao, nil
}

// ── RegistrarMovimento ────────────────────────────────────────────────────────
// Entrada / saída manual. Movements are immutable — corrections append a
// compensating movement referencing the original id in the description.

func (s *caixaService) RegistrarMovimento(ctx context.Context, operador string, req dto.MovimentoManualRequest) (*dto.MovimentoResponse, error) {
	sessao, err := s.sessaoAbertaModel(ctx)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimentoCaixa{
		Tipo:      req.Tipo,
		Valor:     req.Valor,
		Descricao: req.Descricao,
		Operador:  operador,
	}
	if req.MovimentoID != "" {
		id, err := uuid.Parse(req.MovimentoID)
		if err != nil {
			return nil, fmt.Errorf("movimento_id inválido: %w", err)
		}
		mov.ID = id
	} else {
		mov.ID = uuid.New()
	}

	if err := s.appendMovimento(ctx, sessao.ID, mov); err != nil {
		return nil, err
	}
	resp := mapMovimento(*mov)
	return &resp, nil
}

func (s *caixaService) RegistrarVenda(ctx context.Context, operador, chaveMesa string, movimentoID uuid.UUID, total decimal.Decimal, itens []model.ItemComanda) error {
	sessao, err := s.sessaoAbertaModel(ctx)
	if err != nil {
		return err
	}

	snapshot := make([]model.MovimentoItem, 0, len(itens))
	for _, it := range itens {
		snapshot = append(snapshot, model.MovimentoItem{
			ProdutoID:     it.ProdutoID,
			Nome:          it.Nome,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
		})
	}

	mov := &model.MovimentoCaixa{
		ID:                movimentoID,
		Tipo:              model.MovVenda,
		Valor:             total,
		Descricao:         fmt.Sprintf("Venda comanda mesa %s", chaveMesa),
		Operador:          operador,
		ReferenciaComanda: &chaveMesa,
		Itens:             snapshot,
	}
	return s.appendMovimento(ctx, sessao.ID, mov)
}

func (s *caixaService) appendMovimento(ctx context.Context, sessaoID uuid.UUID, mov *model.MovimentoCaixa) error {
	if err := s.repo.AppendMovimento(ctx, sessaoID, mov); err != nil {
		if errors.Is(err, repository.ErrSessaoNaoAberta) {
			return ErrCaixaNaoAberto
		}
		// never report a failed append as success — a swallowed error here
		// silently loses a sale
		return fmt.Errorf("registrar movimento: %w", err)
	}
	return nil
}

// ── Fechar ────────────────────────────────────────────────────────────────────

func (s *caixaService) Fechar(ctx context.Context, operador string, req dto.FecharCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.ValorContado.IsNegative() {
		return nil, ErrValorInvalido
	}

	sessao, err := s.sessaoAbertaModel(ctx)
	if err != nil {
		return nil, err
	}

	err = s.repo.FecharSessao(ctx, sessao.ID, func(locked *model.SessaoCaixa) error {
		esperado := locked.TrocoInicial.
			Add(locked.TotalVendas).
			Add(locked.TotalEntradas).
			Sub(locked.TotalSaidas)
		diferenca, status := Reconciliar(esperado, req.ValorContado)

		agora := time.Now()
		contado := req.ValorContado
		locked.FechadaEm = &agora
		locked.ValorContado = &contado
		locked.ValorEsperado = &esperado
		locked.Diferenca = &diferenca
		locked.StatusDiferenca = &status
		locked.FechadaPor = &operador
		if req.Observacao != "" {
			obs := req.Observacao
			locked.ObsFechamento = &obs
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrSessaoNaoAberta) {
			return nil, ErrCaixaNaoAberto
		}
		return nil, fmt.Errorf("fechar caixa: %w", err)
	}

	fechada, err := s.repo.FindByID(ctx, sessao.ID)
	if err != nil {
		return nil, fmt.Errorf("fechar caixa: recarregar sessão: %w", err)
	}

	log.Info().Str("sessao_id", fechada.ID.String()).Str("operador", operador).
		Str("status_diferenca", derefStr(fechada.StatusDiferenca)).Msg("caixa fechado")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueFechamento(ctx, worker.FechamentoJobPayload{SessaoID: fechada.ID.String()}); err != nil {
			// the close itself succeeded; the summary email is best-effort
			log.Error().Err(err).Msg("enfileirar e-mail de fechamento")
		}
	}

	return mapSessao(fechada, true), nil
}

// ── Relatorio / Historico ─────────────────────────────────────────────────────

func (s *caixaService) Relatorio(ctx context.Context, id uuid.UUID) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNaoEncontrado
		}
		return nil, err
	}
	return mapSessao(sessao, true), nil
}

func (s *caixaService) Historico(ctx context.Context, page, limit int) ([]dto.SessaoCaixaResponse, int64, error) {
	sessoes, total, err := s.repo.ListFechadas(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]dto.SessaoCaixaResponse, 0, len(sessoes))
	for i := range sessoes {
		out = append(out, *mapSessao(&sessoes[i], false))
	}
	return out, total, nil
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func mapSessao(s *model.SessaoCaixa, comMovimentos bool) *dto.SessaoCaixaResponse {
	resp := &dto.SessaoCaixaResponse{
		ID:           s.ID.String(),
		Estado:       s.Estado,
		TrocoInicial: s.TrocoInicial,
		AbertaPor:    s.AbertaPor,
		ObsAbertura:  s.ObsAbertura,
		AbertaEm:     s.AbertaEm.Format(time.RFC3339),
		Totais: dto.TotaisCaixaResponse{
			TotalVendas:   s.TotalVendas,
			TotalEntradas: s.TotalEntradas,
			TotalSaidas:   s.TotalSaidas,
			SaldoAtual:    s.SaldoAtual,
		},
	}
	if comMovimentos {
		resp.Movimentos = make([]dto.MovimentoResponse, 0, len(s.Movimentos))
		for _, m := range s.Movimentos {
			resp.Movimentos = append(resp.Movimentos, mapMovimento(m))
		}
	}
	if s.Estado == model.SessaoFechada && s.ValorContado != nil {
		resp.Fechamento = &dto.FechamentoResponse{
			ValorContado:    *s.ValorContado,
			ValorEsperado:   *s.ValorEsperado,
			Diferenca:       *s.Diferenca,
			StatusDiferenca: derefStr(s.StatusDiferenca),
			FechadaPor:      derefStr(s.FechadaPor),
			Observacao:      s.ObsFechamento,
		}
		if s.FechadaEm != nil {
			resp.Fechamento.FechadaEm = s.FechadaEm.Format(time.RFC3339)
		}
	}
	return resp
}

func mapMovimento(m model.MovimentoCaixa) dto.MovimentoResponse {
	resp := dto.MovimentoResponse{
		ID:                m.ID.String(),
		Tipo:              m.Tipo,
		Valor:             m.Valor,
		Descricao:         m.Descricao,
		Operador:          m.Operador,
		ReferenciaComanda: m.ReferenciaComanda,
		CriadoEm:          m.CriadoEm.Format(time.RFC3339),
	}
	for _, it := range m.Itens {
		resp.Itens = append(resp.Itens, dto.MovimentoItemResponse{
			ProdutoID:     it.ProdutoID.String(),
			Nome:          it.Nome,
			Quantidade:    it.Quantidade,
			PrecoUnitario: it.PrecoUnitario,
		})
	}
	return resp
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

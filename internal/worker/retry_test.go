package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/infra"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/model"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubCaixaRepo lets each test pick what FindByID answers.
type stubCaixaRepo struct {
	sessao *model.SessaoCaixa
	err    error
}

var _ repository.CaixaRepository = (*stubCaixaRepo)(nil)

func (r *stubCaixaRepo) CriarSessao(context.Context, *model.SessaoCaixa) error { return nil }

func (r *stubCaixaRepo) FindAberta(context.Context) (*model.SessaoCaixa, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCaixaRepo) FindByID(context.Context, uuid.UUID) (*model.SessaoCaixa, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.sessao, nil
}

func (r *stubCaixaRepo) AppendMovimento(context.Context, uuid.UUID, *model.MovimentoCaixa) error {
	return nil
}

func (r *stubCaixaRepo) FecharSessao(context.Context, uuid.UUID, func(*model.SessaoCaixa) error) error {
	return nil
}

func (r *stubCaixaRepo) ListFechadas(context.Context, int, int) ([]model.SessaoCaixa, int64, error) {
	return nil, 0, nil
}

func fechamentoPayload(t *testing.T) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(FechamentoJobPayload{SessaoID: uuid.NewString()})
	require.NoError(t, err)
	return raw
}

func TestBackoffProgressivoAteEsgotar(t *testing.T) {
	espera, esgotado := proximaTentativa(1)
	assert.False(t, esgotado)
	assert.Equal(t, time.Minute, espera)

	espera, esgotado = proximaTentativa(2)
	assert.False(t, esgotado)
	assert.Equal(t, 2*time.Minute, espera)

	// na última tentativa o job vai para a DLQ, não para a fila de retry
	_, esgotado = proximaTentativa(MaxFechamentoRetries)
	assert.True(t, esgotado)
}

func TestProcessFalhaTransitoriaRetornaErro(t *testing.T) {
	repo := &stubCaixaRepo{err: errors.New("connection reset by peer")}
	w := NewFechamentoWorker(repo, &infra.Mailer{}, "chefe@example.com", t.TempDir())

	err := w.Process(context.Background(), fechamentoPayload(t))
	require.Error(t, err)
}

func TestProcessPayloadInvalidoNaoReprocessa(t *testing.T) {
	w := NewFechamentoWorker(&stubCaixaRepo{}, &infra.Mailer{}, "chefe@example.com", t.TempDir())

	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{`)))
	assert.NoError(t, w.Process(context.Background(), json.RawMessage(`{"sessao_id":"nao-e-uuid"}`)))
}

func TestProcessSessaoInexistenteNaoReprocessa(t *testing.T) {
	repo := &stubCaixaRepo{err: gorm.ErrRecordNotFound}
	w := NewFechamentoWorker(repo, &infra.Mailer{}, "chefe@example.com", t.TempDir())

	assert.NoError(t, w.Process(context.Background(), fechamentoPayload(t)))
}

func TestProcessSemDestinatarioIgnora(t *testing.T) {
	w := NewFechamentoWorker(&stubCaixaRepo{}, &infra.Mailer{}, "", t.TempDir())

	assert.NoError(t, w.Process(context.Background(), fechamentoPayload(t)))
}

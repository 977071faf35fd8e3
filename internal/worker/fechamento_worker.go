package worker

// fechamento_worker.go
// Processes close-out summary jobs from QueueFechamento: renders the session
// report PDF and mails it to the supervisor address.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/infra"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// FechamentoJobPayload is the job envelope sent to QueueFechamento.
type FechamentoJobPayload struct {
	SessaoID string `json:"sessao_id"`
}

type FechamentoWorker struct {
	repo         repository.CaixaRepository
	mailer       *infra.Mailer
	destinatario string
	storagePath  string
}

func NewFechamentoWorker(repo repository.CaixaRepository, mailer *infra.Mailer, destinatario, storagePath string) *FechamentoWorker {
	return &FechamentoWorker{repo: repo, mailer: mailer, destinatario: destinatario, storagePath: storagePath}
}

// Process renders and mails the close-out report. The session itself is
// already closed and consistent; a returned error only means the summary was
// not delivered, and the pool routes it to the retry set. Malformed payloads
// are dropped — no retry can fix them.
func (w *FechamentoWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload FechamentoJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("fechamento_worker: invalid payload")
		return nil
	}
	if w.destinatario == "" {
		log.Debug().Msg("fechamento_worker: no supervisor email configured — skipping")
		return nil
	}

	id, err := uuid.Parse(payload.SessaoID)
	if err != nil {
		log.Error().Err(err).Str("sessao_id", payload.SessaoID).Msg("fechamento_worker: invalid session id")
		return nil
	}
	sessao, err := w.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Str("sessao_id", payload.SessaoID).Msg("fechamento_worker: session not found")
			return nil
		}
		return fmt.Errorf("fechamento_worker: carregar sessão: %w", err)
	}
	if sessao.FechadaEm == nil || sessao.ValorEsperado == nil || sessao.ValorContado == nil || sessao.Diferenca == nil {
		log.Warn().Str("sessao_id", payload.SessaoID).Msg("fechamento_worker: session not closed — skipping")
		return nil
	}

	pdfPath, err := infra.GerarRelatorioPDF(sessao, w.storagePath)
	if err != nil {
		log.Error().Err(err).Msg("fechamento_worker: render PDF")
		pdfPath = "" // still send the plain-text summary
	}

	subject := fmt.Sprintf("Fechamento de caixa %s", sessao.FechadaEm.Format("02/01/2006"))
	body := fmt.Sprintf(
		"Caixa fechado por %s.\nEsperado: R$ %s\nContado: R$ %s\nDiferença: R$ %s (%s)\n",
		derefOr(sessao.FechadaPor, "?"),
		sessao.ValorEsperado.StringFixed(2),
		sessao.ValorContado.StringFixed(2),
		sessao.Diferenca.StringFixed(2),
		derefOr(sessao.StatusDiferenca, "?"),
	)
	if err := w.mailer.Send(w.destinatario, subject, body, pdfPath); err != nil {
		return fmt.Errorf("fechamento_worker: enviar e-mail: %w", err)
	}
	log.Info().Str("sessao_id", payload.SessaoID).Str("to", w.destinatario).Msg("fechamento_worker: summary sent")
	return nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

package worker

// Jobs that exhaust their retry budget are parked in a Redis list keyed
// dlq:{queue original}. Nothing consumes these entries automatically; an
// operator inspects and re-enqueues by hand (LMOVE back to the source queue).

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry preserves the dead job together with why and when it died.
type DLQEntry struct {
	FilaOrigem string          `json:"fila_origem"`
	Tipo       string          `json:"tipo"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FalhouEm   time.Time       `json:"falhou_em"`
	Tentativas int             `json:"tentativas"`
}

// SendToDLQ moves a dead job into the inspection queue. Best-effort: a DLQ
// write failure is logged, never propagated — the job was already lost.
func SendToDLQ(ctx context.Context, rdb *redis.Client, fila string, job Job, motivo string) {
	entry := DLQEntry{
		FilaOrigem: fila,
		Tipo:       job.Type,
		Payload:    job.Payload,
		Motivo:     motivo,
		FalhouEm:   time.Now().UTC(),
		Tentativas: job.Attempts,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("fila", fila).Msg("dlq: serializar entrada")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+fila, data).Err(); err != nil {
		log.Error().Err(err).Str("fila", DLQPrefix+fila).Msg("dlq: gravar entrada")
		return
	}
	log.Warn().Str("fila", fila).Str("tipo", job.Type).Str("motivo", motivo).
		Int("tentativas", job.Attempts).Msg("dlq: job movido para inspeção manual")
}

// DLQLength exposes the DLQ depth for monitoring.
func DLQLength(ctx context.Context, rdb *redis.Client, fila string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+fila).Result()
}

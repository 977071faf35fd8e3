package worker

// Failed fechamento jobs wait in a Redis sorted set scored by the unix time
// of their next attempt. The retry cron ticks every 30s and moves due entries
// back onto the main queue; a job that exhausts MaxFechamentoRetries goes to
// the DLQ instead of being rescheduled.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	RetryZSet            = "jobs:fechamento:retry"
	MaxFechamentoRetries = 3

	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// proximaTentativa returns how long attempt n (1-based) waits before being
// re-enqueued, and whether the retry budget is spent. Backoff: 1m, 2m, 4m…
func proximaTentativa(tentativas int) (time.Duration, bool) {
	if tentativas >= MaxFechamentoRetries {
		return 0, true
	}
	return time.Duration(1<<uint(tentativas-1)) * time.Minute, false
}

// scheduleRetry routes a failed job to the retry set, or to the DLQ once its
// attempts are spent.
func scheduleRetry(ctx context.Context, rdb *redis.Client, job Job, causa error) {
	job.Attempts++

	espera, esgotado := proximaTentativa(job.Attempts)
	if esgotado {
		SendToDLQ(ctx, rdb, QueueFechamento, job, causa.Error())
		return
	}

	data, err := json.Marshal(job)
	if err != nil {
		log.Error().Err(err).Msg("retry: serializar job")
		return
	}
	score := float64(time.Now().Add(espera).Unix())
	if err := rdb.ZAdd(ctx, RetryZSet, redis.Z{Score: score, Member: data}).Err(); err != nil {
		log.Error().Err(err).Msg("retry: agendar job")
		return
	}
	log.Warn().Err(causa).Int("tentativa", job.Attempts).Dur("espera", espera).
		Msg("retry: job de fechamento reagendado")
}

// StartRetryCron launches the goroutine that re-enqueues due retries.
// Respects ctx for graceful shutdown, like the worker pool.
func StartRetryCron(ctx context.Context, rdb *redis.Client) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry cron iniciado")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry cron encerrando")
				return
			case <-ticker.C:
				requeueDue(ctx, rdb)
			}
		}
	}()
}

func requeueDue(ctx context.Context, rdb *redis.Client) {
	agora := strconv.FormatInt(time.Now().Unix(), 10)
	devidos, err := rdb.ZRangeByScore(ctx, RetryZSet, &redis.ZRangeBy{
		Min: "-inf", Max: agora, Count: retryBatchSize,
	}).Result()
	if err != nil {
		log.Error().Err(err).Msg("retry: consultar jobs devidos")
		return
	}

	reenfileirados := 0
	for _, raw := range devidos {
		// ZRem decides ownership when multiple instances race on the same entry.
		n, err := rdb.ZRem(ctx, RetryZSet, raw).Result()
		if err != nil || n == 0 {
			continue
		}
		if err := rdb.LPush(ctx, QueueFechamento, raw).Err(); err != nil {
			log.Error().Err(err).Msg("retry: reenfileirar job")
			continue
		}
		reenfileirados++
	}
	if reenfileirados > 0 {
		log.Info().Int("count", reenfileirados).Msg("retry: jobs de fechamento reenfileirados")
	}
}

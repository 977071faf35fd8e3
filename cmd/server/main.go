package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/config"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/infra"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/repository"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/router"
	"github.com/VinicioZZs/RestaurenteOS-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("carregar configuração")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar ao postgres")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("rodar migrações")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar ao redis")
	}

	// The worker pool gets its dependencies here, not from the router, so the
	// HTTP layer and the async side stay independently wireable.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	caixaRepo := repository.NewCaixaRepository(db)
	handlers := &worker.Handlers{
		Fechamento: worker.NewFechamentoWorker(caixaRepo, mailer, cfg.RelatorioEmail, cfg.PDFStoragePath),
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, rdb)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("RestaurenteOS backend no ar")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("servidor HTTP")
		}
	}()

	// SIGINT/SIGTERM drain in-flight requests before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("encerrando servidor")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("encerramento forçado")
	}
	log.Info().Msg("servidor encerrado")
}

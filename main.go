// apps/go-server/main.go
//
// Process entry point.
// Responsibilities:
//   - Load configuration and set up the global zerolog logger.
//   - Build the word corpus, round store, lobby, hub and orchestrator.
//   - Serve HTTP until SIGINT/SIGTERM, then shut down gracefully.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordduel/apps/go-server/internal/config"
	"github.com/robalobadob/wordduel/apps/go-server/internal/httpserver"
	"github.com/robalobadob/wordduel/apps/go-server/internal/lobby"
	"github.com/robalobadob/wordduel/apps/go-server/internal/orchestrator"
	"github.com/robalobadob/wordduel/apps/go-server/internal/store"
	"github.com/robalobadob/wordduel/apps/go-server/internal/words"
	"github.com/robalobadob/wordduel/apps/go-server/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	corpus, err := words.Load(cfg.WordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load word list")
	}
	log.Info().Int("words", corpus.Len()).Msg("corpus loaded")

	st := store.NewMemoryStore()
	if cfg.DBPath != "" {
		if st, err = store.OpenSQLite(cfg.DBPath); err != nil {
			log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open round store")
		}
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("close round store")
		}
	}()

	hub := ws.NewHub(ws.Options{
		SendBuffer:    cfg.WSSendBuffer,
		RatePerSecond: cfg.WSRateLimit,
		RateBurst:     cfg.WSRateBurst,
		AllowedOrigin: cfg.ClientOrigin,
		PingInterval:  cfg.WSPingInterval,
	})
	orch := orchestrator.New(
		lobby.New(),
		hub,
		words.NewPicker(corpus, words.NewSeededSource()),
		st,
	)

	srv := httpserver.New(httpserver.Deps{
		Stats:     orch,
		Store:     st,
		CorpusLen: corpus.Len,
		WS:        hub.Handler(orch),
		WSConns:   hub.Connections,
	}, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
		Admin: httpserver.AdminOptions{
			PasswordHash: cfg.AdminPasswordHash,
			JWTSecret:    cfg.AdminJWTSecret,
			TokenTTL:     cfg.AdminTokenTTL,
			SecureCookie: cfg.Production(),
		},
	})
	if !cfg.AdminEnabled() {
		log.Warn().Msg("ADMIN_PASSWORD_HASH not set, admin endpoints disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting go-server")
		errc <- srv.Start(cfg.Addr())
	}()

	select {
	case err := <-errc:
		if err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
		return
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	hub.Close()
	// Give socket handlers a moment to run their disconnect path.
	waitForSockets(shutdownCtx, hub)
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown LOG_LEVEL, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func waitForSockets(ctx context.Context, hub *ws.Hub) {
	t := time.NewTicker(20 * time.Millisecond)
	defer t.Stop()
	for hub.Connections() > 0 {
		select {
		case <-ctx.Done():
			log.Warn().Int("open", hub.Connections()).Msg("sockets still open at exit")
			return
		case <-t.C:
		}
	}
}

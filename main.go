package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"eothello/bot"
	"eothello/communication/client"
	"eothello/engine"
	"eothello/game"
	"eothello/player"
	"eothello/storage"
)

func main() {
	cfg := bot.DefaultConfig()

	flag.StringVar(&cfg.BinaryPath, "engine", envOr("BINARY_PATH", ""), "path to the engine binary")
	flag.StringVar(&cfg.EngineMode, "engine-mode", envOr("ENGINE_MODE", cfg.EngineMode), "engine lifecycle: persistent or oneshot")
	flag.DurationVar(&cfg.EngineTimeout, "engine-timeout", envDurationOr("ENGINE_TIMEOUT", cfg.EngineTimeout), "per-request engine deadline")
	flag.StringVar(&cfg.BaseURL, "base-url", envOr("BASE_URL", cfg.BaseURL), "site base URL")
	flag.StringVar(&cfg.PlayerID, "player", envOr("PLAYER_ID", ""), "site player id")
	flag.StringVar(&cfg.AuthCookie, "auth-cookie", envOr("AUTH_COOKIE", ""), "authentication cookie value")
	flag.DurationVar(&cfg.GamesCheckInterval, "games-interval", envDurationOr("GAMES_CHECK_INTERVAL", cfg.GamesCheckInterval), "games-list refresh interval")
	flag.DurationVar(&cfg.MoveCheckInterval, "moves-interval", envDurationOr("MOVES_CHECK_INTERVAL", cfg.MoveCheckInterval), "per-cycle move check interval")
	flag.DurationVar(&cfg.RequestDelay, "request-delay", envDurationOr("REQUEST_DELAY", cfg.RequestDelay), "delay between games within a cycle")
	flag.DurationVar(&cfg.ErrorBackoff, "error-backoff", envDurationOr("ERROR_BACKOFF", cfg.ErrorBackoff), "pause after an unexpected cycle failure")
	flag.StringVar(&cfg.StatePath, "state", envOr("STATE_PATH", ""), "tracking database path (empty: memory only)")
	flag.StringVar(&cfg.Prompt, "prompt", envOr("ENGINE_PROMPT", ""), "engine reply decoration (empty: the engine default)")
	level := flag.String("log-level", envOr("LOG_LEVEL", "info"), "log level")
	flag.Parse()

	if parsed, err := zerolog.ParseLevel(*level); err == nil {
		zerolog.SetGlobalLevel(parsed)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	site := client.NewSiteClient(cfg.BaseURL, cfg.PlayerID, cfg.AuthCookie)

	var store game.TrackingStore
	if cfg.StatePath != "" {
		s, err := storage.Open(cfg.StatePath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open the tracking store")
		}
		defer s.Close()
		store = s
	}
	tracker, err := game.NewTracker(store)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load tracking state")
	}

	var generator engine.Generator
	switch cfg.EngineMode {
	case bot.ModeOneShot:
		generator = engine.NewOneShot(cfg.BinaryPath, engine.WithTimeout(cfg.EngineTimeout))
	default:
		channel := engine.NewChannel(cfg.BinaryPath, engine.WithTimeout(cfg.EngineTimeout))
		if err := channel.Start(); err != nil {
			log.Fatal().Err(err).Msg("cannot start the engine")
		}
		defer channel.Kill()
		generator = channel
	}

	negotiator := player.NewNegotiator(generator, site, cfg.Prompt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("mode", cfg.EngineMode).Str("player", cfg.PlayerID).Msg("bot starting")
	bot.New(cfg, site, tracker, negotiator).Run(ctx)
	log.Info().Msg("bot stopped")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

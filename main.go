package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"tak/agent"
	"tak/config"
	"tak/game"
	"tak/searcher"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address, overrides config")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	space := game.NewActionSpace(cfg.Server.BoardSize)

	var oracle searcher.Oracle
	if cfg.Search.OracleURL != "" {
		oracle = searcher.NewRemote(cfg.Search.OracleURL, space)
		log.Info().Str("url", cfg.Search.OracleURL).Msg("using remote oracle")
	} else {
		oracle = searcher.NewUniform(space)
		log.Info().Msg("using uniform stub oracle")
	}

	mcts := searcher.NewMCTS(space, oracle,
		searcher.WithSimulations(cfg.Search.Simulations),
		searcher.WithExploration(cfg.Search.Exploration),
		searcher.WithMaxDepth(cfg.Search.MaxDepth),
		searcher.WithParallelism(cfg.Search.Parallelism),
		searcher.WithMetrics(),
	)
	a := agent.NewSearchAgent(mcts, cfg.Search.Temperature, uint64(time.Now().UnixNano()))
	server := agent.NewServer(a, space)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("agent server failed")
	}
	log.Info().Msg("agent server stopped")
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"groupchatgo/internal/chat"
	"groupchatgo/internal/config"
	"groupchatgo/internal/http/http_server"
	"groupchatgo/internal/services/joke"
	"groupchatgo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Room registry, owned here and handed to the servers
	registry := chat.NewRegistry()

	// 4. Joke service for the /joke chat command
	jokeService := joke.NewJokeService(
		cfg.JokeApiUrl,
		time.Duration(cfg.JokeTimeoutSeconds)*time.Second,
	)

	// 5. WS server turning connections into chat sessions
	wsSrv := ws.NewWsServer(registry, jokeService)

	// 6. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, registry)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}

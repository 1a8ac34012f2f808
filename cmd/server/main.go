package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sospetto-game/server/pkg/api"
	"github.com/sospetto-game/server/pkg/codes"
	"github.com/sospetto-game/server/pkg/game"
	"github.com/sospetto-game/server/pkg/log"
	"github.com/sospetto-game/server/pkg/network"
	"github.com/sospetto-game/server/pkg/words"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		panic(fmt.Sprintf("Failed to load .env file: %v", err))
	}

	port := flag.Int("port", 8080, "Port to listen on")
	logLevel := flag.String("log-level", "info", "Log level")
	wordSource := flag.String("words", "static", "Word source: static, sqlite or postgres")
	wordsDB := flag.String("words-db", "", "SQLite database path for -words=sqlite")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := newWordsProvider(ctx, *wordSource, *wordsDB)
	if err != nil {
		panic(fmt.Sprintf("Failed to create words provider: %v", err))
	}

	// Categories are loaded once up front so no state transition ever waits
	// on I/O.
	categories, err := provider.Categories(ctx)
	if err != nil {
		panic(fmt.Sprintf("Failed to load word categories: %v", err))
	}
	if err := provider.Close(ctx); err != nil {
		log.Warn("Failed to close words provider: %v", err)
	}
	log.Info("Loaded %d word categories from %s source", len(categories), *wordSource)

	clientManager := network.NewClientManager()
	gameManager := game.NewManager(game.NewManagerOptions{
		Messenger:  clientManager,
		Categories: categories,
		Codes:      codes.NewGenerator(),
		Timing:     game.DefaultTiming(),
	})

	wsHandler := network.NewWSHandler(network.NewWSHandlerOptions{
		ClientManager: clientManager,
		OnMessage:     gameManager.HandleMessage,
		OnDisconnect:  gameManager.HandleDisconnect,
	})

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:      *port,
		TLS:       tlsConfigFromEnv(),
		WSHandler: wsHandler,
		Rooms:     gameManager,
	})
	go apiServer.Start()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}
}

func newWordsProvider(ctx context.Context, source string, dbPath string) (words.Provider, error) {
	switch source {
	case "static":
		return words.NewStaticProvider()
	case "sqlite":
		if dbPath == "" {
			return nil, fmt.Errorf("-words-db is required for -words=sqlite")
		}
		return words.NewSQLiteProvider(ctx, dbPath)
	case "postgres":
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable must be set for -words=postgres")
		}
		return words.NewPostgresProvider(ctx, connStr)
	default:
		return nil, fmt.Errorf("unknown word source %q", source)
	}
}

func tlsConfigFromEnv() *api.TLSConfig {
	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")
	if certFile == "" || keyFile == "" {
		return nil
	}
	return &api.TLSConfig{CertFile: certFile, KeyFile: keyFile}
}

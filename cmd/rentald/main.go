package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-schedule-backend/config"
	"rental-schedule-backend/internal/api"
	"rental-schedule-backend/internal/db"
	"rental-schedule-backend/internal/store"
)

const usage = `usage: rentald [-config path] [serve|migrate|seed]

  serve    run the HTTP server (default)
  migrate  create or update the database schema and exit
  seed     insert the sample machines into an empty database and exit
`

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "rentald ", log.LstdFlags)

	configPath := flag.String("config", config.Path(), "path to the YAML configuration file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	command := "serve"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", *configPath)

	// Initialize database; this also runs the schema migration.
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Printf("database initialized successfully (driver %s)", cfg.Database.Driver)

	appStore := store.NewGormStore(gormDB)

	switch command {
	case "migrate":
		logger.Println("schema is up to date")
	case "seed":
		seed(logger, appStore)
	case "serve":
		if cfg.Database.SeedOnStart {
			seed(logger, appStore)
		}
		serve(logger, cfg, appStore)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func seed(logger *log.Logger, s store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := db.Seed(ctx, s)
	if err != nil {
		logger.Fatalf("failed to seed database: %v", err)
	}
	if n == 0 {
		logger.Println("database already has machines, nothing seeded")
		return
	}
	logger.Printf("seeded %d sample machines", n)
}

func serve(logger *log.Logger, cfg *config.Config, s store.Store) {
	router := api.NewRouter(s, cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}

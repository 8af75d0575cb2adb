package main

import (
	"breadstation_server/api"
	"breadstation_server/config"
	"breadstation_server/database"
	"breadstation_server/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	logger := config.GetLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	if err := config.ValidateSecrets(cfg); err != nil {
		logger.Fatal("Refusing to start", gecho.Field("error", err))
	}

	if err := database.Initialize(); err != nil {
		logger.Fatal("Failed to initialize database", gecho.Field("error", err))
	}
	defer database.CloseInstance()

	sm := services.NewServiceManager(logger, cfg, database.GetInstance())
	defer sm.CacheService.Close()

	if len(os.Args) > 1 {
		if err := runCommand(context.Background(), sm, os.Args[1:]); err != nil {
			logger.Error("Command failed", gecho.Field("error", err))
			os.Exit(1)
		}
		return
	}

	srv := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(sm),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", gecho.Field("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", gecho.Field("error", err))
	}
}

// runCommand handles the maintenance subcommands, currently `import <file.csv>`
func runCommand(ctx context.Context, sm *services.ServiceManager, args []string) error {
	switch args[0] {
	case "import":
		if len(args) != 2 {
			return errors.New("usage: breadstation import <catalog.csv>")
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		result, err := sm.ImportService.Import(ctx, f)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d products, %d options, %d categories\n",
			result.Message, result.Stats.Products, result.Stats.Options, result.Stats.Categories)
		return nil
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

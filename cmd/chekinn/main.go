package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yungbote/chekinn-backend/internal/app"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

var logMode string

var rootCmd = &cobra.Command{
	Use:           "chekinn",
	Short:         "Chekinn conversational companion backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	def := os.Getenv("LOG_MODE")
	if def == "" {
		def = "development"
	}
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", def, "Logger mode (development, production)")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() (*logger.Logger, error) {
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// withApp builds the application, runs fn, and tears everything down.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signalContext()
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to initialize app", "error", err)
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

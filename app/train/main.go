package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"myBookShelf/app/bootstrap"
	"myBookShelf/business/recommendation"
	"myBookShelf/pkg/config"
	"myBookShelf/pkg/database"
	"myBookShelf/pkg/logger"
	"os"
	"os/signal"
	"syscall"
)

const (
	exitOK           = 0
	exitFailure      = 1
	exitUsage        = 2
	exitNotTrainable = 3
)

type trainer interface {
	TrainModel(ctx context.Context, force bool) (recommendation.TrainResult, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// training never reads the result cache
	svc := bootstrap.NewService(cfg, db, nil)

	code := run(ctx, os.Args[1:], svc, os.Stdout)
	stop()
	logger.Sync()
	os.Exit(code)
}

func run(ctx context.Context, args []string, svc trainer, out io.Writer) int {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(out)
	force := fs.Bool("force", false, "retrain even if a model already exists")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	res, err := svc.TrainModel(ctx, *force)
	switch {
	case errors.Is(err, recommendation.ErrNotTrainable):
		fmt.Fprintln(out, "warning: no interest, favorite or peer rating data to train on")
		return exitNotTrainable
	case err != nil:
		logger.Error("training failed", "error", err)
		fmt.Fprintf(out, "error: training failed: %v\n", err)
		return exitFailure
	case res.Skipped:
		fmt.Fprintln(out, "model already exists; use --force to retrain")
		return exitOK
	}

	fmt.Fprintf(out, "model trained for %d users\n", res.Users)
	return exitOK
}

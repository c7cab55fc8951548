package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fileproc/internal/config"
	"fileproc/internal/engine"
	"fileproc/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "fileproc.yml", "path to the YAML config (optional)")
	flag.Parse()
	logging.InitFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *cfgPath); err != nil {
		logging.L().Error("fileproc failed", "err", err)
		stop()
		os.Exit(1)
	}
	fmt.Println("Processing completed successfully.")
}

func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	e, err := engine.Bootstrap(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	res, err := e.Run(ctx)
	if err != nil {
		return err
	}
	logging.L().Info("derived artifact written",
		"run_id", res.RunID,
		"record_id", res.Derived.ID,
		"filepath", res.Derived.Filepath,
	)
	return nil
}

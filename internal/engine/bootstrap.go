package engine

import (
	"context"
	"fmt"

	"fileproc/internal/config"
	"fileproc/internal/logging"
	"fileproc/internal/pipeline"
)

func Bootstrap(ctx context.Context, cfg config.Config) (*Engine, error) {
	// 1. pipeline driver
	d, err := pipeline.Compile(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	logging.L().Info("engine ready",
		"resolver", cfg.Resolver.Kind,
		"records", cfg.Records.Driver,
		"blobs", cfg.Blobs.Driver,
		"transform", cfg.Transform.Type,
		"sinks", cfg.Notify.Sinks,
	)

	// 2. metrics are pushed after the run
	return &Engine{
		driver:    d,
		telemetry: cfg.Telemetry,
	}, nil
}

package engine

import (
	"context"
	"errors"
	"time"

	"fileproc/internal/config"
	"fileproc/internal/logging"
	"fileproc/internal/pipeline"
)

const pushTimeout = 10 * time.Second

type Engine struct {
	driver    *pipeline.Driver
	telemetry config.Telemetry
}

// Run executes the pipeline once, pushes metrics and releases every client.
func (e *Engine) Run(ctx context.Context) (pipeline.Result, error) {
	res, err := e.driver.Run(ctx)

	if gw := e.telemetry.Pushgateway; gw != "" {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
		if perr := e.driver.Metrics().Push(pctx, gw, e.telemetry.Job); perr != nil {
			logging.L().Warn("metrics push failed", "gateway", gw, "err", perr)
		}
		cancel()
	}

	return res, errors.Join(err, e.driver.Close())
}

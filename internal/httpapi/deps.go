package httpapi

import (
	"context"
	"log/slog"
	"sync/atomic"

	"rentwatch-engine/internal/events"
	"rentwatch-engine/internal/pipeline"
	"rentwatch-engine/internal/poll"
)

type Runner interface {
	RunOnce(ctx context.Context, trigger string) (pipeline.Result, error)
	Status() poll.Status
}

type Deps struct {
	Runner Runner
	Hub    *events.Hub
	Logger *slog.Logger

	CfgVal      *atomic.Value // stores config.Config
	UserCfgPath string

	// inbound throttle for /run
	RunRatePerMinute float64
	RunBurst         int
}

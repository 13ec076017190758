// Package poll is the single entry point both triggers use to start a pipeline run.
package poll

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"rentwatch-engine/internal/events"
	"rentwatch-engine/internal/pipeline"
)

type Status struct {
	LastRunID  string `json:"last_run_id"`
	LastRunAt  string `json:"last_run_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	LastResult string `json:"last_result"`
	LastNew    int    `json:"last_new"`
	Running    bool   `json:"running"`
}

type Orchestrator interface {
	Run(ctx context.Context) (pipeline.Result, error)
}

// Runner wraps an Orchestrator with run status and events.
type Runner struct {
	orch   Orchestrator
	hub    *events.Hub
	log    *slog.Logger
	status atomic.Value // Status
}

func NewRunner(o Orchestrator, hub *events.Hub, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	r := &Runner{orch: o, hub: hub, log: log}
	r.status.Store(Status{})
	return r
}

func (r *Runner) Status() Status {
	return r.status.Load().(Status)
}

// RunOnce runs the pipeline and records the outcome.
func (r *Runner) RunOnce(ctx context.Context, trigger string) (pipeline.Result, error) {
	st := r.Status()
	st.Running = true
	st.LastRunAt = time.Now().Format(time.RFC3339)
	r.status.Store(st)
	r.publish("", events.TypeRunStarted, map[string]string{"trigger": trigger})

	res, err := r.orch.Run(ctx)

	st = r.Status()
	st.Running = false
	st.LastRunID = res.RunID
	st.LastResult = string(res.Status)
	st.LastNew = res.New
	switch {
	case err != nil:
		st.LastError = err.Error()
		r.log.Error("run failed", "trigger", trigger, "run_id", res.RunID, "error", err)
	case res.SourceErr != nil:
		st.LastError = res.SourceErr.Error()
		r.log.Warn("run ended without data", "trigger", trigger, "run_id", res.RunID, "error", res.SourceErr)
	default:
		st.LastError = ""
		if res.Status != pipeline.StatusBusy {
			st.LastOkAt = time.Now().Format(time.RFC3339)
		}
		r.log.Info("run ok", "trigger", trigger, "run_id", res.RunID, "result", res.Message(), "new", res.New)
	}
	r.status.Store(st)

	if res.Status == pipeline.StatusProcessed {
		r.publish(res.RunID, events.TypeListingsNotified, map[string]int{"new": res.New})
	}
	r.publish(res.RunID, events.TypeRunFinished, st)
	return res, err
}

// Task adapts RunOnce for the scheduler.
func (r *Runner) Task(trigger string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.RunOnce(ctx, trigger)
		return err
	}
}

func (r *Runner) publish(runID, typ string, data any) {
	if r.hub != nil {
		r.hub.Publish(runID, typ, data)
	}
}

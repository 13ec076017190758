package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"rentwatch-engine/internal/notify"
	"rentwatch-engine/internal/pipeline"
)

// runTimeout bounds an on-demand run once it is detached from the request.
const runTimeout = 2 * time.Minute

type RunHandler struct {
	Runner Runner
}

// Run executes the pipeline synchronously and answers with its short outcome.
// The run does not stop if the client hangs up, so the notified set is always
// written once a message went out.
func (h RunHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), runTimeout)
	defer cancel()

	res, err := h.Runner.RunOnce(ctx, "http")
	switch {
	case errors.Is(err, notify.ErrDispatchFailed):
		WriteError(w, r, http.StatusBadGateway, "dispatch_failed", err.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, "run_failed", err.Error())
		return
	}

	status := http.StatusOK
	if res.Status == pipeline.StatusBusy {
		status = http.StatusConflict
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Run-ID", res.RunID)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(res.Message()))
}

func (h RunHandler) Status(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Runner.Status())
}

func Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
}

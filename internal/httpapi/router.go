package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func NewRouter(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(RequestID, Recover(log), AccessLog(log))

	r.Get("/health", Health)

	rh := RunHandler{Runner: d.Runner}
	throttle := NewClientLimiter(d.RunRatePerMinute/60, d.RunBurst)
	r.With(throttle.Middleware).Get("/run", rh.Run)
	r.With(throttle.Middleware).Post("/run", rh.Run)
	r.Get("/status", rh.Status)

	eh := EventsHandler{Hub: d.Hub}
	r.Get("/events", eh.ServeSSE)

	ch := ConfigHandler{CfgVal: d.CfgVal, UserCfgPath: d.UserCfgPath}
	r.Get("/config", ch.Get)
	r.Get("/config/validate", ch.Validate)

	sh := SecretsHandler{CfgVal: d.CfgVal}
	r.Post("/api/secrets/telegram", sh.SetTelegramToken)

	return r
}

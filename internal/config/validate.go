package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and what is wrong with it.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	// Query order matters (it drives notification order), so only
	// blanks and exact duplicates are dropped.
	seen := map[string]bool{}
	var queries []string
	for _, q := range out.Sources.Queries {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	out.Sources.Queries = queries

	out.Store.Driver = strings.ToLower(strings.TrimSpace(out.Store.Driver))
	if out.Store.Driver == "" {
		out.Store.Driver = "sqlite"
	}
	out.Telegram.ChatID = strings.TrimSpace(out.Telegram.ChatID)
	out.Telegram.APIBase = strings.TrimRight(strings.TrimSpace(out.Telegram.APIBase), "/")

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IntervalSeconds <= 0 {
		res.addErr("polling.interval_seconds must be > 0")
	} else if out.Polling.IntervalSeconds < 60 {
		res.addWarn("polling.interval_seconds is very low (%d) and may get the scraper blocked.", out.Polling.IntervalSeconds)
	}

	if len(out.Sources.Queries) == 0 {
		res.addErr("sources.queries must have at least 1 url")
	}
	for i, q := range out.Sources.Queries {
		u, err := url.Parse(q)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			res.addErr("sources.queries[%d] is not an absolute http(s) url: %q", i, q)
		}
	}
	if out.Sources.TimeoutSeconds < 0 {
		res.addErr("sources.timeout_seconds must be >= 0")
	}

	switch out.Store.Driver {
	case "sqlite":
		if strings.TrimSpace(out.Store.SQLitePath) == "" {
			res.addErr("store.sqlite_path is required when store.driver=sqlite")
		}
	case "postgres":
		if strings.TrimSpace(out.Store.PostgresDSN) == "" {
			res.addErr("store.postgres_dsn is required when store.driver=postgres")
		}
	default:
		res.addErr("store.driver must be sqlite or postgres, got %q", out.Store.Driver)
	}

	if out.HTTP.RunRatePerMinute <= 0 {
		res.addErr("http.run_rate_per_minute must be > 0")
	}
	if out.HTTP.RunBurst <= 0 {
		res.addErr("http.run_burst must be > 0")
	}

	// token is not checked here; it lives in env or keychain
	if out.Telegram.ChatID == "" {
		res.addWarn("telegram.chat_id is empty; notifications will only be logged.")
	}

	return out, res
}

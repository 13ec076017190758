package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultQueries are the 591 searches the engine watches out of the box:
// Taipei and New Taipei, 20k to 40k TWD, balcony, newest first.
var DefaultQueries = []string{
	"https://rent.591.com.tw/list?region=1&section=1,4,10,11,3&price=20000_30000,30000_40000&other=balcony_1,newPost&sort=posttime_desc",
	"https://rent.591.com.tw/list?region=1&section=5,1,7,2&price=20000_30000,30000_40000&other=balcony_1,newPost&sort=posttime_desc",
	"https://rent.591.com.tw/list?region=3&section=26,38,37,34,45&price=20000_30000,30000_40000&other=balcony_1,newPost&sort=posttime_desc",
}

type Config struct {
	App struct {
		Port     int    `yaml:"port" json:"port"`
		LogLevel string `yaml:"log_level" json:"log_level"`
		LogJSON  bool   `yaml:"log_json" json:"log_json"`
	} `yaml:"app" json:"app"`

	Polling struct {
		IntervalSeconds int `yaml:"interval_seconds" json:"interval_seconds"`
	} `yaml:"polling" json:"polling"`

	Sources struct {
		Queries        []string `yaml:"queries" json:"queries"`
		UserAgent      string   `yaml:"user_agent" json:"user_agent"`
		TimeoutSeconds int      `yaml:"timeout_seconds" json:"timeout_seconds"`
	} `yaml:"sources" json:"sources"`

	Telegram struct {
		APIBase        string `yaml:"api_base" json:"api_base"`
		ChatID         string `yaml:"chat_id" json:"chat_id"`
		KeyringAccount string `yaml:"keyring_account" json:"keyring_account"`
		// Token only ever comes from the environment or the keyring.
		Token string `yaml:"-" json:"-"`
	} `yaml:"telegram" json:"telegram"`

	Store struct {
		Driver      string `yaml:"driver" json:"driver"` // sqlite | postgres
		SQLitePath  string `yaml:"sqlite_path" json:"sqlite_path"`
		PostgresDSN string `yaml:"postgres_dsn" json:"postgres_dsn"`
	} `yaml:"store" json:"store"`

	HTTP struct {
		RunRatePerMinute float64 `yaml:"run_rate_per_minute" json:"run_rate_per_minute"`
		RunBurst         int     `yaml:"run_burst" json:"run_burst"`
	} `yaml:"http" json:"http"`
}

func Default() Config {
	var cfg Config
	cfg.App.Port = 38471
	cfg.App.LogLevel = "info"

	cfg.Polling.IntervalSeconds = 600

	cfg.Sources.Queries = append([]string(nil), DefaultQueries...)
	cfg.Sources.UserAgent = "Mozilla/5.0"
	cfg.Sources.TimeoutSeconds = 20

	cfg.Telegram.APIBase = "https://api.telegram.org"
	cfg.Telegram.KeyringAccount = "rentwatch:telegram"

	cfg.Store.Driver = "sqlite"
	cfg.Store.SQLitePath = "rentwatch.db"

	cfg.HTTP.RunRatePerMinute = 6
	cfg.HTTP.RunBurst = 2
	return cfg
}

// Load reads path on top of Default. Keys missing from the file keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Redacted is safe to hand to API clients.
func (c Config) Redacted() Config {
	out := c
	out.Sources.Queries = append([]string(nil), c.Sources.Queries...)
	if out.Store.PostgresDSN != "" {
		out.Store.PostgresDSN = "REDACTED"
	}
	out.Telegram.Token = ""
	return out
}

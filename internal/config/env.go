package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

const (
	EnvDataDir       = "RENTWATCH_DATA_DIR"
	EnvTelegramToken = "RENTWATCH_TELEGRAM_TOKEN"
	EnvTelegramChat  = "RENTWATCH_TELEGRAM_CHAT_ID"
	EnvPostgresDSN   = "RENTWATCH_POSTGRES_DSN"
	EnvLogLevel      = "RENTWATCH_LOG_LEVEL"
)

// LoadEnvFile loads a .env file into the process environment.
// A missing file is fine; variables already set are not overridden.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overlays environment variables on cfg.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvTelegramToken); ok {
		cfg.Telegram.Token = v
	}
	if v, ok := os.LookupEnv(EnvTelegramChat); ok {
		cfg.Telegram.ChatID = v
	}
	if v, ok := os.LookupEnv(EnvPostgresDSN); ok {
		cfg.Store.PostgresDSN = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.App.LogLevel = v
	}
}

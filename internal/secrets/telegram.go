package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"

	"rentwatch-engine/internal/config"
)

const (
	// KeyringService groups the engine's secrets in the OS keychain.
	KeyringService = "rentwatch"
)

var ErrTokenNotFound = errors.New("telegram bot token not found (set RENTWATCH_TELEGRAM_TOKEN or store it in the keychain)")

// TelegramToken prefers a token already on cfg (env), then the keychain.
func TelegramToken(cfg config.Config) (string, error) {
	if t := strings.TrimSpace(cfg.Telegram.Token); t != "" {
		return t, nil
	}
	account := strings.TrimSpace(cfg.Telegram.KeyringAccount)
	if account == "" {
		return "", ErrTokenNotFound
	}
	tok, err := keyring.Get(KeyringService, account)
	if err != nil || strings.TrimSpace(tok) == "" {
		return "", ErrTokenNotFound
	}
	return strings.TrimSpace(tok), nil
}

func SetTelegramToken(account, token string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, account, strings.TrimSpace(token))
}

func DeleteTelegramToken(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	return keyring.Delete(KeyringService, account)
}

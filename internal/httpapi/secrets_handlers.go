package httpapi

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"rentwatch-engine/internal/config"
	"rentwatch-engine/internal/secrets"
)

type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type setTokenReq struct {
	Token string `json:"token"`
}

// SetTelegramToken stores the bot token in the OS keychain.
// The running engine picks it up on next start.
func (h SecretsHandler) SetTelegramToken(w http.ResponseWriter, r *http.Request) {
	var req setTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	cfg := h.CfgVal.Load().(config.Config)
	if err := secrets.SetTelegramToken(cfg.Telegram.KeyringAccount, req.Token); err != nil {
		WriteError(w, r, http.StatusBadRequest, "store_failed", "failed to store token: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/secrets"
)

// SecretsHandler writes credentials to the OS keychain and into the live
// config so the next run picks them up without a restart.
type SecretsHandler struct {
	CfgVal *atomic.Value // stores config.Config
}

type secretReq struct {
	Value string `json:"value"`
}

func (h SecretsHandler) decode(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req secretReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid json")
		return "", false
	}
	v := strings.TrimSpace(req.Value)
	if v == "" {
		WriteError(w, r, http.StatusBadRequest, "empty", "value required")
		return "", false
	}
	return v, true
}

func (h SecretsHandler) SetIMAPPassword(w http.ResponseWriter, r *http.Request) {
	pw, ok := h.decode(w, r)
	if !ok {
		return
	}
	cfg := loadCfg(h.CfgVal)
	if cfg.Email.Username == "" {
		WriteError(w, r, http.StatusBadRequest, "no_username", "set email.username first")
		return
	}
	if err := secrets.Set(secrets.IMAPAccount(cfg.Email.Username, cfg.Email.IMAPHost), pw); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring", "failed to store password: "+err.Error())
		return
	}
	h.update(func(c *config.Config) { c.Email.AppPassword = pw })
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) SetTelegramToken(w http.ResponseWriter, r *http.Request) {
	tok, ok := h.decode(w, r)
	if !ok {
		return
	}
	if err := secrets.Set(secrets.TelegramAccount, tok); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring", "failed to store token: "+err.Error())
		return
	}
	h.update(func(c *config.Config) { c.Telegram.BotToken = tok })
	w.WriteHeader(http.StatusNoContent)
}

func (h SecretsHandler) update(fn func(c *config.Config)) {
	if h.CfgVal == nil {
		return
	}
	cfg := loadCfg(h.CfgVal)
	fn(&cfg)
	h.CfgVal.Store(cfg)
}

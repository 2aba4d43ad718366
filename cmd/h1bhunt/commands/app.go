package commands

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/secrets"
	"h1bhunt-engine/internal/store"
)

const dbName = "h1bhunt.db"

// loadConfig bootstraps <data-dir>/config.yml on first use and returns the
// validated config with keychain secrets filled in.
func loadConfig() (config.Config, string, error) {
	path, err := config.EnsureUserConfig(global.dataDir)
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config bootstrap: %w", err)
	}
	cfg, err := readConfig(path)
	return cfg, path, err
}

func readConfig(path string) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("config load (%s): %w", path, err)
	}
	if err := config.OverlayCompanies(&cfg, filepath.Join(filepath.Dir(path), "companies.yml")); err != nil {
		return cfg, err
	}

	cfg, vr := config.NormalizeAndValidate(cfg)
	for _, w := range vr.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !vr.OK() {
		return cfg, errors.New("config validation failed:\n- " + strings.Join(vr.Errors, "\n- "))
	}
	fillSecrets(&cfg)
	return cfg, nil
}

// fillSecrets reads credentials for enabled integrations from the keychain.
// Values already set from the environment win.
func fillSecrets(cfg *config.Config) {
	if cfg.Email.Enabled && cfg.Email.AppPassword == "" {
		acct := secrets.IMAPAccount(cfg.Email.Username, cfg.Email.IMAPHost)
		pw, err := secrets.Get(acct)
		switch {
		case err == nil:
			cfg.Email.AppPassword = pw
		case errors.Is(err, secrets.ErrNotFound):
			log.Printf("[secrets] no IMAP password for %s; run `h1bhunt secrets set imap`", cfg.Email.Username)
		default:
			log.Printf("[secrets] %v", err)
		}
	}
	if cfg.Telegram.Enabled && cfg.Telegram.BotToken == "" {
		tok, err := secrets.Get(secrets.TelegramAccount)
		switch {
		case err == nil:
			cfg.Telegram.BotToken = tok
		case errors.Is(err, secrets.ErrNotFound):
			log.Printf("[secrets] no Telegram token; run `h1bhunt secrets set telegram` or set TELEGRAM_BOT_TOKEN")
		default:
			log.Printf("[secrets] %v", err)
		}
	}
}

func openStore() (*store.DB, error) {
	path := filepath.Join(global.dataDir, dbName)
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

func outputDir(cfg config.Config) string {
	if global.outputDir != "" {
		return global.outputDir
	}
	if cfg.App.OutputDir != "" {
		return cfg.App.OutputDir
	}
	return "."
}

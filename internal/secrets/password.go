// Package secrets keeps credentials in the OS keychain so they never land in
// config.yml.
package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the app's entries in the keychain.
const KeyringService = "h1bhunt"

// TelegramAccount is the keychain account holding the bot token.
const TelegramAccount = "h1bhunt:telegram:bot"

var ErrNotFound = errors.New("secret not found in keychain")

// IMAPAccount names the keychain entry for one mailbox login.
func IMAPAccount(username, host string) string {
	return fmt.Sprintf("h1bhunt:imap:%s@%s", strings.TrimSpace(username), strings.TrimSpace(host))
}

func Get(account string) (string, error) {
	if strings.TrimSpace(account) == "" {
		return "", errors.New("keyring account name is empty")
	}
	v, err := keyring.Get(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("keyring get %s: %w", account, err)
	}
	if strings.TrimSpace(v) == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func Set(account, value string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret is empty")
	}
	return keyring.Set(KeyringService, account, value)
}

// Delete is a no-op for entries that do not exist.
func Delete(account string) error {
	if strings.TrimSpace(account) == "" {
		return errors.New("keyring account name is empty")
	}
	err := keyring.Delete(KeyringService, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// Has reports whether a non-empty secret is stored.
func Has(account string) bool {
	_, err := Get(account)
	return err == nil
}

package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"h1bhunt-engine/internal/config"
	"h1bhunt-engine/internal/secrets"

	"github.com/spf13/cobra"
)

var secretValue string

func init() {
	secretsSetCmd.Flags().StringVar(&secretValue, "value", "", "secret value (default: first line of stdin)")
	secretsCmd.AddCommand(secretsSetCmd, secretsDeleteCmd, secretsStatusCmd)
	rootCmd.AddCommand(secretsCmd)
}

var secretsCmd = &cobra.Command{
	Use:   "secrets",
	Short: "Manage the IMAP password and Telegram bot token in the OS keychain.",
}

var secretsSetCmd = &cobra.Command{
	Use:       "set imap|telegram",
	Short:     "Store a secret in the keychain.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"imap", "telegram"},
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := secretAccount(args[0])
		if err != nil {
			return err
		}
		v := secretValue
		if v == "" {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("no value: pass --value or pipe it on stdin")
			}
			v = strings.TrimSpace(line)
		}
		if err := secrets.Set(acct, v); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Stored %s secret.\n", args[0])
		return nil
	},
}

var secretsDeleteCmd = &cobra.Command{
	Use:       "delete imap|telegram",
	Short:     "Remove a secret from the keychain.",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"imap", "telegram"},
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := secretAccount(args[0])
		if err != nil {
			return err
		}
		if err := secrets.Delete(acct); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s secret.\n", args[0])
		return nil
	},
}

var secretsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which secrets are stored.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, kind := range []string{"imap", "telegram"} {
			acct, err := secretAccount(kind)
			if err != nil {
				fmt.Fprintf(out, "%-9s %v\n", kind, err)
				continue
			}
			state := "missing"
			if secrets.Has(acct) {
				state = "stored"
			}
			fmt.Fprintf(out, "%-9s %s\n", kind, state)
		}
		return nil
	},
}

// secretAccount maps a secret kind to its keychain account. IMAP entries are
// keyed by the configured mailbox login.
func secretAccount(kind string) (string, error) {
	switch kind {
	case "telegram":
		return secrets.TelegramAccount, nil
	case "imap":
		path, err := config.EnsureUserConfig(global.dataDir)
		if err != nil {
			return "", err
		}
		cfg, err := config.Load(path)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(cfg.Email.Username) == "" {
			return "", errors.New("email.username is not set in config.yml")
		}
		return secrets.IMAPAccount(cfg.Email.Username, cfg.Email.IMAPHost), nil
	}
	return "", fmt.Errorf("unknown secret %q", kind)
}

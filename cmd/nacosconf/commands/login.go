package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"

	"github.com/systmms/nacosconf/pkg/nacosconfig"
)

func NewLoginCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Store a nacos password in the system keyring",
		Long: `Store the nacos password for a username in the system keyring.

Commands fall back to the keyring when NACOS_PASSWORD is not set, so after a
login the password no longer has to live in the environment. The username
comes from the argument or from NACOS_USERNAME; the password is read from
stdin and may be piped or typed.

Examples:
  nacosconf login nacos
  echo "$PASSWORD" | nacosconf login nacos`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := resolveUsername(args)
			if err != nil {
				return err
			}

			fmt.Fprint(os.Stderr, "Password: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			line, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return fmt.Errorf("failed to read password: %w", err)
			}
			fmt.Fprintln(os.Stderr)

			password := strings.TrimRight(line, "\r\n")
			if password == "" {
				return errors.New("password is empty")
			}

			if err := keyring.Set(keyringService, username, password); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}

			cfg.Logger.Info("Stored credential for %s", username)
			return nil
		},
	}

	return cmd
}

// resolveUsername picks the keyring account name from the argument or the
// environment.
func resolveUsername(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	if username := os.Getenv(nacosconfig.EnvUsername); username != "" {
		return username, nil
	}
	return "", &nacosconfig.EnvVarError{Name: nacosconfig.EnvUsername}
}

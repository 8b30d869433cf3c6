package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
)

func NewLogoutCommand(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout [username]",
		Short: "Remove a stored nacos password from the system keyring",
		Long: `Remove the password stored for a username by 'nacosconf login'.

The username comes from the argument or from NACOS_USERNAME.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := resolveUsername(args)
			if err != nil {
				return err
			}

			if err := keyring.Delete(keyringService, username); err != nil {
				if errors.Is(err, keyring.ErrNotFound) {
					cfg.Logger.Warn("No stored credential for %s", username)
					return nil
				}
				return fmt.Errorf("failed to remove credential: %w", err)
			}

			cfg.Logger.Info("Removed credential for %s", username)
			return nil
		},
	}

	return cmd
}

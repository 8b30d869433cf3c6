package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/nacosconf/pkg/nacosconfig"
)

func NewDecryptCommand(cfg *Config) *cobra.Command {
	var kmsRegion string

	cmd := &cobra.Command{
		Use:   "decrypt [credential]",
		Short: "Decrypt an ENC(...) credential",
		Long: `Decrypt a KMS-encrypted ENC(...) credential and print the plaintext.

The credential is taken from the argument, or from NACOS_PASSWORD when no
argument is given. A value without the ENC(...) marker is printed unchanged.
Decryption uses the key named by KMS_KEY_ID and the ambient AWS credential
chain.

The plaintext goes to stdout; be deliberate about where that ends up.

Examples:
  nacosconf decrypt 'ENC(AQICAHh...)'
  nacosconf decrypt          # decrypts $NACOS_PASSWORD`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var credential string
			if len(args) == 1 {
				credential = args[0]
			} else {
				val, ok := os.LookupEnv(nacosconfig.EnvPassword)
				if !ok {
					return &nacosconfig.EnvVarError{Name: nacosconfig.EnvPassword}
				}
				credential = val
			}

			plaintext, err := nacosconfig.DecryptCredential(cmd.Context(), credential,
				loaderOptions(cfg, kmsRegion)...)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), plaintext)
			return nil
		},
	}

	cmd.Flags().StringVar(&kmsRegion, "kms-region", "", "AWS region for KMS decryption")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/systmms/nacosconf/cmd/nacosconf/commands"
	"github.com/systmms/nacosconf/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Global flags
	var (
		noColor bool
		debug   bool
	)

	cfg := &commands.Config{}

	rootCmd := &cobra.Command{
		Use:   "nacosconf",
		Short: "Fetch verified configuration from nacos",
		Long: `nacosconf retrieves configuration documents from a nacos server, decrypting
the KMS-protected connection credential and verifying document integrity
before anything is printed.

Connection settings come from the NACOS_* environment variables; an encrypted
password (ENC(...)) additionally needs KMS_KEY_ID and ambient AWS credentials.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg.Logger = logging.New(debug, noColor)
			cfg.Debug = debug
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(
		commands.NewFetchCommand(cfg),
		commands.NewCheckCommand(cfg),
		commands.NewDecryptCommand(cfg),
		commands.NewLoginCommand(cfg),
		commands.NewLogoutCommand(cfg),
	)

	return rootCmd.Execute()
}

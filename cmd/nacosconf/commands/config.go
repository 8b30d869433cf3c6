// Package commands implements the nacosconf CLI subcommands.
package commands

import (
	"github.com/systmms/nacosconf/internal/logging"
)

// Config carries state shared by all commands, populated by the root command
// before any subcommand runs.
type Config struct {
	// Logger writes human-readable progress to stderr
	Logger *logging.Logger

	// Debug mirrors the --debug flag; it also turns on the library's
	// structured debug logging
	Debug bool
}

package commands

import (
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/systmms/nacosconf/pkg/nacosconfig"
)

// keyringService is the service name credentials are stored under in the
// system keyring.
const keyringService = "nacosconf"

// resolveSettings reads the connection settings from the environment in the
// same order the library does. The password may also come from the system
// keyring (stored via `nacosconf login`) when NACOS_PASSWORD is not set; only
// when neither source has it does the command fail.
func resolveSettings(cfg *Config) (nacosconfig.Settings, error) {
	var s nacosconfig.Settings

	for _, v := range []struct {
		name string
		dst  *string
	}{
		{nacosconfig.EnvServerAddr, &s.ServerAddr},
		{nacosconfig.EnvGroup, &s.Group},
		{nacosconfig.EnvNamespace, &s.Namespace},
		{nacosconfig.EnvUsername, &s.Username},
	} {
		val, ok := os.LookupEnv(v.name)
		if !ok {
			return nacosconfig.Settings{}, &nacosconfig.EnvVarError{Name: v.name}
		}
		*v.dst = val
	}

	if pw, ok := os.LookupEnv(nacosconfig.EnvPassword); ok {
		s.Password = pw
	} else {
		pw, err := keyring.Get(keyringService, s.Username)
		if err != nil {
			return nacosconfig.Settings{}, &nacosconfig.EnvVarError{Name: nacosconfig.EnvPassword}
		}
		s.Password = pw
		cfg.Logger.Debug("using stored credential for %s", s.Username)
	}

	dataID, ok := os.LookupEnv(nacosconfig.EnvDataID)
	if !ok {
		return nacosconfig.Settings{}, &nacosconfig.EnvVarError{Name: nacosconfig.EnvDataID}
	}
	s.DataID = dataID

	s.KMSKeyID = os.Getenv(nacosconfig.EnvKMSKeyID)
	return s, nil
}

// loaderOptions assembles the loader options shared by fetch and check.
func loaderOptions(cfg *Config, kmsRegion string) []nacosconfig.Option {
	var opts []nacosconfig.Option
	if kmsRegion != "" {
		opts = append(opts, nacosconfig.WithKMSRegion(kmsRegion))
	}
	if cfg.Debug {
		opts = append(opts, nacosconfig.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))))
	}
	return opts
}

package nacosconfig

import (
	"os"
)

// Environment variables read by SettingsFromEnv.
const (
	EnvServerAddr = "NACOS_ADDR"
	EnvGroup      = "NACOS_GROUP"
	EnvNamespace  = "NACOS_NAMESPACE"
	EnvUsername   = "NACOS_USERNAME"
	EnvPassword   = "NACOS_PASSWORD"
	EnvDataID     = "NACOS_DATA_ID"
	EnvKMSKeyID   = "KMS_KEY_ID"
)

// Settings holds the connection and document coordinates for one retrieval.
// The struct is a plain value: callers may populate it directly instead of
// going through the environment.
type Settings struct {
	// ServerAddr is the nacos server address. A leading http:// or https://
	// scheme is tolerated and stripped before connecting.
	ServerAddr string

	// Group is the configuration group the document lives in
	Group string

	// Namespace is the nacos namespace (tenant)
	Namespace string

	// Username authenticates against the nacos server
	Username string

	// Password authenticates against the nacos server. A value wrapped in
	// ENC(...) is treated as KMS-encrypted ciphertext and decrypted before use.
	Password string

	// DataID identifies the document to fetch
	DataID string

	// KMSKeyID names the KMS key used to decrypt an ENC(...) password.
	// Only consulted when the password carries the marker.
	KMSKeyID string
}

// SettingsFromEnv builds Settings from the process environment. Variables are
// read in a fixed order and the first one that is unset aborts with an
// *EnvVarError naming it; a variable that is set but empty is accepted.
// KMS_KEY_ID is optional here and checked later, only when the password turns
// out to be encrypted.
func SettingsFromEnv() (Settings, error) {
	var s Settings

	for _, v := range []struct {
		name string
		dst  *string
	}{
		{EnvServerAddr, &s.ServerAddr},
		{EnvGroup, &s.Group},
		{EnvNamespace, &s.Namespace},
		{EnvUsername, &s.Username},
		{EnvPassword, &s.Password},
		{EnvDataID, &s.DataID},
	} {
		val, ok := os.LookupEnv(v.name)
		if !ok {
			return Settings{}, &EnvVarError{Name: v.name}
		}
		*v.dst = val
	}

	s.KMSKeyID = os.Getenv(EnvKMSKeyID)
	return s, nil
}

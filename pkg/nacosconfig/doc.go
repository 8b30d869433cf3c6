// Package nacosconfig retrieves typed configuration from a nacos server,
// transparently decrypting a KMS-encrypted connection password on the way.
//
// The pipeline is a fixed sequence with no caching, no retries, and no
// watching:
//
//  1. Read settings (from the environment or a caller-built Settings value)
//  2. Decrypt the password if it is wrapped in ENC(...), via AWS KMS
//  3. Connect to the server and fetch the document by dataId and group
//  4. Validate the document identity and content checksum
//  5. Decode the content into the caller's type
//
// The first failing step aborts the call, and every failure is exactly one of
// the typed errors in this package (EnvVarError, ConnectionError, ConfigError,
// KMSError, ParseError, Base64DecodeError, UTF8Error); branch on them with
// errors.As.
//
// # Usage
//
// Services that keep their coordinates in NACOS_* environment variables load
// in one call:
//
//	type AppConfig struct {
//	    ListenAddr string `json:"listen_addr"`
//	    DB         struct {
//	        DSN string `json:"dsn"`
//	    } `json:"db"`
//	}
//
//	cfg, err := nacosconfig.FromEnv[AppConfig](ctx)
//
// Callers with settings from elsewhere build a Loader directly:
//
//	loader := nacosconfig.NewLoader(settings, nacosconfig.WithKMSRegion("eu-central-1"))
//	cfg, err := nacosconfig.Load[AppConfig](ctx, loader)
//
// # Collaborators
//
// The two network collaborators sit behind narrow interfaces: ConfigService
// (document fetch) and Decrypter (KMS decrypt). Tests inject deterministic
// fakes with WithConfigService and WithDecrypter; nothing in the pipeline
// requires a live server or AWS account.
//
// # Security Considerations
//
// Passwords and decrypted plaintext never appear in errors or logs. The one
// deliberate exception to content hygiene is ParseError, which embeds the raw
// document body so decode diagnostics remain actionable; see the ParseError
// documentation.
//
// There is no internal timeout: pass a context with a deadline to bound a
// call.
package nacosconfig

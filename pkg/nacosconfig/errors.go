package nacosconfig

import (
	"fmt"
)

// EnvVarError reports a required environment variable that is not set.
type EnvVarError struct {
	// Name is the environment variable that was missing
	Name string
}

// Error implements the error interface.
func (e *EnvVarError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.Name)
}

// ConnectionError reports a failure to construct the connection to the
// configuration server.
type ConnectionError struct {
	// Addr is the configured server address
	Addr string

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to nacos server %q: %v", e.Addr, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ConfigError reports a failed configuration fetch or a document that did not
// pass integrity validation.
type ConfigError struct {
	// DataID is the requested document identifier
	DataID string

	// Group is the requested group
	Group string

	// Field names the document field that failed validation
	// ("namespace", "dataId", "group", "checksum"); empty for fetch failures
	Field string

	// Message describes the failure
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("nacos config error (dataId %q, group %q)", e.DataID, e.Group)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// KMSError reports a key-management failure while decrypting the connection
// credential: loading the AWS configuration, the Decrypt call itself, or a
// decrypt response that carried no plaintext.
type KMSError struct {
	// Message describes the failure
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *KMSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("kms error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("kms error: %s", e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *KMSError) Unwrap() error {
	return e.Cause
}

// ParseError reports a document body that could not be decoded into the
// caller's type, or that failed schema validation.
//
// The raw document content is included in the message so the decoder's
// positional diagnostics stay actionable. This is a deliberate trade-off:
// fetched configuration bodies are not treated as secret material by this
// package, unlike connection credentials and decrypted plaintext, which never
// appear in any error.
type ParseError struct {
	// Content is the raw document body that failed to decode
	Content string

	// Cause is the underlying decode error
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse config: %s: %v", e.Content, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Base64DecodeError reports an ENC(...) payload that is not valid standard
// base64.
type Base64DecodeError struct {
	// Payload is the offending payload with the marker stripped
	Payload string

	// Cause is the underlying decode error
	Cause error
}

// Error implements the error interface.
func (e *Base64DecodeError) Error() string {
	return fmt.Sprintf("failed to decode base64 payload %q: %v", e.Payload, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *Base64DecodeError) Unwrap() error {
	return e.Cause
}

// UTF8Error reports decrypted plaintext that is not valid UTF-8. The offending
// bytes are never included in the message.
type UTF8Error struct{}

// Error implements the error interface.
func (e *UTF8Error) Error() string {
	return "decrypted plaintext is not valid UTF-8"
}

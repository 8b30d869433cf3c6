package nacosconfig

import (
	"context"
	"encoding/base64"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/systmms/nacosconf/internal/awskms"
)

// CipherPrefix marks a password value as KMS-encrypted ciphertext. The
// payload between the marker and the trailing closing parenthesis is
// standard base64.
const CipherPrefix = "ENC("

// IsEncrypted reports whether a credential value carries the cipher marker.
// Only a leading marker counts; ENC( appearing mid-string is plaintext.
func IsEncrypted(credential string) bool {
	return strings.HasPrefix(credential, CipherPrefix)
}

// Decrypter decrypts KMS ciphertext. It is the narrow seam between the
// loader and the key-management service: production code uses the AWS KMS
// client in internal/awskms, tests substitute a deterministic fake via
// WithDecrypter.
type Decrypter interface {
	// Decrypt decrypts ciphertext under the named key and returns the
	// plaintext bytes.
	Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error)
}

// decryptPassword returns the connection password, calling out to the
// key-management service only when the configured value carries the cipher
// marker. A plain value passes through untouched with no collaborator
// involved. All local checks (key ID presence, base64 decode) run before any
// client is constructed.
func (l *Loader) decryptPassword(ctx context.Context) (string, error) {
	password := l.settings.Password
	if !IsEncrypted(password) {
		return password, nil
	}

	if l.settings.KMSKeyID == "" {
		return "", &EnvVarError{Name: EnvKMSKeyID}
	}

	// Strip the marker and any trailing closing parentheses. The payload is
	// accepted even if the closing parenthesis is missing.
	payload := strings.TrimRight(strings.TrimPrefix(password, CipherPrefix), ")")

	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &Base64DecodeError{Payload: payload, Cause: err}
	}

	dec := l.decrypter
	if dec == nil {
		kd, err := awskms.New(ctx, awskms.Config{Region: l.kmsRegion})
		if err != nil {
			return "", &KMSError{Message: "failed to load AWS configuration", Cause: err}
		}
		dec = kd
	}

	plaintext, err := dec.Decrypt(ctx, l.settings.KMSKeyID, blob)
	if err != nil {
		return "", &KMSError{Message: "failed to decrypt credential", Cause: err}
	}
	if !utf8.Valid(plaintext) {
		return "", &UTF8Error{}
	}

	l.log.DebugContext(ctx, "decrypted connection credential", "keyId", l.settings.KMSKeyID)
	return string(plaintext), nil
}

// DecryptCredential decrypts a single ENC(...)-wrapped value using the key
// named by the KMS_KEY_ID environment variable and the ambient AWS credential
// chain. A value without the marker is returned unchanged. Options may
// override the region or inject a Decrypter.
func DecryptCredential(ctx context.Context, credential string, opts ...Option) (string, error) {
	l := NewLoader(Settings{
		Password: credential,
		KMSKeyID: os.Getenv(EnvKMSKeyID),
	}, opts...)
	return l.decryptPassword(ctx)
}

package secure

import (
	"sync"

	"github.com/awnumar/memguard"
)

// Credential holds a connection password in a memguard enclave so the
// plaintext only exists in regular memory while a login request is being
// built.
//
// Note: memguard.Enclave has no direct destroy method. Destroy here drops the
// reference and marks the credential unusable; the encrypted data is safe to
// leave for the garbage collector. For full cleanup at process exit, call
// memguard.Purge in main.
type Credential struct {
	enclave *memguard.Enclave
	mu      sync.RWMutex
	// destroyed allows idempotent Destroy calls and prevents use after
	// destruction
	destroyed bool
}

// NewCredential copies the secret into a protected memory region. memguard
// wipes the input slice, so callers must not reuse it afterwards.
func NewCredential(secret []byte) *Credential {
	// The enclave encrypts the data with XSalsa20Poly1305, attempts to mlock
	// the backing memory, and places guard pages around it.
	return &Credential{
		enclave: memguard.NewEnclave(secret),
	}
}

// Open decrypts the credential into a locked buffer. The caller MUST call
// Destroy on the returned buffer as soon as the plaintext has been used, to
// wipe it from memory.
func (c *Credential) Open() (*memguard.LockedBuffer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.destroyed {
		// A destroyed credential opens as empty rather than panicking
		return memguard.NewBufferFromBytes([]byte{}), nil
	}

	return c.enclave.Open()
}

// Destroy marks the credential as destroyed and prevents further use. It is
// idempotent; after Destroy, Open returns an empty buffer.
func (c *Credential) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}

	c.enclave = nil
	c.destroyed = true
}

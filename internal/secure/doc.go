// Package secure provides memory-safe handling of the nacos connection
// credential.
//
// This package wraps the memguard library so the password sits encrypted at
// rest in memory between the moment it is configured (or decrypted via KMS)
// and the moment it is written into a login request. It ensures the
// credential is:
//
//   - Encrypted at rest in memory (XSalsa20Poly1305)
//   - Protected from swapping via mlock
//   - Securely wiped when no longer needed
//   - Protected from buffer overflow via guard pages
//
// # Usage
//
//	cred := secure.NewCredential([]byte(password))
//	defer cred.Destroy()
//
//	// When the plaintext is needed, open it transiently:
//	locked, err := cred.Open()
//	if err != nil {
//	    // handle error
//	}
//	defer locked.Destroy()
//	form.Set("password", string(locked.Bytes()))
//
// # Platform Behavior
//
// Memory locking behavior varies by platform:
//
//   - Linux: Requires RLIMIT_MEMLOCK to be set appropriately
//   - macOS: Works out of the box
//   - Windows: Uses VirtualLock
//
// If mlock is unavailable or fails, memguard degrades to standard Go memory
// rather than failing.
//
// # Security Guarantees
//
// This package provides defense-in-depth against memory-based attacks: core
// dumps and swap will not contain the plaintext credential, and memory is
// zeroed on destruction. It does NOT protect against attackers with root
// access to the running process or hardware-level attacks.
package secure

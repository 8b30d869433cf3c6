package secure

import (
	"bytes"
	"testing"
)

func TestNewCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "creates enclave from password bytes",
			data: []byte("nacos-login-password"),
		},
		{
			name: "handles empty password",
			data: []byte{},
		},
		{
			name: "handles binary data",
			data: []byte{0x00, 0xFF, 0x10, 0x20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cred := NewCredential(tt.data)
			if cred == nil {
				t.Fatal("NewCredential() returned nil")
			}
			cred.Destroy()
		})
	}
}

func TestCredential_Open(t *testing.T) {
	t.Parallel()

	// memguard wipes the source slice, keep a copy for comparison
	password := []byte("super-secret-password")
	expected := []byte("super-secret-password")

	cred := NewCredential(password)
	defer cred.Destroy()

	locked, err := cred.Open()
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer locked.Destroy()

	if !bytes.Equal(locked.Bytes(), expected) {
		t.Errorf("Open() returned %v, want %v", locked.Bytes(), expected)
	}
}

func TestCredential_MultipleOpens(t *testing.T) {
	t.Parallel()

	password := []byte("reusable-password")
	expected := []byte("reusable-password")

	cred := NewCredential(password)
	defer cred.Destroy()

	// Each login request opens the credential again
	for i := 0; i < 3; i++ {
		locked, err := cred.Open()
		if err != nil {
			t.Fatalf("Open() iteration %d error = %v", i, err)
		}
		if !bytes.Equal(locked.Bytes(), expected) {
			t.Errorf("Open() iteration %d: got different data", i)
		}
		locked.Destroy()
	}
}

func TestCredential_Destroy(t *testing.T) {
	t.Parallel()

	cred := NewCredential([]byte("to-destroy"))

	cred.Destroy()

	// Double destroy must be idempotent
	cred.Destroy()

	// After destroy, Open returns an empty buffer instead of panicking
	locked, err := cred.Open()
	if err != nil {
		t.Fatalf("Open() after Destroy error = %v", err)
	}
	defer locked.Destroy()

	if len(locked.Bytes()) != 0 {
		t.Errorf("Open() after Destroy returned %d bytes, want 0", len(locked.Bytes()))
	}
}

func TestCredential_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	password := []byte("concurrent-password")
	expected := []byte("concurrent-password")

	cred := NewCredential(password)
	defer cred.Destroy()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- true }()

			locked, err := cred.Open()
			if err != nil {
				t.Errorf("Open() error = %v", err)
				return
			}
			defer locked.Destroy()

			if !bytes.Equal(locked.Bytes(), expected) {
				t.Error("data mismatch in concurrent access")
			}
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

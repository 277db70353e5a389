package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Key is the process-wide envelope key.
//
// It is loaded once at startup and never rotated while the process runs. The
// material is copied on construction so the caller can zero its own buffer.
type Key struct {
	material []byte
}

// NewKey creates a Key from raw bytes.
//
// Returns ErrInvalidKeySize if raw is not exactly KeySize bytes.
func NewKey(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(raw))
	}
	material := make([]byte, KeySize)
	copy(material, raw)
	return &Key{material: material}, nil
}

// ParseKey decodes a standard base64 key as found in ENVELOPE_KEY.
//
// Returns:
//   - ErrKeyNotSet if encoded is empty
//   - ErrInvalidKeyBase64 if encoded is not standard base64
//   - ErrInvalidKeySize if the decoded key is not exactly KeySize bytes
func ParseKey(encoded string) (*Key, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrKeyNotSet
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyBase64, err)
	}
	defer Zero(raw)

	return NewKey(raw)
}

// Bytes returns the key material. The slice must not be modified.
func (k *Key) Bytes() []byte {
	return k.material
}

// String returns the standard base64 form of the key, the inverse of ParseKey.
func (k *Key) String() string {
	return base64.StdEncoding.EncodeToString(k.material)
}

// Zero clears the key material. The key is unusable afterwards.
func (k *Key) Zero() {
	Zero(k.material)
}

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

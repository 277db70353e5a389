// Package domain defines the envelope wire format, key material and value model.
package domain

const (
	// BlockSize is the AES block size in bytes. Ciphertext length is always a positive multiple of it.
	BlockSize = 16

	// KeySize is the required envelope key length in bytes (AES-128).
	KeySize = 16

	// IVSize is the CBC initialization vector length in bytes.
	IVSize = 16

	// Delimiter separates the IV, length and ciphertext components of an envelope.
	// It is outside the base64 alphabet and never appears in a decimal number.
	Delimiter = "$"
)

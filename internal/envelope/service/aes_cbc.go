package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// AESCBCCipher implements BlockCipher using AES-128 in cipher block chaining mode
// with PKCS#7 padding.
//
// This mode gives confidentiality only. There is no authentication tag, so a
// modified ciphertext is detected only when it breaks the padding or the
// declared length. The backend service expects exactly this construction.
//
// Security properties:
//   - 128-bit key
//   - 16-byte IV drawn from the configured reader for every encryption
//   - IVs must never repeat under one key; the default reader is crypto/rand
//
// Thread safety:
//
//	The cipher holds only the expanded key schedule, which is read-only. It is
//	safe for concurrent use as long as the IV reader is (crypto/rand.Reader is).
type AESCBCCipher struct {
	block  cipher.Block
	random io.Reader
}

// NewAESCBC creates an AES-128-CBC cipher drawing IVs from crypto/rand.
//
// Returns ErrInvalidKeySize if key is not exactly 16 bytes.
func NewAESCBC(key []byte) (*AESCBCCipher, error) {
	return NewAESCBCWithIVSource(key, rand.Reader)
}

// NewAESCBCWithIVSource creates an AES-128-CBC cipher reading IVs from random.
//
// Production code uses NewAESCBC. A fixed reader makes the output
// deterministic, which is only useful for pinning golden values in tests.
func NewAESCBCWithIVSource(key []byte, random io.Reader) (*AESCBCCipher, error) {
	if len(key) != envelopeDomain.KeySize {
		return nil, fmt.Errorf(
			"%w: must be %d bytes, got %d",
			envelopeDomain.ErrInvalidKeySize,
			envelopeDomain.KeySize,
			len(key),
		)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	return &AESCBCCipher{block: block, random: random}, nil
}

// Encrypt pads plaintext with PKCS#7 and encrypts it under a fresh IV.
//
// The returned ciphertext is always a positive multiple of the block size and
// strictly longer than plaintext.
func (a *AESCBCCipher) Encrypt(plaintext []byte) (ciphertext, iv []byte, err error) {
	iv = make([]byte, envelopeDomain.IVSize)
	if _, err := io.ReadFull(a.random, iv); err != nil {
		return nil, nil, fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := PKCS7Pad(plaintext, envelopeDomain.BlockSize)
	defer envelopeDomain.Zero(padded)

	ciphertext = make([]byte, len(padded))
	cipher.NewCBCEncrypter(a.block, iv).CryptBlocks(ciphertext, padded)

	return ciphertext, iv, nil
}

// Decrypt decrypts ciphertext with iv and strips the PKCS#7 padding.
//
// Returns ErrDecryptionFailed when the inputs cannot go through the cipher at
// all (wrong IV size, empty or unaligned ciphertext) and ErrInvalidPadding when
// the decrypted trailer is not valid padding, which is the usual outcome of a
// wrong key or a modified ciphertext.
func (a *AESCBCCipher) Decrypt(ciphertext, iv []byte) ([]byte, error) {
	if len(iv) != envelopeDomain.IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d",
			envelopeDomain.ErrDecryptionFailed, envelopeDomain.IVSize, len(iv))
	}
	if len(ciphertext) == 0 || len(ciphertext)%envelopeDomain.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext of %d bytes is not block aligned",
			envelopeDomain.ErrDecryptionFailed, len(ciphertext))
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(a.block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := PKCS7Unpad(padded, envelopeDomain.BlockSize)
	if err != nil {
		envelopeDomain.Zero(padded)
		return nil, err
	}
	return plaintext, nil
}

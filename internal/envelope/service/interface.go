// Package service provides the block cipher, padding and key loading used by envelopes.
package service

import (
	"context"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// BlockCipher encrypts and decrypts padded plaintext in a randomized block mode.
type BlockCipher interface {
	// Encrypt pads plaintext, draws a fresh IV and returns ciphertext and IV.
	Encrypt(plaintext []byte) (ciphertext, iv []byte, err error)

	// Decrypt decrypts ciphertext with iv and removes the padding.
	Decrypt(ciphertext, iv []byte) ([]byte, error)
}

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap the envelope key.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers for a KMS key URI.
type KMSService interface {
	// OpenKeeper opens a keeper for keyURI (gcpkms://, awskms://, azurekeyvault://,
	// hashivault://, base64key://).
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}

// KeyLoader turns the configured key representation into a usable key.
type KeyLoader interface {
	// Load returns the envelope key. When kmsKeyURI is empty, encoded is the
	// base64 key itself; otherwise it is the base64 KMS ciphertext of the key.
	Load(ctx context.Context, encoded, kmsKeyURI string) (*envelopeDomain.Key, error)

	// Wrap encrypts key with the KMS key at kmsKeyURI and returns the base64
	// ciphertext suitable for ENVELOPE_KEY.
	Wrap(ctx context.Context, key *envelopeDomain.Key, kmsKeyURI string) (string, error)
}

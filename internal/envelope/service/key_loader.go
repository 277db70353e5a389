package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// keyLoader implements KeyLoader, optionally unwrapping the key through a KMS.
type keyLoader struct {
	kmsService KMSService
}

// NewKeyLoader creates a KeyLoader. kmsService is only consulted when a KMS key URI is given.
func NewKeyLoader(kmsService KMSService) KeyLoader {
	return &keyLoader{kmsService: kmsService}
}

// Load returns the envelope key.
//
// Without a KMS key URI, encoded is parsed with envelopeDomain.ParseKey. With
// one, encoded is base64 KMS ciphertext; it is decrypted by the keeper and the
// plaintext must still be exactly KeySize bytes. All failures wrap
// errors.ErrConfiguration and must stop the process.
func (l *keyLoader) Load(ctx context.Context, encoded, kmsKeyURI string) (*envelopeDomain.Key, error) {
	if kmsKeyURI == "" {
		return envelopeDomain.ParseKey(encoded)
	}

	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, envelopeDomain.ErrKeyNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrInvalidKeyBase64, err)
	}

	keeper, err := l.kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrKeyUnwrapFailed, err)
	}
	defer func() {
		_ = keeper.Close()
	}()

	raw, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", envelopeDomain.ErrKeyUnwrapFailed, err)
	}
	defer envelopeDomain.Zero(raw)

	return envelopeDomain.NewKey(raw)
}

// Wrap encrypts key with the KMS key at kmsKeyURI and returns base64 ciphertext.
func (l *keyLoader) Wrap(ctx context.Context, key *envelopeDomain.Key, kmsKeyURI string) (string, error) {
	keeper, err := l.kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = keeper.Close()
	}()

	ciphertext, err := keeper.Encrypt(ctx, key.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to encrypt envelope key with KMS: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

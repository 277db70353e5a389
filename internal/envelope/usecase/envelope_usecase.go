// Package usecase implements encoding and decoding of envelopes.
//
// An envelope carries one value to the backend service as
// "base64(iv)$length$base64(ciphertext)". The use case owns the whole
// contract: canonical serialization of the value, the declared length, the
// block cipher call and the structural checks on the way back. It never logs
// and never retries; every failure is returned to the caller.
//
// # Usage Example
//
//	key, err := envelopeDomain.ParseKey(os.Getenv("ENVELOPE_KEY"))
//	cipher, err := envelopeService.NewAESCBC(key.Bytes())
//	uc := usecase.NewEnvelopeUseCase(cipher)
//
//	env, err := uc.Encode(ctx, "hello")
//	text, err := uc.DecodeText(ctx, env) // "hello"
package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	apperrors "github.com/stockdesk/frontend/internal/errors"
	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	envelopeService "github.com/stockdesk/frontend/internal/envelope/service"
)

// envelopeUseCase implements EnvelopeUseCase on top of a BlockCipher.
//
// It keeps no mutable state, so one instance is shared by every goroutine.
type envelopeUseCase struct {
	cipher envelopeService.BlockCipher
}

// NewEnvelopeUseCase creates an EnvelopeUseCase using cipher for every call.
func NewEnvelopeUseCase(cipher envelopeService.BlockCipher) EnvelopeUseCase {
	return &envelopeUseCase{cipher: cipher}
}

// Encode serializes value with envelopeDomain.Canonical, records its length,
// encrypts it under a fresh IV and returns the envelope string.
//
// Returns ErrUnsupportedValue (an ErrEncoding) for values that are neither
// text nor a serializable mapping.
func (e *envelopeUseCase) Encode(ctx context.Context, value any) (string, error) {
	plaintext, err := envelopeDomain.Canonical(value)
	if err != nil {
		return "", err
	}
	defer envelopeDomain.Zero(plaintext)

	ciphertext, iv, err := e.cipher.Encrypt(plaintext)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt value")
	}

	env := envelopeDomain.Envelope{
		IV:         iv,
		Length:     len(plaintext),
		Ciphertext: ciphertext,
	}
	return env.String(), nil
}

// Decode parses and decrypts an envelope.
//
// Structural problems and bad padding return ErrMalformedEnvelope errors, a
// cipher failure returns ErrDecryptionFailed. After unpadding, the plaintext
// length must equal the declared length, otherwise ErrLengthMismatch.
func (e *envelopeUseCase) Decode(ctx context.Context, envelope string) ([]byte, error) {
	env, err := envelopeDomain.NewEnvelope(envelope)
	if err != nil {
		return nil, err
	}

	plaintext, err := e.cipher.Decrypt(env.Ciphertext, env.IV)
	if err != nil {
		return nil, err
	}

	if len(plaintext) != env.Length {
		envelopeDomain.Zero(plaintext)
		return nil, fmt.Errorf(
			"%w: declared %d bytes, decrypted %d",
			envelopeDomain.ErrLengthMismatch,
			env.Length,
			len(plaintext),
		)
	}

	return plaintext, nil
}

// DecodeText decodes an envelope and returns it as text.
//
// Envelopes only ever carry UTF-8, so invalid UTF-8 is reported as
// ErrMalformedEnvelope rather than handed back as garbage.
func (e *envelopeUseCase) DecodeText(ctx context.Context, envelope string) (string, error) {
	plaintext, err := e.Decode(ctx, envelope)
	if err != nil {
		return "", err
	}
	defer envelopeDomain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", envelopeDomain.ErrMalformedEnvelope)
	}
	return string(plaintext), nil
}

// EncodeFields encodes each value on its own, the layout the backend expects
// for query parameters. Mapping values become one envelope of their canonical
// JSON. The first failing field aborts the whole call.
func (e *envelopeUseCase) EncodeFields(
	ctx context.Context,
	fields envelopeDomain.Fields,
) (envelopeDomain.Fields, error) {
	encoded := make(envelopeDomain.Fields, 0, len(fields))
	for _, field := range fields {
		env, err := e.Encode(ctx, field.Value)
		if err != nil {
			return nil, apperrors.Wrapf(err, "field %q", field.Key)
		}
		encoded = append(encoded, envelopeDomain.Field{Key: field.Key, Value: env})
	}
	return encoded, nil
}

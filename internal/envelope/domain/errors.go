package domain

import (
	"github.com/stockdesk/frontend/internal/errors"
)

// Envelope error kinds. Callers should branch on these four, the more specific
// errors below all wrap one of them.
var (
	// ErrEncoding indicates the value handed to Encode cannot be turned into bytes.
	ErrEncoding = errors.Wrap(errors.ErrInvalidInput, "encoding error")

	// ErrMalformedEnvelope indicates an envelope failed structural validation.
	// It means tampering, corruption or a protocol mismatch with the backend.
	ErrMalformedEnvelope = errors.Wrap(errors.ErrInvalidInput, "malformed envelope")

	// ErrDecryptionFailed indicates the block cipher itself rejected the input.
	// Callers treat it exactly like ErrMalformedEnvelope.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)

// Configuration errors. These are fatal at startup.
var (
	// ErrKeyNotSet indicates no envelope key was configured.
	ErrKeyNotSet = errors.Wrap(errors.ErrConfiguration, "envelope key not set")

	// ErrInvalidKeyBase64 indicates the configured key is not standard base64.
	ErrInvalidKeyBase64 = errors.Wrap(errors.ErrConfiguration, "envelope key is not valid base64")

	// ErrInvalidKeySize indicates the decoded key is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrConfiguration, "invalid envelope key size")

	// ErrKeyUnwrapFailed indicates the KMS could not be opened or refused to decrypt the key.
	ErrKeyUnwrapFailed = errors.Wrap(errors.ErrConfiguration, "failed to unwrap envelope key")
)

var (
	// ErrUnsupportedValue indicates the value is neither text nor a serializable mapping.
	ErrUnsupportedValue = errors.Wrap(ErrEncoding, "unsupported value type")

	// ErrInvalidFieldsJSON indicates a JSON document could not be read as an ordered mapping.
	ErrInvalidFieldsJSON = errors.Wrap(ErrEncoding, "invalid fields json")
)

var (
	// ErrInvalidEnvelopeFormat indicates the envelope is not three non-empty '$'-separated components.
	ErrInvalidEnvelopeFormat = errors.Wrap(ErrMalformedEnvelope, "invalid format")

	// ErrInvalidEnvelopeIV indicates the IV component is not base64 of exactly IVSize bytes.
	ErrInvalidEnvelopeIV = errors.Wrap(ErrMalformedEnvelope, "invalid iv")

	// ErrInvalidEnvelopeLength indicates the length component is not a usable non-negative integer.
	ErrInvalidEnvelopeLength = errors.Wrap(ErrMalformedEnvelope, "invalid length")

	// ErrInvalidEnvelopeCiphertext indicates the ciphertext is not base64 or not block aligned.
	ErrInvalidEnvelopeCiphertext = errors.Wrap(ErrMalformedEnvelope, "invalid ciphertext")

	// ErrInvalidPadding indicates the decrypted trailer is not valid PKCS#7 padding.
	ErrInvalidPadding = errors.Wrap(ErrMalformedEnvelope, "invalid padding")

	// ErrLengthMismatch indicates the unpadded plaintext length differs from the declared length.
	ErrLengthMismatch = errors.Wrap(ErrMalformedEnvelope, "length mismatch")
)

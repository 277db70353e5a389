package domain

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Envelope is the transmissible form of one encoded value.
//
// It serializes to "base64(iv)$length$base64(ciphertext)" where length is the
// byte length of the plaintext before padding. The backend service decodes the
// same format with the same key, so the layout must not change.
//
// Fields:
//   - IV: the IVSize-byte initialization vector, not secret
//   - Length: the original plaintext length in bytes
//   - Ciphertext: AES-CBC output over the PKCS#7 padded plaintext
type Envelope struct {
	IV         []byte
	Length     int
	Ciphertext []byte
}

// NewEnvelope parses an envelope string and validates its structure.
//
// Nothing is decrypted here; the checks are the ones that can be made without
// the key:
//   - exactly three non-empty components separated by Delimiter
//   - the IV decodes to exactly IVSize bytes
//   - the length is a non-negative decimal integer
//   - the ciphertext decodes to a positive multiple of BlockSize bytes
//     that is strictly longer than the declared length
//
// Every failure wraps ErrMalformedEnvelope.
//
// Example:
//
//	env, err := NewEnvelope("AAECAwQFBgcICQoLDA0ODw==$5$...")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(env.Length)
func NewEnvelope(content string) (Envelope, error) {
	parts := strings.Split(content, Delimiter)
	if len(parts) != 3 {
		return Envelope{}, fmt.Errorf(
			"%w: expected 'iv$length$ciphertext', got %d parts",
			ErrInvalidEnvelopeFormat,
			len(parts),
		)
	}
	for i, part := range parts {
		if part == "" {
			return Envelope{}, fmt.Errorf("%w: component %d is empty", ErrInvalidEnvelopeFormat, i)
		}
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelopeIV, err)
	}
	if len(iv) != IVSize {
		return Envelope{}, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidEnvelopeIV, IVSize, len(iv))
	}

	// ParseUint rejects signs, so "-1" fails here along with non-numbers.
	parsedLength, err := strconv.ParseUint(parts[1], 10, 31)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelopeLength, err)
	}
	length := int(parsedLength)

	ciphertext, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrInvalidEnvelopeCiphertext, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return Envelope{}, fmt.Errorf(
			"%w: %d bytes is not a positive multiple of %d",
			ErrInvalidEnvelopeCiphertext,
			len(ciphertext),
			BlockSize,
		)
	}

	// PKCS#7 always adds at least one byte.
	if length >= len(ciphertext) {
		return Envelope{}, fmt.Errorf(
			"%w: declared %d bytes does not fit %d bytes of ciphertext",
			ErrInvalidEnvelopeLength,
			length,
			len(ciphertext),
		)
	}

	return Envelope{
		IV:         iv,
		Length:     length,
		Ciphertext: ciphertext,
	}, nil
}

// String serializes the envelope to "base64(iv)$length$base64(ciphertext)".
func (e Envelope) String() string {
	var b strings.Builder
	b.WriteString(base64.StdEncoding.EncodeToString(e.IV))
	b.WriteString(Delimiter)
	b.WriteString(strconv.Itoa(e.Length))
	b.WriteString(Delimiter)
	b.WriteString(base64.StdEncoding.EncodeToString(e.Ciphertext))
	return b.String()
}

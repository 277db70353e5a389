package service

import (
	"crypto/subtle"
	"fmt"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// PKCS7Pad appends between 1 and blockSize bytes, each holding the pad length.
// A block-aligned input gets a full extra block, so the padding is always
// unambiguous even when data ends in bytes that look like padding.
func PKCS7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// PKCS7Unpad removes the padding added by PKCS7Pad.
//
// Returns ErrInvalidPadding if data is empty, not block aligned or does not
// end in a valid padding pattern. The trailer is checked without early exit.
func PKCS7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf(
			"%w: %d bytes is not a positive multiple of %d",
			envelopeDomain.ErrInvalidPadding,
			len(data),
			blockSize,
		)
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize {
		return nil, envelopeDomain.ErrInvalidPadding
	}

	good := 1
	for i := len(data) - padLen; i < len(data); i++ {
		good &= subtle.ConstantTimeByteEq(data[i], byte(padLen))
	}
	if good != 1 {
		return nil, envelopeDomain.ErrInvalidPadding
	}

	return data[:len(data)-padLen], nil
}

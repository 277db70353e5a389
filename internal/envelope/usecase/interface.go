package usecase

import (
	"context"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// EnvelopeUseCase encodes values into envelopes for the backend and decodes them back.
type EnvelopeUseCase interface {
	// Encode turns text or a mapping into an envelope string.
	Encode(ctx context.Context, value any) (string, error)

	// Decode recovers the original bytes of an envelope.
	//
	// Security Note: the returned slice is plaintext. Callers that hold it beyond
	// the request should zero it with envelopeDomain.Zero.
	Decode(ctx context.Context, envelope string) ([]byte, error)

	// DecodeText is Decode interpreted as UTF-8 text.
	DecodeText(ctx context.Context, envelope string) (string, error)

	// EncodeFields encodes every value of fields independently and keeps the keys in order.
	EncodeFields(ctx context.Context, fields envelopeDomain.Fields) (envelopeDomain.Fields, error)
}

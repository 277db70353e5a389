// Package service implements the HTTP client of the trading backend.
package service

import (
	"context"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// Encoder turns request parameters into envelopes. It is satisfied by the
// envelope use case.
type Encoder interface {
	// Encode encodes one value, used for the whole mapping in blob mode.
	Encode(ctx context.Context, value any) (string, error)

	// EncodeFields encodes every value independently, used in field mode.
	EncodeFields(ctx context.Context, fields envelopeDomain.Fields) (envelopeDomain.Fields, error)
}

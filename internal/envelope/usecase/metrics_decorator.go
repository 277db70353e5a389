package usecase

import (
	"context"
	"time"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	"github.com/stockdesk/frontend/internal/metrics"
)

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (e *envelopeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "envelope", operation, status)
	e.metrics.RecordDuration(ctx, "envelope", operation, time.Since(start), status)
}

// Encode records metrics for envelope encoding.
func (e *envelopeUseCaseWithMetrics) Encode(ctx context.Context, value any) (string, error) {
	start := time.Now()
	env, err := e.next.Encode(ctx, value)
	e.record(ctx, "encode", start, err)
	return env, err
}

// Decode records metrics for envelope decoding.
func (e *envelopeUseCaseWithMetrics) Decode(ctx context.Context, envelope string) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.Decode(ctx, envelope)
	e.record(ctx, "decode", start, err)
	return plaintext, err
}

// DecodeText records metrics for envelope decoding to text.
func (e *envelopeUseCaseWithMetrics) DecodeText(ctx context.Context, envelope string) (string, error) {
	start := time.Now()
	text, err := e.next.DecodeText(ctx, envelope)
	e.record(ctx, "decode", start, err)
	return text, err
}

// EncodeFields records metrics for per-field encoding.
func (e *envelopeUseCaseWithMetrics) EncodeFields(
	ctx context.Context,
	fields envelopeDomain.Fields,
) (envelopeDomain.Fields, error) {
	start := time.Now()
	encoded, err := e.next.EncodeFields(ctx, fields)
	e.record(ctx, "encode_fields", start, err)
	return encoded, err
}

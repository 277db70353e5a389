package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
)

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// MockEnvelopeUseCase is a mock implementation of EnvelopeUseCase.
type MockEnvelopeUseCase struct {
	mock.Mock
}

func (m *MockEnvelopeUseCase) Encode(ctx context.Context, value any) (string, error) {
	args := m.Called(ctx, value)
	return args.String(0), args.Error(1)
}

func (m *MockEnvelopeUseCase) Decode(ctx context.Context, envelope string) ([]byte, error) {
	args := m.Called(ctx, envelope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockEnvelopeUseCase) DecodeText(ctx context.Context, envelope string) (string, error) {
	args := m.Called(ctx, envelope)
	return args.String(0), args.Error(1)
}

func (m *MockEnvelopeUseCase) EncodeFields(
	ctx context.Context,
	fields envelopeDomain.Fields,
) (envelopeDomain.Fields, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(envelopeDomain.Fields), args.Error(1)
}

func expectRecord(m *MockBusinessMetrics, operation, status string) {
	m.On("RecordOperation", mock.Anything, "envelope", operation, status).Once()
	m.On("RecordDuration", mock.Anything, "envelope", operation, mock.AnythingOfType("time.Duration"), status).
		Once()
}

func TestEnvelopeUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("Encode_Success", func(t *testing.T) {
		next := &MockEnvelopeUseCase{}
		next.On("Encode", ctx, "hello").Return("iv$5$ct", nil)
		m := &MockBusinessMetrics{}
		expectRecord(m, "encode", "success")

		env, err := NewEnvelopeUseCaseWithMetrics(next, m).Encode(ctx, "hello")

		require.NoError(t, err)
		assert.Equal(t, "iv$5$ct", env)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("Decode_Error", func(t *testing.T) {
		next := &MockEnvelopeUseCase{}
		next.On("Decode", ctx, "bad").Return(nil, envelopeDomain.ErrInvalidEnvelopeFormat)
		m := &MockBusinessMetrics{}
		expectRecord(m, "decode", "error")

		_, err := NewEnvelopeUseCaseWithMetrics(next, m).Decode(ctx, "bad")

		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
		m.AssertExpectations(t)
	})

	t.Run("DecodeText_CountsAsDecode", func(t *testing.T) {
		next := &MockEnvelopeUseCase{}
		next.On("DecodeText", ctx, "iv$5$ct").Return("hello", nil)
		m := &MockBusinessMetrics{}
		expectRecord(m, "decode", "success")

		text, err := NewEnvelopeUseCaseWithMetrics(next, m).DecodeText(ctx, "iv$5$ct")

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		m.AssertExpectations(t)
	})

	t.Run("EncodeFields_Error", func(t *testing.T) {
		fields := envelopeDomain.Fields{{Key: "quantity", Value: 3}}
		next := &MockEnvelopeUseCase{}
		next.On("EncodeFields", ctx, fields).Return(nil, errors.New("boom"))
		m := &MockBusinessMetrics{}
		expectRecord(m, "encode_fields", "error")

		_, err := NewEnvelopeUseCaseWithMetrics(next, m).EncodeFields(ctx, fields)

		assert.EqualError(t, err, "boom")
		m.AssertExpectations(t)
	})
}

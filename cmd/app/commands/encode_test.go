package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	envelopeService "github.com/stockdesk/frontend/internal/envelope/service"
	envelopeUseCase "github.com/stockdesk/frontend/internal/envelope/usecase"
)

func newTestEnvelopeUseCase(t *testing.T) envelopeUseCase.EnvelopeUseCase {
	t.Helper()
	key := make([]byte, envelopeDomain.KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	cipher, err := envelopeService.NewAESCBC(key)
	require.NoError(t, err)
	return envelopeUseCase.NewEnvelopeUseCase(cipher)
}

func TestRunEncode(t *testing.T) {
	ctx := context.Background()
	useCase := newTestEnvelopeUseCase(t)

	t.Run("value", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEncode(ctx, useCase, &out, "AAPL", true, ""))

		envelope := strings.TrimSpace(out.String())
		text, err := useCase.DecodeText(ctx, envelope)
		require.NoError(t, err)
		assert.Equal(t, "AAPL", text)
	})

	t.Run("empty value", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEncode(ctx, useCase, &out, "", true, ""))

		text, err := useCase.DecodeText(ctx, strings.TrimSpace(out.String()))
		require.NoError(t, err)
		assert.Equal(t, "", text)
	})

	t.Run("json keeps key order", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunEncode(ctx, useCase, &out, "", false, `{"z": 1, "a": "b"}`))

		text, err := useCase.DecodeText(ctx, strings.TrimSpace(out.String()))
		require.NoError(t, err)
		assert.Equal(t, `{"z": 1, "a": "b"}`, text)
	})

	t.Run("invalid json", func(t *testing.T) {
		err := RunEncode(ctx, useCase, &bytes.Buffer{}, "", false, `[1, 2]`)
		require.Error(t, err)
		assert.ErrorIs(t, err, envelopeDomain.ErrInvalidFieldsJSON)
	})

	t.Run("neither given", func(t *testing.T) {
		err := RunEncode(ctx, useCase, &bytes.Buffer{}, "", false, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of")
	})

	t.Run("both given", func(t *testing.T) {
		err := RunEncode(ctx, useCase, &bytes.Buffer{}, "x", true, `{"a": 1}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of")
	})
}

func TestRunDecode(t *testing.T) {
	ctx := context.Background()
	useCase := newTestEnvelopeUseCase(t)

	t.Run("success", func(t *testing.T) {
		envelope, err := useCase.Encode(ctx, "hello")
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, RunDecode(ctx, useCase, &out, envelope))
		assert.Equal(t, "hello\n", out.String())
	})

	t.Run("malformed envelope", func(t *testing.T) {
		err := RunDecode(ctx, useCase, &bytes.Buffer{}, "not-an-envelope")
		require.Error(t, err)
		assert.ErrorIs(t, err, envelopeDomain.ErrMalformedEnvelope)
	})
}

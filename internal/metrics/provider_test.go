package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("Success_KeepsNamespace", func(t *testing.T) {
		provider, err := NewProvider("frontend")

		require.NoError(t, err)
		assert.Equal(t, "frontend", provider.Namespace())
		assert.NotNil(t, provider.MeterProvider())
		assert.NotNil(t, provider.registry)
	})

	t.Run("Success_EmptyNamespace", func(t *testing.T) {
		provider, err := NewProvider("")

		require.NoError(t, err)
		assert.Empty(t, provider.Namespace())
	})
}

func TestProvider_Handler(t *testing.T) {
	provider, err := NewProvider("frontend")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_Shutdown", func(t *testing.T) {
		provider, err := NewProvider("frontend")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_NilMeterProvider", func(t *testing.T) {
		provider := &Provider{}

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}

package domain_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/frontend/internal/backend/domain"
	apperrors "github.com/stockdesk/frontend/internal/errors"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		route domain.Route
		uuid  bool
		pass  bool
		label string
	}{
		{domain.RouteSignUp, false, false, "sign_up"},
		{domain.RouteSignIn, false, false, "sign_in"},
		{domain.UpdateRoute("email"), true, true, "update"},
		{domain.UpdateRoute("password"), true, true, "update"},
		{domain.RouteSubmitOrder, true, false, "submit_order"},
		{domain.RoutePortfolio, true, false, "get_user/summary"},
		{domain.RouteDatabase, true, false, "get_user/database"},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			assert.Equal(t, tt.uuid, tt.route.NeedsUUID())
			assert.Equal(t, tt.pass, tt.route.NeedsPassword())
			assert.Equal(t, tt.label, tt.route.Metric())
		})
	}
}

func TestUpdateRoute(t *testing.T) {
	assert.Equal(t, domain.Route("update/username"), domain.UpdateRoute("username"))
}

func TestParseMethod(t *testing.T) {
	t.Run("normalizes case", func(t *testing.T) {
		cases := []struct{ input, want string }{
			{"get", http.MethodGet},
			{"Post", http.MethodPost},
			{" PUT ", http.MethodPut},
			{"delete", http.MethodDelete},
		}
		for _, c := range cases {
			got, err := domain.ParseMethod(c.input)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		}
	})

	t.Run("rejects other methods", func(t *testing.T) {
		for _, input := range []string{"PATCH", "HEAD", ""} {
			_, err := domain.ParseMethod(input)
			assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		}
	})
}

func TestValidAttribute(t *testing.T) {
	assert.True(t, domain.ValidAttribute("email"))
	assert.True(t, domain.ValidAttribute("username"))
	assert.True(t, domain.ValidAttribute("password"))
	assert.False(t, domain.ValidAttribute("balance"))
	assert.False(t, domain.ValidAttribute(""))
}

package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseKinds(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"not found", ErrNotFound, "not found"},
		{"conflict", ErrConflict, "conflict"},
		{"invalid input", ErrInvalidInput, "invalid input"},
		{"unauthorized", ErrUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, "forbidden"},
		{"unavailable", ErrUnavailable, "unavailable"},
		{"configuration", ErrConfiguration, "configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("keeps the chain", func(t *testing.T) {
		err := Wrap(ErrInvalidInput, "malformed envelope")

		assert.Equal(t, "malformed envelope: invalid input", err.Error())
		assert.True(t, Is(err, ErrInvalidInput))
		assert.False(t, Is(err, ErrConfiguration))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
	})

	t.Run("nests", func(t *testing.T) {
		inner := Wrap(ErrInvalidInput, "malformed envelope")
		outer := Wrap(inner, "invalid padding")

		assert.Equal(t, "invalid padding: malformed envelope: invalid input", outer.Error())
		assert.True(t, Is(outer, inner))
		assert.True(t, Is(outer, ErrInvalidInput))
	})
}

func TestWrapf(t *testing.T) {
	err := Wrapf(ErrUnavailable, "backend %s returned %d", "submit_order", 502)

	assert.Equal(t, "backend submit_order returned 502: unavailable", err.Error())
	assert.True(t, Is(err, ErrUnavailable))
	assert.NoError(t, Wrapf(nil, "field %q", "username"))
}

type statusError struct {
	code int
}

func (e *statusError) Error() string { return "status" }

func TestAs(t *testing.T) {
	err := Wrap(&statusError{code: 404}, "get_user/summary")

	var target *statusError
	assert.True(t, As(err, &target))
	assert.Equal(t, 404, target.code)
}

func TestNew(t *testing.T) {
	err := New("boom")

	assert.EqualError(t, err, "boom")
	assert.False(t, stderrors.Is(err, New("boom")))
}

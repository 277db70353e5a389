package service

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	apperrors "github.com/stockdesk/frontend/internal/errors"
)

// MockKMSService is a mock implementation of KMSService.
type MockKMSService struct {
	mock.Mock
}

func (m *MockKMSService) OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error) {
	args := m.Called(ctx, keyURI)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(KMSKeeper), args.Error(1)
}

// MockKMSKeeper is a mock implementation of KMSKeeper.
type MockKMSKeeper struct {
	mock.Mock
}

func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}

const plainKey = "AAECAwQFBgcICQoLDA0ODw=="

func TestKeyLoader_Load_Plain(t *testing.T) {
	ctx := context.Background()
	kmsService := &MockKMSService{}
	loader := NewKeyLoader(kmsService)

	t.Run("Success", func(t *testing.T) {
		key, err := loader.Load(ctx, plainKey, "")

		require.NoError(t, err)
		assert.Equal(t, plainKey, key.String())
	})

	t.Run("Error_NotSet", func(t *testing.T) {
		_, err := loader.Load(ctx, "", "")

		assert.ErrorIs(t, err, envelopeDomain.ErrKeyNotSet)
	})

	t.Run("Error_WrongSize", func(t *testing.T) {
		_, err := loader.Load(ctx, base64.StdEncoding.EncodeToString(make([]byte, 32)), "")

		assert.ErrorIs(t, err, envelopeDomain.ErrInvalidKeySize)
	})

	kmsService.AssertNotCalled(t, "OpenKeeper", mock.Anything, mock.Anything)
}

func TestKeyLoader_LocalSecrets(t *testing.T) {
	ctx := context.Background()
	loader := NewKeyLoader(NewKMSService())
	keyURI := generateLocalSecretsURI(t)

	original, err := envelopeDomain.ParseKey(plainKey)
	require.NoError(t, err)

	wrapped, err := loader.Wrap(ctx, original, keyURI)
	require.NoError(t, err)
	assert.NotEqual(t, plainKey, wrapped)

	t.Run("Success_Unwrap", func(t *testing.T) {
		key, err := loader.Load(ctx, wrapped, keyURI)

		require.NoError(t, err)
		assert.Equal(t, original.Bytes(), key.Bytes())
	})

	t.Run("Error_OtherKMSKey", func(t *testing.T) {
		_, err := loader.Load(ctx, wrapped, generateLocalSecretsURI(t))

		assert.ErrorIs(t, err, envelopeDomain.ErrKeyUnwrapFailed)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration)
	})

	t.Run("Error_PlainKeyGivenWithURI", func(t *testing.T) {
		_, err := loader.Load(ctx, plainKey, keyURI)

		assert.ErrorIs(t, err, envelopeDomain.ErrKeyUnwrapFailed)
	})
}

func TestKeyLoader_Load_KMS(t *testing.T) {
	ctx := context.Background()
	keyURI := "gcpkms://projects/p/locations/l/keyRings/r/cryptoKeys/k"
	ciphertext := []byte("wrapped-key")
	encoded := base64.StdEncoding.EncodeToString(ciphertext)

	t.Run("Error_NotSet", func(t *testing.T) {
		loader := NewKeyLoader(&MockKMSService{})

		_, err := loader.Load(ctx, " ", keyURI)

		assert.ErrorIs(t, err, envelopeDomain.ErrKeyNotSet)
	})

	t.Run("Error_NotBase64", func(t *testing.T) {
		loader := NewKeyLoader(&MockKMSService{})

		_, err := loader.Load(ctx, "%%%", keyURI)

		assert.ErrorIs(t, err, envelopeDomain.ErrInvalidKeyBase64)
	})

	t.Run("Error_OpenKeeper", func(t *testing.T) {
		kmsService := &MockKMSService{}
		kmsService.On("OpenKeeper", ctx, keyURI).Return(nil, errors.New("no credentials"))
		loader := NewKeyLoader(kmsService)

		_, err := loader.Load(ctx, encoded, keyURI)

		assert.ErrorIs(t, err, envelopeDomain.ErrKeyUnwrapFailed)
		assert.Contains(t, err.Error(), "no credentials")
		kmsService.AssertExpectations(t)
	})

	t.Run("Error_UnwrappedKeyWrongSize", func(t *testing.T) {
		keeper := &MockKMSKeeper{}
		keeper.On("Decrypt", ctx, ciphertext).Return(make([]byte, 32), nil)
		keeper.On("Close").Return(nil)
		kmsService := &MockKMSService{}
		kmsService.On("OpenKeeper", ctx, keyURI).Return(keeper, nil)
		loader := NewKeyLoader(kmsService)

		_, err := loader.Load(ctx, encoded, keyURI)

		assert.ErrorIs(t, err, envelopeDomain.ErrInvalidKeySize)
		keeper.AssertExpectations(t)
	})

	t.Run("Success_ClosesKeeper", func(t *testing.T) {
		raw := make([]byte, 16)
		raw[15] = 1
		keeper := &MockKMSKeeper{}
		keeper.On("Decrypt", ctx, ciphertext).Return(raw, nil)
		keeper.On("Close").Return(nil)
		kmsService := &MockKMSService{}
		kmsService.On("OpenKeeper", ctx, keyURI).Return(keeper, nil)
		loader := NewKeyLoader(kmsService)

		key, err := loader.Load(ctx, encoded, keyURI)

		require.NoError(t, err)
		assert.Equal(t, byte(1), key.Bytes()[15])
		keeper.AssertExpectations(t)
	})
}

func TestKeyLoader_Wrap(t *testing.T) {
	ctx := context.Background()
	keyURI := "awskms://alias/frontend"
	key, err := envelopeDomain.ParseKey(plainKey)
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		keeper := &MockKMSKeeper{}
		keeper.On("Encrypt", ctx, key.Bytes()).Return([]byte("wrapped"), nil)
		keeper.On("Close").Return(nil)
		kmsService := &MockKMSService{}
		kmsService.On("OpenKeeper", ctx, keyURI).Return(keeper, nil)

		wrapped, err := NewKeyLoader(kmsService).Wrap(ctx, key, keyURI)

		require.NoError(t, err)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("wrapped")), wrapped)
		keeper.AssertExpectations(t)
	})

	t.Run("Error_Encrypt", func(t *testing.T) {
		keeper := &MockKMSKeeper{}
		keeper.On("Encrypt", ctx, key.Bytes()).Return(nil, errors.New("denied"))
		keeper.On("Close").Return(nil)
		kmsService := &MockKMSService{}
		kmsService.On("OpenKeeper", ctx, keyURI).Return(keeper, nil)

		_, err := NewKeyLoader(kmsService).Wrap(ctx, key, keyURI)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
	})
}

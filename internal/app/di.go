// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	backendService "github.com/stockdesk/frontend/internal/backend/service"
	"github.com/stockdesk/frontend/internal/config"
	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	envelopeService "github.com/stockdesk/frontend/internal/envelope/service"
	envelopeUseCase "github.com/stockdesk/frontend/internal/envelope/usecase"
	"github.com/stockdesk/frontend/internal/http"
	"github.com/stockdesk/frontend/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	logOutput       io.Writer
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Envelope
	kmsService      envelopeService.KMSService
	keyLoader       envelopeService.KeyLoader
	envelopeKey     *envelopeDomain.Key
	blockCipher     envelopeService.BlockCipher
	envelopeUseCase envelopeUseCase.EnvelopeUseCase

	// Backend
	backendClient *backendService.Client

	// Servers
	opsServer *http.Server

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	kmsServiceInit      sync.Once
	keyLoaderInit       sync.Once
	envelopeKeyInit     sync.Once
	blockCipherInit     sync.Once
	envelopeUseCaseInit sync.Once
	backendClientInit   sync.Once
	opsServerInit       sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		logOutput:  os.Stdout,
		initErrors: make(map[string]error),
	}
}

// SetLogOutput redirects the logger. It must be called before the first Logger call.
func (c *Container) SetLogOutput(w io.Writer) {
	c.logOutput = w
}

// SetKMSService replaces the KMS service. It must be called before the key is loaded.
func (c *Container) SetKMSService(kmsService envelopeService.KMSService) {
	c.kmsServiceInit.Do(func() {
		c.kmsService = kmsService
	})
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = c.initMetricsProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// KMSService returns the KMS service.
func (c *Container) KMSService() envelopeService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = envelopeService.NewKMSService()
	})
	return c.kmsService
}

// KeyLoader returns the envelope key loader.
func (c *Container) KeyLoader() envelopeService.KeyLoader {
	c.keyLoaderInit.Do(func() {
		c.keyLoader = envelopeService.NewKeyLoader(c.KMSService())
	})
	return c.keyLoader
}

// EnvelopeKey returns the process-wide envelope key.
// A failure here is a configuration error and must stop the process.
func (c *Container) EnvelopeKey() (*envelopeDomain.Key, error) {
	var err error
	c.envelopeKeyInit.Do(func() {
		c.envelopeKey, err = c.initEnvelopeKey()
		if err != nil {
			c.initErrors["envelopeKey"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeKey"]; exists {
		return nil, storedErr
	}
	return c.envelopeKey, nil
}

// BlockCipher returns the AES-128-CBC cipher keyed with the envelope key.
func (c *Container) BlockCipher() (envelopeService.BlockCipher, error) {
	var err error
	c.blockCipherInit.Do(func() {
		c.blockCipher, err = c.initBlockCipher()
		if err != nil {
			c.initErrors["blockCipher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["blockCipher"]; exists {
		return nil, storedErr
	}
	return c.blockCipher, nil
}

// EnvelopeUseCase returns the envelope use case, instrumented when metrics are enabled.
func (c *Container) EnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	var err error
	c.envelopeUseCaseInit.Do(func() {
		c.envelopeUseCase, err = c.initEnvelopeUseCase()
		if err != nil {
			c.initErrors["envelopeUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["envelopeUseCase"]; exists {
		return nil, storedErr
	}
	return c.envelopeUseCase, nil
}

// BackendClient returns the trading backend client.
func (c *Container) BackendClient() (*backendService.Client, error) {
	var err error
	c.backendClientInit.Do(func() {
		c.backendClient, err = c.initBackendClient()
		if err != nil {
			c.initErrors["backendClient"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["backendClient"]; exists {
		return nil, storedErr
	}
	return c.backendClient, nil
}

// OpsServer returns the ops HTTP server instance.
func (c *Container) OpsServer() (*http.Server, error) {
	var err error
	c.opsServerInit.Do(func() {
		c.opsServer, err = c.initOpsServer()
		if err != nil {
			c.initErrors["opsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["opsServer"]; exists {
		return nil, storedErr
	}
	return c.opsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.opsServer != nil {
		if err := c.opsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("ops server shutdown: %w", err))
		}
	}

	if c.backendClient != nil {
		c.backendClient.Close()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.envelopeKey != nil {
		c.envelopeKey.Zero()
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(c.logOutput, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initMetricsProvider creates the Prometheus-backed provider when metrics are enabled.
func (c *Container) initMetricsProvider() (*metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}
	provider, err := metrics.NewProvider(c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics provider: %w", err)
	}
	return provider, nil
}

// initBusinessMetrics creates the business metrics recorder.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), provider.Namespace())
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initEnvelopeKey loads the envelope key, unwrapping it through the KMS when configured.
func (c *Container) initEnvelopeKey() (*envelopeDomain.Key, error) {
	key, err := c.KeyLoader().Load(context.Background(), c.config.EnvelopeKey, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load envelope key: %w", err)
	}

	c.Logger().Info("envelope key loaded",
		slog.Bool("kms", c.config.KMSKeyURI != ""),
		slog.String("kms_provider", c.config.KMSProvider),
	)
	return key, nil
}

// initBlockCipher creates the cipher from the envelope key.
func (c *Container) initBlockCipher() (envelopeService.BlockCipher, error) {
	key, err := c.EnvelopeKey()
	if err != nil {
		return nil, err
	}

	blockCipher, err := envelopeService.NewAESCBC(key.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to create block cipher: %w", err)
	}
	return blockCipher, nil
}

// initEnvelopeUseCase creates the envelope use case with all its dependencies.
func (c *Container) initEnvelopeUseCase() (envelopeUseCase.EnvelopeUseCase, error) {
	blockCipher, err := c.BlockCipher()
	if err != nil {
		return nil, fmt.Errorf("failed to get block cipher for envelope use case: %w", err)
	}

	useCase := envelopeUseCase.NewEnvelopeUseCase(blockCipher)

	if !c.config.MetricsEnabled {
		return useCase, nil
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for envelope use case: %w", err)
	}
	return envelopeUseCase.NewEnvelopeUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initBackendClient creates the backend client with all its dependencies.
func (c *Container) initBackendClient() (*backendService.Client, error) {
	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for backend client: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for backend client: %w", err)
	}

	client := backendService.NewClient(
		backendService.Config{
			BaseURL:          c.config.BackendURL,
			Timeout:          c.config.BackendTimeout,
			WireMode:         c.config.BackendWireMode,
			RateLimitEnabled: c.config.BackendRateLimitEnabled,
			RequestsPerSec:   c.config.BackendRateLimitRequestsPerSec,
			Burst:            c.config.BackendRateLimitBurst,
		},
		useCase,
		businessMetrics,
		c.Logger(),
	)
	return client, nil
}

// initOpsServer creates the ops HTTP server with all its dependencies.
func (c *Container) initOpsServer() (*http.Server, error) {
	useCase, err := c.EnvelopeUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get envelope use case for ops server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for ops server: %w", err)
	}

	server := http.NewServer(
		useCase,
		provider,
		c.config.ServerHost,
		c.config.ServerPort,
		c.Logger(),
	)
	return server, nil
}

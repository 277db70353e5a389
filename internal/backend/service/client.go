package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	backendDomain "github.com/stockdesk/frontend/internal/backend/domain"
	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	apperrors "github.com/stockdesk/frontend/internal/errors"
	"github.com/stockdesk/frontend/internal/metrics"
)

// Wire modes.
const (
	// WireModeField sends every parameter as its own envelope under its own name.
	WireModeField = "field"
	// WireModeBlob sends the whole parameter mapping as one envelope.
	WireModeBlob = "blob"

	// BlobParam is the query parameter carrying the envelope in blob mode.
	BlobParam = "encrypted"

	// RequestIDHeader carries a fresh uuid on every outgoing request.
	RequestIDHeader = "X-Request-Id"

	maxResponseBytes = 4 << 20
)

// Config configures a Client.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	WireMode         string
	RateLimitEnabled bool
	RequestsPerSec   float64
	Burst            int
}

// Client sends encoded requests to the trading backend.
//
// Every parameter is encoded before it leaves the process and travels in the
// URL query string whatever the HTTP method. Requests are never retried:
// submit_order is not idempotent.
type Client struct {
	baseURL    string
	httpClient *http.Client
	encoder    Encoder
	wireMode   string
	limiter    *rate.Limiter
	metrics    metrics.BusinessMetrics
	logger     *slog.Logger
}

// NewClient creates a Client. An unknown wire mode falls back to field mode.
func NewClient(
	cfg Config,
	encoder Encoder,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Client {
	wireMode := cfg.WireMode
	if wireMode != WireModeBlob {
		wireMode = WireModeField
	}

	var limiter *rate.Limiter
	if cfg.RateLimitEnabled {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSec), cfg.Burst)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		encoder:  encoder,
		wireMode: wireMode,
		limiter:  limiter,
		metrics:  businessMetrics,
		logger:   logger,
	}
}

// Close releases idle connections to the backend.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Send performs one backend call.
//
// The session uuid is added for routes acting on a user and the session
// password for updates. A response with success=false is returned without
// error; non-2xx statuses are mapped to error kinds (404 ErrNotFound,
// 409 ErrConflict, 400/422 ErrInvalidInput, 401 ErrUnauthorized,
// 403 ErrForbidden, 5xx ErrBackendUnavailable).
func (c *Client) Send(
	ctx context.Context,
	route backendDomain.Route,
	method string,
	params envelopeDomain.Fields,
	session *backendDomain.Session,
) (*backendDomain.Response, error) {
	start := time.Now()
	response, err := c.send(ctx, route, method, params, session)

	status := "success"
	if err != nil {
		status = "error"
	}
	c.metrics.RecordOperation(ctx, "backend", route.Metric(), status)
	c.metrics.RecordDuration(ctx, "backend", route.Metric(), time.Since(start), status)

	return response, err
}

func (c *Client) send(
	ctx context.Context,
	route backendDomain.Route,
	method string,
	params envelopeDomain.Fields,
	session *backendDomain.Session,
) (*backendDomain.Response, error) {
	httpMethod, err := backendDomain.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, method)
	}

	params = params.Clone()
	if route.NeedsUUID() {
		if session == nil || session.UUID == "" {
			return nil, fmt.Errorf("%w: route %s", backendDomain.ErrSessionRequired, route)
		}
		params.Set("uuid", session.UUID)
	}
	if route.NeedsPassword() {
		params.Set("password", session.Password)
	}

	query, err := c.encodeParams(ctx, params)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", backendDomain.ErrBackendUnavailable, err)
		}
	}

	reqURL := c.baseURL + "/" + string(route)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, httpMethod, reqURL, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to build backend request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			slog.String("route", route.Metric()),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("%w: %v", backendDomain.ErrBackendUnavailable, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	c.logger.Debug("got backend response",
		slog.String("route", route.Metric()),
		slog.String("request_id", requestID),
		slog.Int("status_code", httpResp.StatusCode),
	)

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", backendDomain.ErrBackendUnavailable, err)
	}

	var response backendDomain.Response
	decodeErr := json.Unmarshal(body, &response)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, statusError(route, httpResp.StatusCode, response.Error)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", backendDomain.ErrInvalidResponse, decodeErr)
	}

	return &response, nil
}

// encodeParams builds the query string for the configured wire mode.
func (c *Client) encodeParams(ctx context.Context, params envelopeDomain.Fields) (url.Values, error) {
	query := url.Values{}

	if c.wireMode == WireModeBlob {
		env, err := c.encoder.Encode(ctx, params)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encode parameters")
		}
		query.Set(BlobParam, env)
		return query, nil
	}

	encoded, err := c.encoder.EncodeFields(ctx, params)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode parameters")
	}
	for _, field := range encoded {
		env, ok := field.Value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: parameter %q", envelopeDomain.ErrEncoding, field.Key)
		}
		query.Set(field.Key, env)
	}
	return query, nil
}

func statusError(route backendDomain.Route, statusCode int, message string) error {
	var kind error
	switch {
	case statusCode == http.StatusNotFound:
		kind = apperrors.ErrNotFound
	case statusCode == http.StatusConflict:
		kind = apperrors.ErrConflict
	case statusCode == http.StatusBadRequest || statusCode == http.StatusUnprocessableEntity:
		kind = apperrors.ErrInvalidInput
	case statusCode == http.StatusUnauthorized:
		kind = apperrors.ErrUnauthorized
	case statusCode == http.StatusForbidden:
		kind = apperrors.ErrForbidden
	case statusCode >= 500:
		kind = backendDomain.ErrBackendUnavailable
	default:
		kind = backendDomain.ErrInvalidResponse
	}

	if message == "" {
		message = http.StatusText(statusCode)
	}
	return fmt.Errorf("%w: %s returned %d: %s", kind, route, statusCode, message)
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, email, username, password string) (*backendDomain.Response, error) {
	params := envelopeDomain.Fields{
		{Key: "email", Value: email},
		{Key: "username", Value: username},
		{Key: "password", Value: password},
	}
	return c.expectSuccess(c.Send(ctx, backendDomain.RouteSignUp, http.MethodPost, params, nil))
}

// SignIn authenticates a user and returns the session for later calls.
func (c *Client) SignIn(ctx context.Context, username, password string) (*backendDomain.Session, error) {
	params := envelopeDomain.Fields{
		{Key: "username", Value: username},
		{Key: "password", Value: password},
	}
	response, err := c.expectSuccess(c.Send(ctx, backendDomain.RouteSignIn, http.MethodPost, params, nil))
	if err != nil {
		return nil, err
	}

	var data backendDomain.SignInData
	if err := response.DecodeData(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", backendDomain.ErrInvalidResponse, err)
	}
	if data.UUID == "" {
		return nil, fmt.Errorf("%w: sign in returned no uuid", backendDomain.ErrInvalidResponse)
	}

	return &backendDomain.Session{
		UUID:     data.UUID,
		Username: username,
		Email:    data.Email,
		Password: password,
	}, nil
}

// UpdateUser changes one attribute (email, username or password) of the session user.
func (c *Client) UpdateUser(
	ctx context.Context,
	session *backendDomain.Session,
	attribute, value string,
) (*backendDomain.Response, error) {
	if !backendDomain.ValidAttribute(attribute) {
		return nil, fmt.Errorf("%w: %q", backendDomain.ErrInvalidAttribute, attribute)
	}
	params := envelopeDomain.Fields{{Key: "value", Value: value}}
	return c.expectSuccess(
		c.Send(ctx, backendDomain.UpdateRoute(attribute), http.MethodPut, params, session),
	)
}

// SubmitOrder validates order and submits it as the single "order" parameter.
func (c *Client) SubmitOrder(
	ctx context.Context,
	session *backendDomain.Session,
	order backendDomain.Order,
) (*backendDomain.Response, error) {
	if err := order.Validate(); err != nil {
		return nil, err
	}
	params := envelopeDomain.Fields{{Key: "order", Value: order.Fields()}}
	return c.expectSuccess(c.Send(ctx, backendDomain.RouteSubmitOrder, http.MethodPost, params, session))
}

// Portfolio returns the balance and transactions of the session user.
func (c *Client) Portfolio(ctx context.Context, session *backendDomain.Session) (*backendDomain.Portfolio, error) {
	response, err := c.expectSuccess(c.Send(ctx, backendDomain.RoutePortfolio, http.MethodGet, nil, session))
	if err != nil {
		return nil, err
	}

	var portfolio backendDomain.Portfolio
	if err := response.DecodeData(&portfolio); err != nil {
		return nil, fmt.Errorf("%w: %v", backendDomain.ErrInvalidResponse, err)
	}
	return &portfolio, nil
}

// Database returns the raw user database dump of the session user.
func (c *Client) Database(ctx context.Context, session *backendDomain.Session) (json.RawMessage, error) {
	response, err := c.expectSuccess(c.Send(ctx, backendDomain.RouteDatabase, http.MethodGet, nil, session))
	if err != nil {
		return nil, err
	}
	return response.Data, nil
}

func (c *Client) expectSuccess(
	response *backendDomain.Response,
	err error,
) (*backendDomain.Response, error) {
	if err != nil {
		return nil, err
	}
	if !response.Success {
		return nil, fmt.Errorf("%w: %s", backendDomain.ErrRequestRejected, response.Error)
	}
	return response, nil
}

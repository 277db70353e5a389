package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	backendDomain "github.com/stockdesk/frontend/internal/backend/domain"
	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	customValidation "github.com/stockdesk/frontend/internal/validation"
)

// BackendSender performs one backend call.
type BackendSender interface {
	Send(
		ctx context.Context,
		route backendDomain.Route,
		method string,
		params envelopeDomain.Fields,
		session *backendDomain.Session,
	) (*backendDomain.Response, error)
}

// SendInput is the parsed form of the send command's flags.
type SendInput struct {
	Route    string
	Method   string
	Params   []string
	UUID     string
	Password string
}

// Validate checks the flags before anything is encoded.
func (i SendInput) Validate() error {
	err := validation.ValidateStruct(&i,
		validation.Field(&i.Route, validation.Required),
		validation.Field(&i.Method, validation.Required),
		validation.Field(&i.Params, validation.Each(customValidation.KeyValue)),
	)
	return customValidation.WrapValidationError(err)
}

// fields turns the key=value params into Fields in flag order.
func (i SendInput) fields() envelopeDomain.Fields {
	fields := envelopeDomain.Fields{}
	for _, param := range i.Params {
		key, value, _ := strings.Cut(param, "=")
		fields.Set(key, value)
	}
	return fields
}

// session returns the credentials given on the command line, or nil.
func (i SendInput) session() *backendDomain.Session {
	if i.UUID == "" && i.Password == "" {
		return nil
	}
	return &backendDomain.Session{UUID: i.UUID, Password: i.Password}
}

// RunSend performs one backend call and prints the JSON response.
// Parameter values are sent as text and encoded before they leave the process.
func RunSend(
	ctx context.Context,
	sender BackendSender,
	logger *slog.Logger,
	writer io.Writer,
	input SendInput,
) error {
	if err := input.Validate(); err != nil {
		return err
	}

	route := backendDomain.Route(strings.Trim(input.Route, "/"))
	logger.Debug("sending backend request",
		slog.String("route", string(route)),
		slog.String("method", input.Method),
		slog.Int("params", len(input.Params)),
	)

	response, err := sender.Send(ctx, route, input.Method, input.fields(), input.session())
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}

	return writeJSON(writer, response)
}

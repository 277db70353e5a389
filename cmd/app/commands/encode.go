package commands

import (
	"context"
	"fmt"
	"io"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	envelopeUseCase "github.com/stockdesk/frontend/internal/envelope/usecase"
)

// RunEncode prints the envelope of value, or of jsonObject when that is set.
// Exactly one of the two must be given; valueSet tells an empty --value apart
// from a missing one. JSON objects keep their key order.
func RunEncode(
	ctx context.Context,
	useCase envelopeUseCase.EnvelopeUseCase,
	writer io.Writer,
	value string,
	valueSet bool,
	jsonObject string,
) error {
	if valueSet == (jsonObject != "") {
		return fmt.Errorf("exactly one of --value or --json is required")
	}

	var input any = value
	if jsonObject != "" {
		fields, err := envelopeDomain.ParseFields([]byte(jsonObject))
		if err != nil {
			return err
		}
		input = fields
	}

	envelope, err := useCase.Encode(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	_, err = fmt.Fprintln(writer, envelope)
	return err
}

// RunDecode prints the text recovered from envelope.
func RunDecode(
	ctx context.Context,
	useCase envelopeUseCase.EnvelopeUseCase,
	writer io.Writer,
	envelope string,
) error {
	text, err := useCase.DecodeText(ctx, envelope)
	if err != nil {
		return fmt.Errorf("failed to decode: %w", err)
	}

	_, err = fmt.Fprintln(writer, text)
	return err
}

package commands

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	envelopeDomain "github.com/stockdesk/frontend/internal/envelope/domain"
	envelopeService "github.com/stockdesk/frontend/internal/envelope/service"
)

// RunCreateKey generates a random envelope key and prints it as environment
// variables. With kmsKeyURI set the key is wrapped by the KMS and the
// ciphertext is printed instead; the server unwraps it at startup.
//
// Key material is zeroed after it has been written.
//
// Security: the plain form must only ever be shared with the backend service.
// Never use the localsecrets provider in production.
func RunCreateKey(
	ctx context.Context,
	keyLoader envelopeService.KeyLoader,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if (kmsProvider == "") != (kmsKeyURI == "") {
		return fmt.Errorf(
			"--kms-provider and --kms-key-uri must be given together\n\nFor local development, use:\n  --kms-provider=localsecrets --kms-key-uri=\"base64key://<32-byte-base64-key>\"",
		)
	}

	raw := make([]byte, envelopeDomain.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate envelope key: %w", err)
	}
	defer envelopeDomain.Zero(raw)

	key, err := envelopeDomain.NewKey(raw)
	if err != nil {
		return err
	}
	defer key.Zero()

	if kmsKeyURI == "" {
		_, _ = fmt.Fprintln(writer, "# Envelope key (plain). Share it only with the backend service.")
		_, _ = fmt.Fprintf(writer, "ENVELOPE_KEY=\"%s\"\n", key.String())
		logger.Info("envelope key created", slog.Bool("kms", false))
		return nil
	}

	wrapped, err := keyLoader.Wrap(ctx, key, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to wrap envelope key: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Envelope key (KMS mode). The backend service needs the unwrapped key.")
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "ENVELOPE_KEY=\"%s\"\n", wrapped)

	logger.Info("envelope key created",
		slog.Bool("kms", true),
		slog.String("kms_provider", kmsProvider),
	)
	return nil
}

package billing

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/videovault/handler"
	pkgbilling "github.com/dmitrymomot/videovault/pkg/billing"
)

// SignatureHeader carries the provider's webhook signature.
const SignatureHeader = "Stripe-Signature"

const maxWebhookBytes = 1 << 20

var (
	errInvalidSignature = handler.NewHTTPError(http.StatusBadRequest, "invalid_signature", "Invalid signature")
	errInvalidPayload   = handler.NewHTTPError(http.StatusBadRequest, "invalid_payload", "Invalid payload")
	errWebhookFailed    = handler.NewHTTPError(http.StatusInternalServerError, "webhook_failed", "Webhook handler failed")
)

// WebhookRequest is the raw delivery. The payload must reach signature
// verification byte for byte.
type WebhookRequest struct {
	Payload   []byte
	Signature string
}

func bindWebhook() handler.Bind {
	return func(r *http.Request, v any) error {
		req, ok := v.(*WebhookRequest)
		if !ok {
			return fmt.Errorf("webhook binder: unexpected target %T", v)
		}
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes+1))
		if err != nil {
			return errInvalidPayload
		}
		if len(payload) > maxWebhookBytes {
			return errInvalidPayload
		}
		req.Payload = payload
		req.Signature = r.Header.Get(SignatureHeader)
		return nil
	}
}

type WebhookResponse struct {
	Received bool `json:"received"`
}

func (s *Service) webhook(ctx handler.Context, req WebhookRequest) handler.Response {
	if _, err := s.reconciler.HandleWebhook(ctx, req.Payload, req.Signature); err != nil {
		switch {
		case errors.Is(err, pkgbilling.ErrSignature):
			return handler.Error(errInvalidSignature)
		case errors.Is(err, pkgbilling.ErrMalformedEvent):
			return handler.Error(errInvalidPayload)
		default:
			return handler.Error(errors.Join(errWebhookFailed, err))
		}
	}

	return handler.JSON(WebhookResponse{Received: true})
}

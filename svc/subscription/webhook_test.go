package subscription_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/dmitrymomot/videovault/pkg/billing"
	"github.com/dmitrymomot/videovault/svc/account"
	"github.com/dmitrymomot/videovault/svc/subscription"
)

const whsec = "whsec_reconciler"

func stripeProvider(t *testing.T) *billing.StripeProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/subscriptions/sub_1":
			_, _ = w.Write([]byte(`{"id":"sub_1","object":"subscription","status":"active","customer":"cus_1"}`))
		case "/v1/subscriptions/sub_gone":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such subscription"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"not found"}}`))
		}
	}))
	t.Cleanup(srv.Close)

	b := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		MaxNetworkRetries: stripe.Int64(0),
	})

	p, err := billing.NewStripeProvider(billing.StripeConfig{
		SecretKey:     "sk_test_1",
		WebhookSecret: whsec,
		UnitAmount:    999,
	}, billing.WithBackends(&stripe.Backends{API: b, Connect: b, Uploads: b}))
	require.NoError(t, err)
	return p
}

func sign(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{Payload: payload, Secret: secret}).Header
}

func TestHandleWebhook_StripeEndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := account.NewMemoryStore()
	u := newUser(t, store, "a@example.com")
	r := subscription.NewReconciler(stripeProvider(t), store)

	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","mode":"subscription","subscription":"sub_1","customer":"cus_1","metadata":{"userId":"` + u.ID + `"}}}}`)

	t.Run("tampered body is rejected without changes", func(t *testing.T) {
		sig := sign(payload, whsec)
		tampered := []byte(string(payload[:len(payload)-1]) + ` }`)

		_, err := r.HandleWebhook(ctx, tampered, sig)
		assert.ErrorIs(t, err, billing.ErrSignature)
		assert.Nil(t, getUser(t, store, u.ID).SubscriptionID)
	})

	t.Run("wrong secret is rejected without changes", func(t *testing.T) {
		_, err := r.HandleWebhook(ctx, payload, sign(payload, "whsec_other"))
		assert.ErrorIs(t, err, billing.ErrSignature)
		assert.Nil(t, getUser(t, store, u.ID).SubscriptionID)
	})

	t.Run("valid delivery is applied", func(t *testing.T) {
		out, err := r.HandleWebhook(ctx, payload, sign(payload, whsec))
		require.NoError(t, err)
		assert.True(t, out.Applied)

		got := getUser(t, store, u.ID)
		require.NotNil(t, got.SubscriptionID)
		assert.Equal(t, "sub_1", *got.SubscriptionID)
		assert.True(t, got.HasActiveSubscription())
	})

	t.Run("checkout for a deleted subscription is acknowledged", func(t *testing.T) {
		other := newUser(t, store, "b@example.com")
		p := []byte(`{"id":"evt_3","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_2","object":"checkout.session","mode":"subscription","subscription":"sub_gone","metadata":{"userId":"` + other.ID + `"}}}}`)

		out, err := r.HandleWebhook(ctx, p, sign(p, whsec))
		require.NoError(t, err)
		assert.False(t, out.Applied)
		assert.Equal(t, subscription.ReasonSubscriptionNotFound, out.Reason)
		assert.Nil(t, getUser(t, store, other.ID).SubscriptionID)
	})

	t.Run("unknown event type is acknowledged", func(t *testing.T) {
		p := []byte(`{"id":"evt_2","object":"event","type":"invoice.created","data":{"object":{"id":"in_1"}}}`)
		out, err := r.HandleWebhook(ctx, p, sign(p, whsec))
		require.NoError(t, err)
		assert.False(t, out.Applied)
		assert.Equal(t, billing.KindUnrecognized, out.Kind)
	})
}

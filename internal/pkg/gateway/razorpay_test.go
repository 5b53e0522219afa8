package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartly/kartly_go_server/config"
)

const testWebhookSecret = "whsec_test"

func TestSignVerify(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		payload := []byte(`{"event":"payment.captured"}`)
		sig := SignPayload(payload, testWebhookSecret)

		assert.True(t, VerifySignature(payload, sig, testWebhookSecret))
	})

	t.Run("tampered payload", func(t *testing.T) {
		payload := []byte(`{"event":"payment.captured","amount":100}`)
		sig := SignPayload(payload, testWebhookSecret)

		tampered := []byte(`{"event":"payment.captured","amount":999}`)
		assert.False(t, VerifySignature(tampered, sig, testWebhookSecret))
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload := []byte(`{"event":"payment.captured"}`)
		sig := SignPayload(payload, testWebhookSecret)

		assert.False(t, VerifySignature(payload, sig, "other-secret"))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.False(t, VerifySignature([]byte("payload"), "", testWebhookSecret))
	})
}

func TestClient_VerifyWebhookSignature(t *testing.T) {
	client := NewClient(&config.GatewayConfig{WebhookSecret: testWebhookSecret})

	payload := []byte(`{"event":"order.paid"}`)
	sig := SignPayload(payload, testWebhookSecret)

	assert.True(t, client.VerifyWebhookSignature(payload, sig))
	assert.False(t, client.VerifyWebhookSignature(payload, "bad-signature"))
}

func TestClient_CreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_test", user)
		assert.Equal(t, "secret_test", pass)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(25200), body["amount"])
		assert.Equal(t, "INR", body["currency"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       "order_gw_abc",
			"amount":   25200,
			"currency": "INR",
			"receipt":  body["receipt"],
			"status":   "created",
		})
	}))
	defer server.Close()

	client := NewClient(&config.GatewayConfig{
		BaseURL:   server.URL,
		KeyID:     "key_test",
		KeySecret: "secret_test",
	})

	order, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		AmountMinor: 25200,
		Currency:    "INR",
		Receipt:     "order_1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_gw_abc", order.ID)
	assert.Equal(t, int64(25200), order.AmountMinor)
	assert.Equal(t, "order_1", order.Receipt)
}

func TestClient_CreateOrder_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewClient(&config.GatewayConfig{BaseURL: server.URL})

	_, err := client.CreateOrder(context.Background(), &CreateOrderRequest{
		AmountMinor: 100,
		Currency:    "INR",
		Receipt:     "order_2",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

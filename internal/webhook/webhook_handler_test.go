package webhook_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-payday/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSigningSecret = "whsec_test_secret"

type fakeWebhookService struct {
	reconcileFn func(ctx context.Context, ev webhook.ReconcileEvent) error
}

func (f *fakeWebhookService) Reconcile(ctx context.Context, ev webhook.ReconcileEvent) error {
	if f.reconcileFn != nil {
		return f.reconcileFn(ctx, ev)
	}
	return nil
}

// signPayload meniru skema signature provider: t=<ts>,v1=<hmac sha256
// dari "<ts>.<payload>">.
func signPayload(payload string, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + "." + payload))
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postEvent(t *testing.T, h *webhook.Handler, payload string, signature string) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/stripe/webhook", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("Stripe-Signature", signature)

	h.HandlePaymentEvent(c)
	return w
}

func succeededPayload(payrollID string, created int64) string {
	return fmt.Sprintf(`{
		"id": "evt_1",
		"api_version": "2022-11-15",
		"type": "payment_intent.succeeded",
		"created": %d,
		"data": {
			"object": {
				"id": "pi_123",
				"object": "payment_intent",
				"metadata": {"payroll_id": "%s"}
			}
		}
	}`, created, payrollID)
}

func TestWebhookHandler_ValidSignatureReconciles(t *testing.T) {
	payrollID := uuid.New().String()
	now := time.Now()

	var got webhook.ReconcileEvent
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			got = ev
			return nil
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	payload := succeededPayload(payrollID, now.Unix())
	w := postEvent(t, h, payload, signPayload(payload, testSigningSecret, now))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, webhook.EventPaymentSucceeded, got.Type)
	assert.Equal(t, payrollID, got.PayrollID)
	assert.Equal(t, "pi_123", got.Reference)
	assert.Equal(t, now.Unix(), got.OccurredAt.Unix())
}

// Akun provider bisa berada di API version yang berbeda dari yang
// di-pin SDK; selama signature valid, event tetap diproses.
func TestWebhookHandler_OtherAPIVersionStillReconciled(t *testing.T) {
	payrollID := uuid.New().String()
	now := time.Now()

	var got webhook.ReconcileEvent
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			got = ev
			return nil
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	payload := fmt.Sprintf(`{
		"id": "evt_5",
		"api_version": "2024-06-20",
		"type": "payment_intent.succeeded",
		"created": %d,
		"data": {"object": {"id": "pi_555", "object": "payment_intent", "metadata": {"payroll_id": "%s"}}}
	}`, now.Unix(), payrollID)
	w := postEvent(t, h, payload, signPayload(payload, testSigningSecret, now))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, payrollID, got.PayrollID)
}

func TestWebhookHandler_InvalidSignatureRejected(t *testing.T) {
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			t.Fatal("unverified payload must never reach the service")
			return nil
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	payload := succeededPayload(uuid.New().String(), time.Now().Unix())
	w := postEvent(t, h, payload, signPayload(payload, "whsec_wrong_secret", time.Now()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookHandler_MissingPayrollMetadataAcked(t *testing.T) {
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			t.Fatal("event without payroll_id must not be reconciled")
			return nil
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	now := time.Now()
	payload := fmt.Sprintf(`{
		"id": "evt_2",
		"api_version": "2022-11-15",
		"type": "payment_intent.succeeded",
		"created": %d,
		"data": {"object": {"id": "pi_999", "object": "payment_intent", "metadata": {}}}
	}`, now.Unix())
	w := postEvent(t, h, payload, signPayload(payload, testSigningSecret, now))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_UnhandledEventTypeAcked(t *testing.T) {
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			t.Fatal("unhandled event types are acked without reconciliation")
			return nil
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	now := time.Now()
	payload := fmt.Sprintf(`{
		"id": "evt_3",
		"api_version": "2022-11-15",
		"type": "customer.created",
		"created": %d,
		"data": {"object": {"id": "cus_1"}}
	}`, now.Unix())
	w := postEvent(t, h, payload, signPayload(payload, testSigningSecret, now))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhookHandler_ReconcileErrorReturns500(t *testing.T) {
	svc := &fakeWebhookService{
		reconcileFn: func(ctx context.Context, ev webhook.ReconcileEvent) error {
			return fmt.Errorf("connection reset")
		},
	}
	h := webhook.NewHandler(svc, testSigningSecret, nil)

	now := time.Now()
	payload := succeededPayload(uuid.New().String(), now.Unix())
	w := postEvent(t, h, payload, signPayload(payload, testSigningSecret, now))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWebhookHandler_SubscriptionEventAcked(t *testing.T) {
	h := webhook.NewHandler(&fakeWebhookService{}, testSigningSecret, nil)

	now := time.Now()
	payload := fmt.Sprintf(`{
		"id": "evt_4",
		"api_version": "2022-11-15",
		"type": "customer.subscription.updated",
		"created": %d,
		"data": {"object": {"id": "sub_1"}}
	}`, now.Unix())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/subscriptions/webhook", strings.NewReader(payload))
	c.Request.Header.Set("Stripe-Signature", signPayload(payload, testSigningSecret, now))

	h.HandleSubscriptionEvent(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

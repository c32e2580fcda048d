package webhook

import (
	"encoding/json"
	"net/http"
	"time"

	"go-payday/internal/shared/response"

	"github.com/gin-gonic/gin"
	stripe "github.com/stripe/stripe-go/v74"
	stripewebhook "github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
)

type Handler struct {
	service       Service
	signingSecret string
	logger        *zap.Logger
}

func NewHandler(service Service, signingSecret string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.L()
	}
	return &Handler{
		service:       service,
		signingSecret: signingSecret,
		logger:        logger.Named("webhook.handler"),
	}
}

func (h *Handler) verify(c *gin.Context) (stripe.Event, bool) {
	payload, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PAYLOAD", "unable to read webhook payload", nil)
		return stripe.Event{}, false
	}

	// IgnoreAPIVersionMismatch: akun provider boleh berada di API version
	// lain; signature-nya tetap wajib valid.
	event, err := stripewebhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		h.signingSecret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		h.logger.Warn("rejected webhook with invalid signature", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "INVALID_SIGNATURE", "webhook signature verification failed", nil)
		return stripe.Event{}, false
	}

	return event, true
}

// HandlePaymentEvent menerima webhook pembayaran provider. Selain
// signature yang tidak valid, semua kondisi di-ack 200 supaya provider
// tidak retry terus-menerus.
func (h *Handler) HandlePaymentEvent(c *gin.Context) {
	event, ok := h.verify(c)
	if !ok {
		return
	}

	occurredAt := time.Unix(event.Created, 0).UTC()

	var (
		payrollID      string
		reference      string
		failureMessage string
	)

	switch string(event.Type) {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			h.logger.Warn("unparseable payment intent payload", zap.Error(err))
			response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
			return
		}
		payrollID = intent.Metadata["payroll_id"]
		reference = intent.ID
		if intent.LastPaymentError != nil {
			failureMessage = intent.LastPaymentError.Msg
		}
	case EventChargeRefunded:
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			h.logger.Warn("unparseable charge payload", zap.Error(err))
			response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
			return
		}
		payrollID = charge.Metadata["payroll_id"]
		reference = charge.ID
	default:
		response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
		return
	}

	if payrollID == "" {
		h.logger.Warn("webhook event missing payroll_id metadata",
			zap.String("event_type", string(event.Type)),
			zap.String("reference", reference),
		)
		response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
		return
	}

	if err := h.service.Reconcile(c.Request.Context(), ReconcileEvent{
		Type:           string(event.Type),
		PayrollID:      payrollID,
		Reference:      reference,
		OccurredAt:     occurredAt,
		FailureMessage: failureMessage,
	}); err != nil {
		// Persistence error: biarkan provider retry delivery.
		h.logger.Error("webhook reconciliation failed",
			zap.String("event_type", string(event.Type)),
			zap.String("payroll_id", payrollID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to process webhook event", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
}

// HandleSubscriptionEvent memverifikasi signature lalu ack; event billing
// langganan belum diproses lebih lanjut.
func (h *Handler) HandleSubscriptionEvent(c *gin.Context) {
	event, ok := h.verify(c)
	if !ok {
		return
	}

	h.logger.Info("acknowledged subscription event", zap.String("event_type", string(event.Type)))
	response.Success(c, http.StatusOK, gin.H{"received": true}, nil)
}

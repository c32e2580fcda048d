package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payment"
	"go-payday/internal/payroll"
	"go-payday/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventChargeRefunded   = "charge.refunded"
)

// ReconcileEvent adalah bentuk netral event provider setelah signature
// diverifikasi dan payload diparse di handler.
type ReconcileEvent struct {
	Type           string
	PayrollID      string
	Reference      string
	OccurredAt     time.Time
	FailureMessage string
}

//go:generate mockgen -source=webhook_service.go -destination=mock/webhook_service_mock.go -package=mock
type Service interface {
	Reconcile(ctx context.Context, ev ReconcileEvent) error
}

type service struct {
	payrollRepo payroll.Repository
	paymentRepo payment.Repository
	outbox      kafka.OutboxRepository
	logger      *zap.Logger
}

func NewService(
	payrollRepo payroll.Repository,
	paymentRepo payment.Repository,
	outbox kafka.OutboxRepository,
	logger *zap.Logger,
) Service {
	if logger == nil {
		logger = zap.L()
	}
	return &service{
		payrollRepo: payrollRepo,
		paymentRepo: paymentRepo,
		outbox:      outbox,
		logger:      logger.Named("webhook.service"),
	}
}

// Reconcile menerapkan event provider ke status payroll. Redelivery dan
// event out-of-order diserap oleh guard last_payment_event_at di repo;
// keduanya berakhir sebagai no-op yang tetap di-ack 200.
func (s *service) Reconcile(ctx context.Context, ev ReconcileEvent) error {
	rid := contextutil.GetRequestID(ctx)

	p, err := s.payrollRepo.FindByID(ctx, ev.PayrollID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Payroll tidak dikenal: ack supaya provider berhenti retry.
			s.logger.Warn("webhook references unknown payroll",
				zap.String("request_id", rid),
				zap.String("payroll_id", ev.PayrollID),
				zap.String("event_type", ev.Type),
			)
			return nil
		}
		// Gangguan persistence: kembalikan error supaya handler membalas
		// 500 dan provider redeliver event-nya.
		return err
	}

	switch ev.Type {
	case EventPaymentSucceeded:
		return s.reconcileSucceeded(ctx, rid, p, ev)
	case EventPaymentFailed:
		return s.reconcileFailed(ctx, rid, p, ev)
	case EventChargeRefunded:
		// Refund tidak mengubah status payroll; cukup dicatat.
		s.logger.Info("charge refunded for payroll",
			zap.String("request_id", rid),
			zap.String("payroll_id", ev.PayrollID),
			zap.String("payment_reference", ev.Reference),
		)
		return nil
	default:
		s.logger.Info("ignoring unhandled webhook event",
			zap.String("request_id", rid),
			zap.String("event_type", ev.Type),
		)
		return nil
	}
}

func (s *service) reconcileSucceeded(ctx context.Context, rid string, p *payroll.Payroll, ev ReconcileEvent) error {
	ok, err := s.payrollRepo.ApplyPaymentSucceeded(ctx, ev.PayrollID, ev.Reference, ev.OccurredAt)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("skipping stale or duplicate success event",
			zap.String("request_id", rid),
			zap.String("payroll_id", ev.PayrollID),
			zap.String("payment_reference", ev.Reference),
		)
		return nil
	}

	s.recordAttempt(ctx, p, ev, payment.AttemptStatusCompleted)
	s.publish(ctx, p, ev, events.EventPayrollPaid, payment.AttemptStatusCompleted)

	s.logger.Info("payroll marked completed from webhook",
		zap.String("request_id", rid),
		zap.String("payroll_id", ev.PayrollID),
		zap.String("payment_reference", ev.Reference),
	)
	return nil
}

func (s *service) reconcileFailed(ctx context.Context, rid string, p *payroll.Payroll, ev ReconcileEvent) error {
	reason := ev.FailureMessage
	if reason == "" {
		reason = "payment failed at provider"
	}

	ok, err := s.payrollRepo.ApplyPaymentFailed(ctx, ev.PayrollID, reason, ev.OccurredAt)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Info("skipping stale or duplicate failure event",
			zap.String("request_id", rid),
			zap.String("payroll_id", ev.PayrollID),
		)
		return nil
	}

	s.recordAttempt(ctx, p, ev, payment.AttemptStatusFailed)
	s.publish(ctx, p, ev, events.EventPayrollPaymentFailed, payment.AttemptStatusFailed)

	s.logger.Warn("payroll marked failed from webhook",
		zap.String("request_id", rid),
		zap.String("payroll_id", ev.PayrollID),
		zap.String("reason", reason),
	)
	return nil
}

// recordAttempt mencatat attempt hasil rekonsiliasi. Delivery ganda yang
// lolos guard (reference sama) diserap lewat unique constraint.
func (s *service) recordAttempt(ctx context.Context, p *payroll.Payroll, ev ReconcileEvent, status string) {
	var completedAt *time.Time
	if status == payment.AttemptStatusCompleted {
		completedAt = &ev.OccurredAt
	}

	attempt := &payment.Payment{
		ID:               uuid.New(),
		PayrollID:        p.ID,
		OrganizationID:   p.OrganizationID,
		PaymentReference: ev.Reference,
		Amount:           p.TotalAmount,
		PaymentMethod:    "stripe",
		PaymentStatus:    status,
		ProcessedAt:      ev.OccurredAt,
		CompletedAt:      completedAt,
	}

	if err := s.paymentRepo.Create(ctx, attempt); err != nil {
		if payment.IsDuplicateReference(err) {
			return
		}
		s.logger.Error("failed to record webhook payment attempt",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("payroll_id", p.ID.String()),
			zap.String("payment_reference", ev.Reference),
			zap.Error(err),
		)
	}
}

func (s *service) publish(ctx context.Context, p *payroll.Payroll, ev ReconcileEvent, eventType string, status string) {
	if s.outbox == nil {
		return
	}

	payload, err := json.Marshal(events.PayrollPaymentEvent{
		EventType:        eventType,
		PayrollID:        p.ID.String(),
		OrganizationID:   p.OrganizationID.String(),
		PaymentReference: ev.Reference,
		PaymentMethod:    "stripe",
		Amount:           p.TotalAmount,
		Status:           status,
		OccurredAt:       ev.OccurredAt,
	})
	if err != nil {
		return
	}

	if err := s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payroll",
		AggregateID:   p.ID.String(),
		EventType:     eventType,
		Topic:         events.PayrollPaymentsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("failed to enqueue webhook outbox event",
			zap.String("request_id", contextutil.GetRequestID(ctx)),
			zap.String("payroll_id", p.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

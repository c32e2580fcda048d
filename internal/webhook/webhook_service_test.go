package webhook_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"go-payday/internal/messaging/kafka"
	"go-payday/internal/payment"
	paymenterrors "go-payday/internal/payment/errors"
	"go-payday/internal/payroll"
	"go-payday/internal/webhook"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePayrollRepository struct {
	findByIDFn              func(ctx context.Context, id string) (*payroll.Payroll, error)
	applyPaymentSucceededFn func(ctx context.Context, id string, reference string, eventAt time.Time) (bool, error)
	applyPaymentFailedFn    func(ctx context.Context, id string, reason string, eventAt time.Time) (bool, error)
}

func (f *fakePayrollRepository) WithTx(tx *sql.Tx) payroll.Repository { return f }

func (f *fakePayrollRepository) Create(ctx context.Context, p *payroll.Payroll) error { return nil }

func (f *fakePayrollRepository) FindAllByOrganization(ctx context.Context, organizationID string, filter payroll.GetPayrollsFilterRequest) ([]payroll.Payroll, error) {
	return nil, nil
}

func (f *fakePayrollRepository) FindByIDAndOrganization(ctx context.Context, organizationID string, id string) (*payroll.Payroll, error) {
	return nil, errors.New("not stubbed")
}

func (f *fakePayrollRepository) FindByID(ctx context.Context, id string) (*payroll.Payroll, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, errors.New("not stubbed")
}

func (f *fakePayrollRepository) EmployeeBelongsToOrganization(ctx context.Context, organizationID string, employeeID string) (bool, error) {
	return true, nil
}

func (f *fakePayrollRepository) HasOverlappingPeriod(ctx context.Context, organizationID string, employeeID string, startDate time.Time, endDate time.Time) (bool, error) {
	return false, nil
}

func (f *fakePayrollRepository) TransitionStatus(ctx context.Context, id string, from string, to string, reference *string, paidAt *time.Time) (bool, error) {
	return true, nil
}

func (f *fakePayrollRepository) ApplyPaymentSucceeded(ctx context.Context, id string, reference string, eventAt time.Time) (bool, error) {
	if f.applyPaymentSucceededFn != nil {
		return f.applyPaymentSucceededFn(ctx, id, reference, eventAt)
	}
	return true, nil
}

func (f *fakePayrollRepository) ApplyPaymentFailed(ctx context.Context, id string, reason string, eventAt time.Time) (bool, error) {
	if f.applyPaymentFailedFn != nil {
		return f.applyPaymentFailedFn(ctx, id, reason, eventAt)
	}
	return true, nil
}

func (f *fakePayrollRepository) DeletePending(ctx context.Context, organizationID string, id string) (bool, error) {
	return true, nil
}

type fakePaymentRepository struct {
	createFn func(ctx context.Context, p *payment.Payment) error
}

func (f *fakePaymentRepository) WithTx(tx *sql.Tx) payment.Repository { return f }

func (f *fakePaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakePaymentRepository) FindAllByOrganization(ctx context.Context, organizationID string) ([]payment.Payment, error) {
	return nil, nil
}

func (f *fakePaymentRepository) FindAllByEmployee(ctx context.Context, organizationID string, employeeID string) ([]payment.Payment, error) {
	return nil, nil
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type webhookServiceDeps struct {
	service     webhook.Service
	payrollRepo *fakePayrollRepository
	paymentRepo *fakePaymentRepository
	outbox      *fakeOutboxRepository
}

func setupWebhookServiceTest(t *testing.T) *webhookServiceDeps {
	t.Helper()

	deps := &webhookServiceDeps{
		payrollRepo: &fakePayrollRepository{},
		paymentRepo: &fakePaymentRepository{},
		outbox:      &fakeOutboxRepository{},
	}
	deps.service = webhook.NewService(deps.payrollRepo, deps.paymentRepo, deps.outbox, nil)
	return deps
}

func knownPayroll() *payroll.Payroll {
	return &payroll.Payroll{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		EmployeeID:     uuid.New(),
		TotalAmount:    305000,
		Status:         payroll.StatusPendingPayment,
	}
}

func TestWebhookService_Reconcile_Succeeded(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()
	eventAt := time.Now().UTC().Truncate(time.Second)

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		assert.Equal(t, p.ID.String(), id)
		return p, nil
	}

	var applied bool
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		applied = true
		assert.Equal(t, "pi_123", reference)
		assert.Equal(t, eventAt, at)
		return true, nil
	}

	var attempt *payment.Payment
	deps.paymentRepo.createFn = func(ctx context.Context, pay *payment.Payment) error {
		attempt = pay
		return nil
	}

	var event kafka.OutboxEvent
	deps.outbox.createFn = func(ctx context.Context, ev kafka.OutboxEvent) error {
		event = ev
		return nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  p.ID.String(),
		Reference:  "pi_123",
		OccurredAt: eventAt,
	})

	assert.NoError(t, err)
	assert.True(t, applied)
	if assert.NotNil(t, attempt) {
		assert.Equal(t, payment.AttemptStatusCompleted, attempt.PaymentStatus)
		assert.Equal(t, "pi_123", attempt.PaymentReference)
		assert.Nil(t, attempt.ProcessedBy)
	}
	assert.Equal(t, "payroll.paid", event.EventType)
}

func TestWebhookService_Reconcile_StaleEventIsNoOp(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		return false, nil
	}
	deps.paymentRepo.createFn = func(ctx context.Context, pay *payment.Payment) error {
		t.Fatal("no attempt should be recorded for a stale event")
		return nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  p.ID.String(),
		Reference:  "pi_old",
		OccurredAt: time.Now().Add(-time.Hour),
	})

	assert.NoError(t, err)
}

func TestWebhookService_Reconcile_Failed(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}

	var reason string
	deps.payrollRepo.applyPaymentFailedFn = func(ctx context.Context, id string, r string, at time.Time) (bool, error) {
		reason = r
		return true, nil
	}

	var attempt *payment.Payment
	deps.paymentRepo.createFn = func(ctx context.Context, pay *payment.Payment) error {
		attempt = pay
		return nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:           webhook.EventPaymentFailed,
		PayrollID:      p.ID.String(),
		Reference:      "pi_456",
		OccurredAt:     time.Now().UTC(),
		FailureMessage: "card declined",
	})

	assert.NoError(t, err)
	assert.Equal(t, "card declined", reason)
	if assert.NotNil(t, attempt) {
		assert.Equal(t, payment.AttemptStatusFailed, attempt.PaymentStatus)
	}
}

func TestWebhookService_Reconcile_FailedDefaultReason(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}

	var reason string
	deps.payrollRepo.applyPaymentFailedFn = func(ctx context.Context, id string, r string, at time.Time) (bool, error) {
		reason = r
		return true, nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentFailed,
		PayrollID:  p.ID.String(),
		OccurredAt: time.Now().UTC(),
	})

	assert.NoError(t, err)
	assert.Equal(t, "payment failed at provider", reason)
}

func TestWebhookService_Reconcile_UnknownPayrollAcked(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return nil, gorm.ErrRecordNotFound
	}
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		t.Fatal("no state change for unknown payroll")
		return false, nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  uuid.New().String(),
		Reference:  "pi_789",
		OccurredAt: time.Now().UTC(),
	})

	assert.NoError(t, err)
}

// Lookup payroll yang gagal karena gangguan DB harus mengembalikan error,
// bukan di-ack; event provider baru boleh dibuang kalau payroll-nya memang
// tidak dikenal.
func TestWebhookService_Reconcile_PayrollLookupOutageReturnsError(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)

	dbErr := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return nil, dbErr
	}
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		t.Fatal("no state change when the lookup itself failed")
		return false, nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  uuid.New().String(),
		Reference:  "pi_790",
		OccurredAt: time.Now().UTC(),
	})

	assert.ErrorIs(t, err, dbErr)
}

func TestWebhookService_Reconcile_RefundIsNoOp(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		t.Fatal("refund must not change payroll state")
		return false, nil
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventChargeRefunded,
		PayrollID:  p.ID.String(),
		Reference:  "ch_1",
		OccurredAt: time.Now().UTC(),
	})

	assert.NoError(t, err)
}

func TestWebhookService_Reconcile_PersistenceErrorPropagates(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}
	deps.payrollRepo.applyPaymentSucceededFn = func(ctx context.Context, id string, reference string, at time.Time) (bool, error) {
		return false, errors.New("connection reset")
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  p.ID.String(),
		Reference:  "pi_err",
		OccurredAt: time.Now().UTC(),
	})

	assert.Error(t, err)
}

func TestWebhookService_Reconcile_DuplicateAttemptSwallowed(t *testing.T) {
	ctx := context.Background()
	deps := setupWebhookServiceTest(t)
	p := knownPayroll()

	deps.payrollRepo.findByIDFn = func(ctx context.Context, id string) (*payroll.Payroll, error) {
		return p, nil
	}
	deps.paymentRepo.createFn = func(ctx context.Context, pay *payment.Payment) error {
		return paymenterrors.ErrDuplicateReference
	}

	err := deps.service.Reconcile(ctx, webhook.ReconcileEvent{
		Type:       webhook.EventPaymentSucceeded,
		PayrollID:  p.ID.String(),
		Reference:  "pi_dup",
		OccurredAt: time.Now().UTC(),
	})

	assert.NoError(t, err)
}

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-payday/internal/domain"
	"go-payday/internal/employee"
	"go-payday/internal/events"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/organization"
	paymenterrors "go-payday/internal/payment/errors"
	"go-payday/internal/payment/methods"
	"go-payday/internal/payroll"
	"go-payday/internal/shared/cache"
	"go-payday/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const historyCacheTTL = 30 * time.Second

var amountTolerance = decimal.NewFromFloat(0.01)

//go:generate mockgen -source=payment_service.go -destination=mock/payment_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, actor domain.Actor, payrollID string, req SubmitPaymentRequest) (SubmitPaymentResponse, error)
	SubmitCard(ctx context.Context, actor domain.Actor, req CardPaymentRequest) (SubmitPaymentResponse, error)
	SubmitBank(ctx context.Context, actor domain.Actor, req BankPaymentRequest) (SubmitPaymentResponse, error)
	History(ctx context.Context, actor domain.Actor) ([]PaymentResponse, error)
}

type service struct {
	repo         Repository
	payrollRepo  payroll.Repository
	employeeRepo employee.Repository
	orgService   organization.Service
	outbox       kafka.OutboxRepository
	registry     methods.Registry
	cache        cache.Cache

	// true bila STRIPE_SECRET_KEY tersedia di server
	stripeConfigured bool

	logger *zap.Logger
}

type ServiceConfig struct {
	Repo             Repository
	PayrollRepo      payroll.Repository
	EmployeeRepo     employee.Repository
	OrgService       organization.Service
	Outbox           kafka.OutboxRepository
	Registry         methods.Registry
	Cache            cache.Cache
	StripeConfigured bool
	Logger           *zap.Logger
}

func NewService(cfg ServiceConfig) Service {
	l := cfg.Logger
	if l == nil {
		l = zap.L()
	}
	registry := cfg.Registry
	if registry == nil {
		registry = methods.NewRegistry()
	}
	return &service{
		repo:             cfg.Repo,
		payrollRepo:      cfg.PayrollRepo,
		employeeRepo:     cfg.EmployeeRepo,
		orgService:       cfg.OrgService,
		outbox:           cfg.Outbox,
		registry:         registry,
		cache:            cfg.Cache,
		stripeConfigured: cfg.StripeConfigured,
		logger:           l.Named("payment.service"),
	}
}

// Submit adalah jalur proceed-to-payment: amount diambil langsung dari
// record payroll sehingga pengecekan amount terpenuhi secara struktural.
func (s *service) Submit(
	ctx context.Context,
	actor domain.Actor,
	payrollID string,
	req SubmitPaymentRequest,
) (SubmitPaymentResponse, error) {
	return s.submit(ctx, actor, payrollID, req, nil)
}

func (s *service) SubmitCard(
	ctx context.Context,
	actor domain.Actor,
	req CardPaymentRequest,
) (SubmitPaymentResponse, error) {
	return s.submit(ctx, actor, req.PayrollID, SubmitPaymentRequest{
		PaymentMethod: string(methods.MethodCard),
		CardNumber:    req.CardNumber,
		CardHolder:    req.CardHolder,
		CardExpiry:    req.CardExpiry,
		CardCVV:       req.CardCVV,
	}, &req.Amount)
}

func (s *service) SubmitBank(
	ctx context.Context,
	actor domain.Actor,
	req BankPaymentRequest,
) (SubmitPaymentResponse, error) {
	return s.submit(ctx, actor, req.PayrollID, SubmitPaymentRequest{
		PaymentMethod: string(methods.MethodBankTransfer),
		BankReference: req.BankReference,
	}, &req.Amount)
}

// submit menjalankan precondition sesuai urutan kontrak (role, keberadaan
// payroll dalam scope, status pending, kecocokan amount), dispatch handler,
// lalu transisi status lewat satu conditional update.
func (s *service) submit(
	ctx context.Context,
	actor domain.Actor,
	payrollID string,
	req SubmitPaymentRequest,
	assertedAmount *decimal.Decimal,
) (SubmitPaymentResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	// 1. Role check
	if !actor.IsPaymentAdmin() {
		return SubmitPaymentResponse{}, paymenterrors.ErrNotAuthorized
	}

	// 2. Payroll harus ada dan dalam scope organisasi actor.
	// Cross-org admin menerima not found, bukan forbidden, agar
	// keberadaan payroll organisasi lain tidak bocor.
	p, err := s.loadPayroll(ctx, actor, payrollID)
	if err != nil {
		return SubmitPaymentResponse{}, err
	}

	// 3. Hanya payroll pending yang eligible
	if p.Status != payroll.StatusPending {
		return SubmitPaymentResponse{}, paymenterrors.ErrPayrollNotPayable
	}

	// 4. Amount assertion dari caller harus cocok dengan total payroll.
	// Perbandingan pakai decimal, bukan float equality.
	if assertedAmount != nil {
		total := decimal.NewFromInt(p.TotalAmount).Div(decimal.NewFromInt(100))
		if assertedAmount.Sub(total).Abs().GreaterThan(amountTolerance) {
			return SubmitPaymentResponse{}, paymenterrors.ErrAmountMismatch
		}
	}

	method, ok := methods.ParseMethod(req.PaymentMethod)
	if !ok {
		return SubmitPaymentResponse{}, paymenterrors.ErrUnsupportedMethod
	}

	handler, ok := s.registry.Get(method)
	if !ok {
		return SubmitPaymentResponse{}, paymenterrors.ErrUnsupportedMethod
	}

	input, err := s.buildHandlerInput(ctx, p, method, req)
	if err != nil {
		return SubmitPaymentResponse{}, err
	}

	// Dispatch. Error handler dikembalikan apa adanya; state payroll
	// tidak tersentuh.
	result, err := handler.Execute(ctx, input)
	if err != nil {
		return SubmitPaymentResponse{}, err
	}

	targetStatus := payroll.StatusCompleted
	attemptStatus := AttemptStatusCompleted
	var paidAt *time.Time
	now := time.Now().UTC()
	if result.Async {
		targetStatus = payroll.StatusPendingPayment
		attemptStatus = AttemptStatusPending
	} else {
		paidAt = &now
	}

	// Conditional update: hanya menang dari status pending. Submit
	// paralel yang kalah menerima InvalidState, bukan double payment.
	ok, err = s.payrollRepo.TransitionStatus(ctx, payrollID, payroll.StatusPending, targetStatus, &result.Reference, paidAt)
	if err != nil {
		s.logger.Error("payment state transition write failed",
			zap.String("request_id", rid),
			zap.String("payroll_id", payrollID),
			zap.String("payment_reference", result.Reference),
			zap.Error(err),
		)
		return SubmitPaymentResponse{}, paymenterrors.ErrPaymentStateWrite
	}
	if !ok {
		return SubmitPaymentResponse{}, paymenterrors.ErrPayrollNotPayable
	}

	// Transisi sudah commit; pembukuan di bawah ini best-effort.
	s.recordAttempt(ctx, actor, p, method, result.Reference, attemptStatus, now, paidAt)

	message := "payment completed"
	if result.Async {
		message = "bank transfer initiated, awaiting confirmation"
	}

	s.logger.Info("payroll payment submitted",
		zap.String("request_id", rid),
		zap.String("payroll_id", payrollID),
		zap.String("payment_method", string(method)),
		zap.String("payment_reference", result.Reference),
		zap.String("status", targetStatus),
	)

	return SubmitPaymentResponse{
		Success:          true,
		Message:          message,
		PaymentReference: result.Reference,
	}, nil
}

func (s *service) loadPayroll(ctx context.Context, actor domain.Actor, payrollID string) (*payroll.Payroll, error) {
	var (
		p   *payroll.Payroll
		err error
	)
	if actor.Role == domain.RoleSuperAdmin {
		p, err = s.payrollRepo.FindByID(ctx, payrollID)
	} else {
		p, err = s.payrollRepo.FindByIDAndOrganization(ctx, actor.OrganizationID, payrollID)
	}
	if err != nil {
		// Akses lintas organisasi juga berakhir di sini sebagai not found;
		// keberadaan payroll milik org lain tidak boleh bocor.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, paymenterrors.ErrPayrollNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *service) buildHandlerInput(
	ctx context.Context,
	p *payroll.Payroll,
	method methods.Method,
	req SubmitPaymentRequest,
) (methods.Input, error) {
	input := methods.Input{
		PayrollID:   p.ID.String(),
		AmountCents: p.TotalAmount,
	}

	switch method {
	case methods.MethodCard:
		input.Card = &methods.CardPayload{
			Number: req.CardNumber,
			Holder: req.CardHolder,
			Expiry: req.CardExpiry,
			CVV:    req.CardCVV,
		}
	case methods.MethodBankTransfer:
		input.Bank = &methods.BankPayload{Reference: req.BankReference}
	case methods.MethodIBAN:
		empl, err := s.employeeRepo.FindByID(ctx, p.EmployeeID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return methods.Input{}, paymenterrors.ErrIBANNotConfigured
			}
			return methods.Input{}, err
		}
		input.StoredIBAN = empl.IBAN
	case methods.MethodStripe:
		input.StripeConfigured = s.stripeConfigured
		if s.stripeConfigured {
			enabled, err := s.orgService.StripeEnabled(ctx, p.OrganizationID.String())
			if err != nil {
				return methods.Input{}, err
			}
			input.StripeEnabled = enabled
		}
	}

	return input, nil
}

// recordAttempt menulis payment attempt + outbox event. Kegagalan di sini
// tidak pernah membatalkan transisi status yang sudah commit dan tidak
// pernah sampai ke caller.
func (s *service) recordAttempt(
	ctx context.Context,
	actor domain.Actor,
	p *payroll.Payroll,
	method methods.Method,
	reference string,
	attemptStatus string,
	processedAt time.Time,
	completedAt *time.Time,
) {
	processedBy, err := uuid.Parse(actor.UserID)
	if err != nil {
		s.logger.Warn("skip payment attempt record, invalid actor id",
			zap.String("payroll_id", p.ID.String()),
			zap.String("user_id", actor.UserID),
		)
		return
	}

	attempt := &Payment{
		ID:               uuid.New(),
		PayrollID:        p.ID,
		OrganizationID:   p.OrganizationID,
		PaymentReference: reference,
		Amount:           p.TotalAmount,
		PaymentMethod:    string(method),
		PaymentStatus:    attemptStatus,
		ProcessedBy:      &processedBy,
		ProcessedAt:      processedAt,
		CompletedAt:      completedAt,
	}

	bestEffort(ctx, s.logger, "create payment attempt", func() error {
		return s.repo.Create(ctx, attempt)
	},
		zap.String("payroll_id", p.ID.String()),
		zap.String("payment_reference", reference),
	)

	if s.outbox == nil {
		return
	}

	eventType := events.EventPayrollPaid
	if attemptStatus == AttemptStatusPending {
		eventType = events.EventPayrollPaymentPending
	}

	payload, err := json.Marshal(events.PayrollPaymentEvent{
		EventType:        eventType,
		PayrollID:        p.ID.String(),
		OrganizationID:   p.OrganizationID.String(),
		PaymentReference: reference,
		PaymentMethod:    string(method),
		Amount:           p.TotalAmount,
		Status:           attemptStatus,
		OccurredAt:       processedAt,
	})
	if err != nil {
		return
	}

	bestEffort(ctx, s.logger, "enqueue payment outbox event", func() error {
		return s.outbox.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     contextutil.GetRequestID(ctx),
			AggregateType: "payroll",
			AggregateID:   p.ID.String(),
			EventType:     eventType,
			Topic:         events.PayrollPaymentsTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		})
	},
		zap.String("payroll_id", p.ID.String()),
		zap.String("event_type", eventType),
	)
}

func (s *service) History(ctx context.Context, actor domain.Actor) ([]PaymentResponse, error) {
	fetch := func(ctx context.Context) ([]Payment, error) {
		if actor.IsPaymentAdmin() {
			return s.repo.FindAllByOrganization(ctx, actor.OrganizationID)
		}
		return s.repo.FindAllByEmployee(ctx, actor.OrganizationID, actor.EmployeeID)
	}

	if s.cache == nil {
		payments, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return mapToListResponse(payments), nil
	}

	key := "payments:history:" + actor.OrganizationID + ":member:" + actor.EmployeeID
	if actor.IsPaymentAdmin() {
		key = "payments:history:" + actor.OrganizationID + ":org"
	}

	raw, err := s.cache.GetOrFill(ctx, key, historyCacheTTL, func(ctx context.Context) ([]byte, error) {
		payments, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(mapToListResponse(payments))
	})
	if err != nil {
		return nil, err
	}

	var resp []PaymentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func mapToResponse(payment Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:               payment.ID.String(),
		PayrollID:        payment.PayrollID.String(),
		PaymentReference: payment.PaymentReference,
		Amount:           payment.Amount,
		PaymentMethod:    payment.PaymentMethod,
		PaymentStatus:    payment.PaymentStatus,
		ProcessedAt:      payment.ProcessedAt.Format(time.RFC3339),
	}
	if payment.ProcessedBy != nil {
		v := payment.ProcessedBy.String()
		resp.ProcessedBy = &v
	}
	if payment.CompletedAt != nil {
		v := payment.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

func mapToListResponse(payments []Payment) []PaymentResponse {
	resp := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		resp[i] = mapToResponse(payment)
	}
	return resp
}

package payroll

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	payrollerrors "go-payday/internal/payroll/errors"
	"go-payday/internal/shared/contextutil"
	"go-payday/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	StatusPending        = "pending"
	StatusPendingPayment = "pending_payment"
	StatusCompleted      = "completed"
	StatusFailed         = "failed"
)

var payPeriodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidStatusFilter menerima status kosong (tanpa filter) atau salah satu
// status state machine.
func ValidStatusFilter(status string) bool {
	switch status {
	case "", StatusPending, StatusPendingPayment, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, organizationID, actorID string, req CreatePayrollRequest) (PayrollResponse, error)
	GetAll(ctx context.Context, organizationID string, filter GetPayrollsFilterRequest) ([]PayrollResponse, error)
	GetByID(ctx context.Context, organizationID, id string) (PayrollResponse, error)
	Reopen(ctx context.Context, organizationID, actorID, id string) (PayrollResponse, error)
	Delete(ctx context.Context, organizationID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{db: db, repo: repo, counter: counterRepo, logger: l}
}

func (s *service) Create(
	ctx context.Context,
	organizationID, actorID string,
	req CreatePayrollRequest,
) (PayrollResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create payroll begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	organizationUUID, employeeUUID, createdByUUID, startDate, endDate, err := validateCreateRequest(organizationID, actorID, req)
	if err != nil {
		return PayrollResponse{}, err
	}

	belongs, err := qtx.EmployeeBelongsToOrganization(ctx, organizationID, req.EmployeeID)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !belongs {
		return PayrollResponse{}, payrollerrors.ErrEmployeeNotInOrganization
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, organizationID, req.EmployeeID, startDate, endDate)
	if err != nil {
		return PayrollResponse{}, err
	}
	if overlap {
		return PayrollResponse{}, payrollerrors.ErrPayrollOverlap
	}

	nextVal, err := s.counter.GetNextValue(ctx, organizationID, "payroll_code")
	if err != nil {
		s.logger.Error("create payroll generate code failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	// total_amount diturunkan sekali di sini dan immutable setelahnya;
	// pembayaran tidak pernah menghitung ulang.
	totalAmount := req.BaseSalary + req.Bonus + req.Reimbursement - req.Deductions

	payroll := &Payroll{
		ID:             uuid.New(),
		PayrollCode:    fmt.Sprintf("PAY-%06d", nextVal),
		OrganizationID: organizationUUID,
		EmployeeID:     employeeUUID,
		PayPeriod:      req.PayPeriod,
		StartDate:      startDate,
		EndDate:        endDate,
		BaseSalary:     req.BaseSalary,
		Bonus:          req.Bonus,
		Reimbursement:  req.Reimbursement,
		Deductions:     req.Deductions,
		TotalAmount:    totalAmount,
		Status:         StatusPending,
		CreatedBy:      createdByUUID,
	}
	if req.Notes != "" {
		payroll.Notes = &req.Notes
	}

	if err := qtx.Create(ctx, payroll); err != nil {
		s.logger.Error("create payroll persist failed", zap.String("request_id", rid), zap.Error(err))
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return PayrollResponse{}, err
	}

	return mapToResponse(*payroll), nil
}

func (s *service) GetAll(
	ctx context.Context,
	organizationID string,
	filter GetPayrollsFilterRequest,
) ([]PayrollResponse, error) {
	if !ValidStatusFilter(filter.Status) {
		return nil, payrollerrors.ErrInvalidStatusFilter
	}

	payrolls, err := s.repo.FindAllByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, err
	}

	return mapToListResponse(payrolls), nil
}

func (s *service) GetByID(
	ctx context.Context,
	organizationID, id string,
) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*payroll), nil
}

// Reopen mengembalikan payroll failed ke pending agar bisa dicoba bayar
// ulang. Transisi ini eksplisit, tidak ada auto-reset dari webhook.
func (s *service) Reopen(
	ctx context.Context,
	organizationID, actorID, id string,
) (PayrollResponse, error) {
	payroll, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}

	if payroll.Status != StatusFailed {
		return PayrollResponse{}, payrollerrors.ErrReopenOnlyFailed
	}

	ok, err := s.repo.TransitionStatus(ctx, id, StatusFailed, StatusPending, nil, nil)
	if err != nil {
		return PayrollResponse{}, err
	}
	if !ok {
		// Kalah balapan dengan writer lain; status sudah bukan failed.
		return PayrollResponse{}, payrollerrors.ErrReopenOnlyFailed
	}

	s.logger.Info("payroll reopened for retry",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("payroll_id", id),
		zap.String("actor_id", actorID),
	)

	payroll, err = s.repo.FindByIDAndOrganization(ctx, organizationID, id)
	if err != nil {
		return PayrollResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*payroll), nil
}

func (s *service) Delete(
	ctx context.Context,
	organizationID, id string,
) error {
	if _, err := s.repo.FindByIDAndOrganization(ctx, organizationID, id); err != nil {
		return mapRepositoryError(err)
	}

	ok, err := s.repo.DeletePending(ctx, organizationID, id)
	if err != nil {
		return err
	}
	if !ok {
		return payrollerrors.ErrDeleteOnlyPending
	}
	return nil
}

func validateCreateRequest(
	organizationID, actorID string,
	req CreatePayrollRequest,
) (uuid.UUID, uuid.UUID, uuid.UUID, time.Time, time.Time, error) {
	organizationUUID, err := uuid.Parse(organizationID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidOrganizationID
	}

	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidEmployeeID
	}

	createdByUUID, err := uuid.Parse(actorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidActorID
	}

	if !payPeriodPattern.MatchString(req.PayPeriod) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidPeriodFormat
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, err
	}

	if startDate.After(endDate) {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidDateRange
	}

	if req.BaseSalary < 0 || req.Bonus < 0 || req.Reimbursement < 0 || req.Deductions < 0 {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrInvalidMoneyValue
	}

	if req.BaseSalary+req.Bonus+req.Reimbursement-req.Deductions < 0 {
		return uuid.Nil, uuid.Nil, uuid.Nil, time.Time{}, time.Time{}, payrollerrors.ErrNegativeTotal
	}

	return organizationUUID, employeeUUID, createdByUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, payrollerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(payroll Payroll) PayrollResponse {
	resp := PayrollResponse{
		ID:               payroll.ID.String(),
		PayrollCode:      payroll.PayrollCode,
		OrganizationID:   payroll.OrganizationID.String(),
		EmployeeID:       payroll.EmployeeID.String(),
		PayPeriod:        payroll.PayPeriod,
		StartDate:        payroll.StartDate.Format("2006-01-02"),
		EndDate:          payroll.EndDate.Format("2006-01-02"),
		BaseSalary:       payroll.BaseSalary,
		Bonus:            payroll.Bonus,
		Reimbursement:    payroll.Reimbursement,
		Deductions:       payroll.Deductions,
		TotalAmount:      payroll.TotalAmount,
		Status:           payroll.Status,
		PaymentReference: payroll.PaymentReference,
		Notes:            payroll.Notes,
		CreatedBy:        payroll.CreatedBy.String(),
	}

	if payroll.PaidAt != nil {
		v := payroll.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}

	return resp
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, len(payrolls))
	for i, payroll := range payrolls {
		resp[i] = mapToResponse(payroll)
	}
	return resp
}

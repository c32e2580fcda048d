package payroll

import (
	"context"
	"database/sql"
	"time"

	"go-payday/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payroll *Payroll) error
	FindAllByOrganization(ctx context.Context, organizationID string, filter GetPayrollsFilterRequest) ([]Payroll, error)
	FindByIDAndOrganization(ctx context.Context, organizationID string, id string) (*Payroll, error)
	FindByID(ctx context.Context, id string) (*Payroll, error)
	EmployeeBelongsToOrganization(ctx context.Context, organizationID string, employeeID string) (bool, error)
	HasOverlappingPeriod(ctx context.Context, organizationID string, employeeID string, startDate time.Time, endDate time.Time) (bool, error)

	// TransitionStatus adalah satu-satunya jalur mutasi status dari
	// orchestrator: conditional UPDATE dengan guard status asal, supaya
	// dua submit paralel tidak pernah sama-sama menang.
	TransitionStatus(ctx context.Context, id string, from string, to string, reference *string, paidAt *time.Time) (bool, error)

	// ApplyPaymentSucceeded / ApplyPaymentFailed adalah jalur webhook:
	// CAS dengan guard urutan last_payment_event_at. Mengembalikan false
	// bila event stale/duplikat atau payroll sudah terminal completed.
	ApplyPaymentSucceeded(ctx context.Context, id string, reference string, eventAt time.Time) (bool, error)
	ApplyPaymentFailed(ctx context.Context, id string, reason string, eventAt time.Time) (bool, error)

	DeletePending(ctx context.Context, organizationID string, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, payroll *Payroll) error {
	return r.db.WithContext(ctx).Create(payroll).Error
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string, filter GetPayrollsFilterRequest) ([]Payroll, error) {
	db := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("start_date DESC")

	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var payrolls []Payroll
	err := db.Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByIDAndOrganization(ctx context.Context, organizationID string, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var payroll Payroll
	err := r.db.WithContext(ctx).First(&payroll, "id = ?", id).Error
	return &payroll, err
}

func (r *repository) EmployeeBelongsToOrganization(ctx context.Context, organizationID string, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Scopes(tenant.Scope(organizationID)).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) HasOverlappingPeriod(
	ctx context.Context,
	organizationID string,
	employeeID string,
	startDate time.Time,
	endDate time.Time,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Scopes(tenant.Scope(organizationID)).
		Where("employee_id = ?", employeeID).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) TransitionStatus(
	ctx context.Context,
	id string,
	from string,
	to string,
	reference *string,
	paidAt *time.Time,
) (bool, error) {
	updates := map[string]any{
		"status": to,
	}
	if reference != nil {
		updates["payment_reference"] = *reference
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}

	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)

	return res.RowsAffected > 0, res.Error
}

func (r *repository) ApplyPaymentSucceeded(
	ctx context.Context,
	id string,
	reference string,
	eventAt time.Time,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status <> ? AND (last_payment_event_at IS NULL OR last_payment_event_at < ?)", id, StatusCompleted, eventAt).
		Updates(map[string]any{
			"status":                StatusCompleted,
			"payment_reference":     reference,
			"paid_at":               eventAt,
			"last_payment_event_at": eventAt,
		})

	return res.RowsAffected > 0, res.Error
}

func (r *repository) ApplyPaymentFailed(
	ctx context.Context,
	id string,
	reason string,
	eventAt time.Time,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Payroll{}).
		Where("id = ? AND status <> ? AND (last_payment_event_at IS NULL OR last_payment_event_at < ?)", id, StatusCompleted, eventAt).
		Updates(map[string]any{
			"status":                StatusFailed,
			"notes":                 gorm.Expr("CONCAT(COALESCE(notes || E'\\n', ''), ?::text)", reason),
			"last_payment_event_at": eventAt,
		})

	return res.RowsAffected > 0, res.Error
}

func (r *repository) DeletePending(ctx context.Context, organizationID string, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("status = ?", StatusPending).
		Delete(&Payroll{}, "id = ?", id)

	return res.RowsAffected > 0, res.Error
}

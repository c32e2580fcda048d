package payment

import (
	"context"
	"database/sql"

	"go-payday/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payment_repo.go -destination=mock/payment_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, payment *Payment) error
	FindAllByOrganization(ctx context.Context, organizationID string) ([]Payment, error)
	FindAllByEmployee(ctx context.Context, organizationID string, employeeID string) ([]Payment, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, payment *Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("processed_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, organizationID string, employeeID string) ([]Payment, error) {
	var payments []Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN payrolls ON payrolls.id = payments.payroll_id").
		Where("payments.organization_id = ?", organizationID).
		Where("payrolls.employee_id = ?", employeeID).
		Order("payments.processed_at DESC").
		Find(&payments).Error
	return payments, err
}

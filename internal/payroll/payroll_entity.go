package payroll

import (
	"time"

	"github.com/google/uuid"
)

type Payroll struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollCode    string    `gorm:"column:payroll_code;type:varchar(20);not null;uniqueIndex:uq_payroll_code"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_org_status"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_employee_period,unique"`

	// Periode
	PayPeriod string    `gorm:"type:varchar(7);not null"` // YYYY-MM
	StartDate time.Time `gorm:"type:date;not null;index:idx_employee_period,unique"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_employee_period,unique"`

	// Financials disimpan dalam satuan terkecil (sen) untuk hindari floating error.
	// TotalAmount diturunkan sekali saat create dan tidak pernah dihitung ulang.
	BaseSalary    int64 `gorm:"type:bigint;not null;default:0"`
	Bonus         int64 `gorm:"type:bigint;not null;default:0"`
	Reimbursement int64 `gorm:"type:bigint;not null;default:0"`
	Deductions    int64 `gorm:"type:bigint;not null;default:0"`
	TotalAmount   int64 `gorm:"type:bigint;not null;default:0"`

	// State machine pembayaran
	Status           string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_org_status"`
	PaymentReference *string    `gorm:"type:varchar(64)"`
	PaidAt           *time.Time `gorm:"index"`

	// Timestamp event processor terakhir yang diterapkan; guard urutan
	// untuk webhook reconciliation.
	LastPaymentEventAt *time.Time

	Notes     *string   `gorm:"type:text"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Payroll) TableName() string {
	return "payrolls"
}

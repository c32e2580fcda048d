package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_employee_user"`
	FullName       string    `gorm:"column:full_name;type:varchar(120);not null"`
	Email          string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_employee_email"`

	// Rekening tujuan untuk pembayaran metode IBAN; nil berarti belum
	// dikonfigurasi dan metode IBAN akan ditolak.
	IBAN *string `gorm:"column:iban;type:varchar(34)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}

package payment

import (
	"time"

	"github.com/google/uuid"
)

const (
	AttemptStatusPending   = "pending"
	AttemptStatusCompleted = "completed"
	AttemptStatusFailed    = "failed"
)

// Payment adalah catatan satu attempt penyelesaian payroll. Append-only:
// attempt gagal tidak menghalangi attempt berikutnya selama payroll
// masih pending.
type Payment struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PayrollID        uuid.UUID `gorm:"type:uuid;not null;index"`
	OrganizationID   uuid.UUID `gorm:"type:uuid;not null;index"`
	PaymentReference string    `gorm:"type:varchar(64);not null;uniqueIndex:uq_payment_reference"`
	Amount           int64     `gorm:"type:bigint;not null"`
	PaymentMethod    string    `gorm:"type:varchar(20);not null"`
	PaymentStatus    string    `gorm:"type:varchar(20);not null;default:'pending'"`
	// nil untuk attempt yang ditulis jalur webhook
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	ProcessedAt time.Time  `gorm:"not null"`
	CompletedAt *time.Time
}

func (Payment) TableName() string {
	return "payments"
}

package events

import "time"

const PayrollPaymentsTopic = "hr.payroll.payments.v1"

const (
	EventPayrollPaid           = "payroll.paid"
	EventPayrollPaymentPending = "payroll.payment_pending"
	EventPayrollPaymentFailed  = "payroll.payment_failed"
)

// PayrollPaymentEvent dipublish lewat outbox setiap kali status payroll
// berpindah karena pembayaran (orchestrator maupun webhook).
type PayrollPaymentEvent struct {
	EventType        string    `json:"event_type"`
	PayrollID        string    `json:"payroll_id"`
	OrganizationID   string    `json:"organization_id"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	PaymentMethod    string    `json:"payment_method,omitempty"`
	Amount           int64     `json:"amount"`
	Status           string    `json:"status"`
	OccurredAt       time.Time `json:"occurred_at"`
}

package payment

import "github.com/shopspring/decimal"

// SubmitPaymentRequest adalah body POST /payrolls/:id/proceed-to-payment.
// Amount tidak dikirim: jumlah diambil langsung dari record payroll.
type SubmitPaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
	CardNumber    string `json:"card_number"`
	CardHolder    string `json:"card_holder"`
	CardExpiry    string `json:"card_expiry"`
	CardCVV       string `json:"card_cvv"`
	BankReference string `json:"bank_reference"`
}

// CardPaymentRequest adalah body endpoint standalone POST /payments/card;
// caller wajib menyebut payroll dan amount, dan amount harus cocok.
type CardPaymentRequest struct {
	PayrollID  string          `json:"payroll_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	CardNumber string          `json:"card_number" binding:"required"`
	CardHolder string          `json:"card_holder" binding:"required"`
	CardExpiry string          `json:"card_expiry" binding:"required"`
	CardCVV    string          `json:"card_cvv" binding:"required"`
}

type BankPaymentRequest struct {
	PayrollID     string          `json:"payroll_id" binding:"required,uuid"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	BankReference string          `json:"bank_reference"`
}

type SubmitPaymentResponse struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	PaymentReference string `json:"payment_reference"`
}

type PaymentResponse struct {
	ID               string  `json:"id"`
	PayrollID        string  `json:"payroll_id"`
	PaymentReference string  `json:"payment_reference"`
	Amount           int64   `json:"amount"`
	PaymentMethod    string  `json:"payment_method"`
	PaymentStatus    string  `json:"payment_status"`
	ProcessedBy      *string `json:"processed_by,omitempty"`
	ProcessedAt      string  `json:"processed_at"`
	CompletedAt      *string `json:"completed_at,omitempty"`
}

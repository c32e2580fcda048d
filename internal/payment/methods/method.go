package methods

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

type Method string

const (
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodIBAN         Method = "iban"
	MethodStripe       Method = "stripe"
	MethodRevolut      Method = "revolut"
	MethodPayPal       Method = "paypal"
)

// ParseMethod menerima nilai dari client; "bank" adalah alias historis
// untuk bank_transfer.
func ParseMethod(s string) (Method, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card":
		return MethodCard, true
	case "bank", "bank_transfer":
		return MethodBankTransfer, true
	case "iban":
		return MethodIBAN, true
	case "stripe":
		return MethodStripe, true
	case "revolut":
		return MethodRevolut, true
	case "paypal":
		return MethodPayPal, true
	default:
		return "", false
	}
}

type CardPayload struct {
	Number string
	Holder string
	Expiry string // MM/YY
	CVV    string
}

type BankPayload struct {
	Reference string
}

// Input berisi semua data yang sudah dikumpulkan orchestrator; handler
// tidak pernah menyentuh persistence sendiri.
type Input struct {
	PayrollID   string
	AmountCents int64

	Card *CardPayload
	Bank *BankPayload

	// Untuk metode iban: rekening tersimpan milik employee payroll ini
	StoredIBAN *string

	// Untuk metode stripe
	StripeEnabled    bool
	StripeConfigured bool
}

type Result struct {
	Reference string
	// Async true berarti settlement menunggu konfirmasi eksternal;
	// payroll masuk pending_payment, bukan completed.
	Async bool
}

//go:generate mockgen -source=method.go -destination=mock/method_mock.go -package=mock
type Handler interface {
	Method() Method
	Execute(ctx context.Context, in Input) (Result, error)
}

type Registry map[Method]Handler

func NewRegistry() Registry {
	handlers := []Handler{
		CardHandler{},
		BankTransferHandler{},
		IBANHandler{},
		StripeHandler{},
		WalletHandler{Kind: MethodRevolut},
		WalletHandler{Kind: MethodPayPal},
	}

	registry := make(Registry, len(handlers))
	for _, h := range handlers {
		registry[h.Method()] = h
	}
	return registry
}

func (r Registry) Get(m Method) (Handler, bool) {
	h, ok := r[m]
	return h, ok
}

var referencePrefixes = map[Method]string{
	MethodCard:         "CARD",
	MethodBankTransfer: "BANK",
	MethodIBAN:         "IBAN",
	MethodStripe:       "STRIPE",
	MethodRevolut:      "REVOLUT",
	MethodPayPal:       "PAYPAL",
}

// newReference menghasilkan referensi unik ber-prefix metode:
// <PREFIX>_<unix>_<random>_<suffix payroll id>.
func newReference(m Method, payrollID string) string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)

	suffix := strings.ReplaceAll(payrollID, "-", "")
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}

	return fmt.Sprintf("%s_%d_%s_%s",
		referencePrefixes[m],
		time.Now().Unix(),
		hex.EncodeToString(buf),
		suffix,
	)
}

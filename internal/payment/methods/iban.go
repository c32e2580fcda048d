package methods

import (
	"context"
	"regexp"
	"strings"

	paymenterrors "go-payday/internal/payment/errors"
)

var ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{4}[0-9]{7}([A-Z0-9]?){0,16}$`)

// NormalizeIBAN membuang spasi, meng-uppercase, lalu memvalidasi format.
// Dipakai juga oleh modul employee saat menyimpan rekening.
func NormalizeIBAN(raw string) (string, bool) {
	iban := strings.ToUpper(strings.ReplaceAll(raw, " ", ""))
	return iban, ibanPattern.MatchString(iban)
}

type IBANHandler struct{}

func (IBANHandler) Method() Method {
	return MethodIBAN
}

func (IBANHandler) Execute(ctx context.Context, in Input) (Result, error) {
	if in.StoredIBAN == nil || *in.StoredIBAN == "" {
		return Result{}, paymenterrors.ErrIBANNotConfigured
	}

	if _, ok := NormalizeIBAN(*in.StoredIBAN); !ok {
		return Result{}, paymenterrors.ErrIBANInvalid
	}

	return Result{Reference: newReference(MethodIBAN, in.PayrollID)}, nil
}

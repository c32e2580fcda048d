package methods

import (
	"context"
	"strconv"
	"strings"
	"time"

	paymenterrors "go-payday/internal/payment/errors"
)

type CardHandler struct{}

func (CardHandler) Method() Method {
	return MethodCard
}

func (CardHandler) Execute(ctx context.Context, in Input) (Result, error) {
	if in.Card == nil {
		return Result{}, paymenterrors.ErrCardDetailsRequired
	}

	number := strings.ReplaceAll(strings.TrimSpace(in.Card.Number), " ", "")
	if !validLuhn(number) {
		return Result{}, paymenterrors.ErrInvalidCardNumber
	}

	if !validExpiry(in.Card.Expiry, time.Now()) {
		return Result{}, paymenterrors.ErrInvalidCardExpiry
	}

	if !validCVV(in.Card.CVV) {
		return Result{}, paymenterrors.ErrInvalidCardCVV
	}

	// Tidak ada panggilan jaringan kartu sungguhan; processor disimulasikan.
	return Result{Reference: newReference(MethodCard, in.PayrollID)}, nil
}

// validLuhn: 13-19 digit dan lolos checksum Luhn.
func validLuhn(number string) bool {
	if len(number) < 13 || len(number) > 19 {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}

	return sum%10 == 0
}

// validExpiry: format MM/YY dan tidak lewat dari bulan berjalan.
func validExpiry(expiry string, now time.Time) bool {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year += 2000

	if year > now.Year() {
		return true
	}
	if year < now.Year() {
		return false
	}
	return time.Month(month) >= now.Month()
}

func validCVV(cvv string) bool {
	cvv = strings.TrimSpace(cvv)
	if len(cvv) < 3 || len(cvv) > 4 {
		return false
	}
	for i := 0; i < len(cvv); i++ {
		if cvv[i] < '0' || cvv[i] > '9' {
			return false
		}
	}
	return true
}

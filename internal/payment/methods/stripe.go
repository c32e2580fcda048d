package methods

import (
	"context"

	paymenterrors "go-payday/internal/payment/errors"
)

// StripeHandler fail closed: tanpa flag organisasi metode ini ditolak,
// tanpa secret server metode ini error 500.
type StripeHandler struct{}

func (StripeHandler) Method() Method {
	return MethodStripe
}

func (StripeHandler) Execute(ctx context.Context, in Input) (Result, error) {
	if !in.StripeConfigured {
		return Result{}, paymenterrors.ErrStripeNotConfigured
	}

	if !in.StripeEnabled {
		return Result{}, paymenterrors.ErrStripeNotEnabled
	}

	return Result{Reference: newReference(MethodStripe, in.PayrollID)}, nil
}

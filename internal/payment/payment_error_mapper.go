package payment

import (
	"errors"

	paymenterrors "go-payday/internal/payment/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsDuplicateReference mendeteksi pelanggaran unique payment_reference;
// di jalur webhook ini berarti attempt sudah tercatat (delivery ganda).
func IsDuplicateReference(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_payment_reference"
	}
	return errors.Is(err, paymenterrors.ErrDuplicateReference)
}

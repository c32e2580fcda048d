package paymenterrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"only admins can submit payroll payments",
		http.StatusForbidden,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)
	ErrPayrollNotPayable = apperror.New(
		apperror.CodeInvalidState,
		"payroll is not eligible for payment",
		http.StatusBadRequest,
	)
	ErrAmountMismatch = apperror.New(
		apperror.CodeAmountMismatch,
		"payment amount does not match payroll total",
		http.StatusBadRequest,
	)
	ErrUnsupportedMethod = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported payment method",
		http.StatusBadRequest,
	)
	ErrCardDetailsRequired = apperror.New(
		apperror.CodeInvalidInput,
		"card details are required for card payments",
		http.StatusBadRequest,
	)
	ErrInvalidCardNumber = apperror.New(
		apperror.CodeInvalidInput,
		"invalid card number",
		http.StatusBadRequest,
	)
	ErrInvalidCardExpiry = apperror.New(
		apperror.CodeInvalidInput,
		"invalid or expired card expiry, expected MM/YY",
		http.StatusBadRequest,
	)
	ErrInvalidCardCVV = apperror.New(
		apperror.CodeInvalidInput,
		"invalid card CVV",
		http.StatusBadRequest,
	)
	ErrIBANNotConfigured = apperror.New(
		apperror.CodeInvalidInput,
		"employee IBAN is not configured, please set it before using this method",
		http.StatusBadRequest,
	)
	ErrIBANInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"stored employee IBAN has an invalid format",
		http.StatusBadRequest,
	)
	ErrStripeNotEnabled = apperror.New(
		apperror.CodeInvalidInput,
		"stripe payments are not enabled for this organization",
		http.StatusBadRequest,
	)
	ErrStripeNotConfigured = apperror.New(
		apperror.CodeServiceUnavailable,
		"stripe is not configured on this server",
		http.StatusInternalServerError,
	)
	ErrPaymentStateWrite = apperror.New(
		apperror.CodeInternalError,
		"failed to record payment state transition",
		http.StatusInternalServerError,
	)
	ErrDuplicateReference = apperror.New(
		apperror.CodeConflict,
		"payment reference already recorded",
		http.StatusConflict,
	)
)

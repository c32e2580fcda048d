package employeeerrors

import (
	"net/http"

	"go-payday/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"employee with this email already exists",
		http.StatusConflict,
	)
	ErrInvalidIBANFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid IBAN format",
		http.StatusBadRequest,
	)
)

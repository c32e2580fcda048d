package employee

type UpdateIBANRequest struct {
	IBAN string `json:"iban" binding:"required"`
}

type EmployeeResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"full_name"`
	Email    string  `json:"email"`
	IBAN     *string `json:"iban,omitempty"`
}

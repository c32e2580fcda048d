package payroll

type CreatePayrollRequest struct {
	EmployeeID    string `json:"employee_id" binding:"required,uuid"`
	PayPeriod     string `json:"pay_period" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
	BaseSalary    int64  `json:"base_salary" binding:"required"`
	Bonus         int64  `json:"bonus"`
	Reimbursement int64  `json:"reimbursement"`
	Deductions    int64  `json:"deductions"`
	Notes         string `json:"notes"`
}

type GetPayrollsFilterRequest struct {
	Status string `form:"status"`
}

type PayrollResponse struct {
	ID               string  `json:"id"`
	PayrollCode      string  `json:"payroll_code"`
	OrganizationID   string  `json:"organization_id"`
	EmployeeID       string  `json:"employee_id"`
	PayPeriod        string  `json:"pay_period"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	BaseSalary       int64   `json:"base_salary"`
	Bonus            int64   `json:"bonus"`
	Reimbursement    int64   `json:"reimbursement"`
	Deductions       int64   `json:"deductions"`
	TotalAmount      int64   `json:"total_amount"`
	Status           string  `json:"status"`
	PaymentReference *string `json:"payment_reference,omitempty"`
	PaidAt           *string `json:"paid_at,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	CreatedBy        string  `json:"created_by"`
}

package payment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payday/internal/domain"
	"go-payday/internal/payment"
	paymenterrors "go-payday/internal/payment/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePaymentService struct {
	submitFn     func(ctx context.Context, actor domain.Actor, payrollID string, req payment.SubmitPaymentRequest) (payment.SubmitPaymentResponse, error)
	submitCardFn func(ctx context.Context, actor domain.Actor, req payment.CardPaymentRequest) (payment.SubmitPaymentResponse, error)
	submitBankFn func(ctx context.Context, actor domain.Actor, req payment.BankPaymentRequest) (payment.SubmitPaymentResponse, error)
	historyFn    func(ctx context.Context, actor domain.Actor) ([]payment.PaymentResponse, error)
}

func (f *fakePaymentService) Submit(ctx context.Context, actor domain.Actor, payrollID string, req payment.SubmitPaymentRequest) (payment.SubmitPaymentResponse, error) {
	return f.submitFn(ctx, actor, payrollID, req)
}

func (f *fakePaymentService) SubmitCard(ctx context.Context, actor domain.Actor, req payment.CardPaymentRequest) (payment.SubmitPaymentResponse, error) {
	return f.submitCardFn(ctx, actor, req)
}

func (f *fakePaymentService) SubmitBank(ctx context.Context, actor domain.Actor, req payment.BankPaymentRequest) (payment.SubmitPaymentResponse, error) {
	return f.submitBankFn(ctx, actor, req)
}

func (f *fakePaymentService) History(ctx context.Context, actor domain.Actor) ([]payment.PaymentResponse, error) {
	return f.historyFn(ctx, actor)
}

func authedContext(w *httptest.ResponseRecorder, role string) (*gin.Context, string) {
	c, _ := gin.CreateTestContext(w)
	organizationID := uuid.New().String()
	c.Set("user_id", uuid.New().String())
	c.Set("employee_id", uuid.New().String())
	c.Set("organization_id", organizationID)
	c.Set("role", role)
	return c, organizationID
}

func TestPaymentHandler_ProceedToPayment(t *testing.T) {
	payrollID := uuid.New().String()

	svc := &fakePaymentService{
		submitFn: func(ctx context.Context, actor domain.Actor, pid string, req payment.SubmitPaymentRequest) (payment.SubmitPaymentResponse, error) {
			assert.Equal(t, payrollID, pid)
			assert.Equal(t, domain.RoleAdmin, actor.Role)
			assert.Equal(t, "card", req.PaymentMethod)
			return payment.SubmitPaymentResponse{Success: true, Message: "payment completed", PaymentReference: "CARD_1"}, nil
		},
	}

	h := payment.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := authedContext(w, domain.RoleAdmin)

	body := `{"payment_method":"card","card_number":"4111111111111111","card_holder":"Jane Roe","card_expiry":"12/30","card_cvv":"123"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/"+payrollID+"/proceed-to-payment", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = []gin.Param{{Key: "id", Value: payrollID}}

	h.ProceedToPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp payment.SubmitPaymentResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, "CARD_1", resp.PaymentReference)
}

func TestPaymentHandler_ProceedToPayment_ErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"forbidden role", paymenterrors.ErrNotAuthorized, http.StatusForbidden, "FORBIDDEN"},
		{"payroll missing", paymenterrors.ErrPayrollNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"not payable", paymenterrors.ErrPayrollNotPayable, http.StatusBadRequest, "INVALID_STATE"},
		{"amount mismatch", paymenterrors.ErrAmountMismatch, http.StatusBadRequest, "AMOUNT_MISMATCH"},
		{"state write failure", paymenterrors.ErrPaymentStateWrite, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"stripe secret missing", paymenterrors.ErrStripeNotConfigured, http.StatusInternalServerError, "SERVICE_UNAVAILABLE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakePaymentService{
				submitFn: func(ctx context.Context, actor domain.Actor, pid string, req payment.SubmitPaymentRequest) (payment.SubmitPaymentResponse, error) {
					return payment.SubmitPaymentResponse{}, tc.serviceErr
				},
			}

			h := payment.NewHandler(svc)
			w := httptest.NewRecorder()
			c, _ := authedContext(w, domain.RoleAdmin)

			payrollID := uuid.New().String()
			c.Request = httptest.NewRequest(http.MethodPost, "/payrolls/"+payrollID+"/proceed-to-payment", strings.NewReader(`{"payment_method":"card"}`))
			c.Request.Header.Set("Content-Type", "application/json")
			c.Params = []gin.Param{{Key: "id", Value: payrollID}}

			h.ProceedToPayment(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			env := mustDecodeEnvelope(t, w.Body.Bytes())
			assert.False(t, env.Ok)
			assert.Equal(t, tc.wantCode, env.Error.Code)
		})
	}
}

func TestPaymentHandler_SubmitCard_RequiresAmount(t *testing.T) {
	svc := &fakePaymentService{}

	h := payment.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := authedContext(w, domain.RoleAdmin)

	body := `{"payroll_id":"` + uuid.New().String() + `","card_number":"4111111111111111"}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payments/card", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SubmitCard(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestPaymentHandler_SubmitBank(t *testing.T) {
	payrollID := uuid.New().String()

	svc := &fakePaymentService{
		submitBankFn: func(ctx context.Context, actor domain.Actor, req payment.BankPaymentRequest) (payment.SubmitPaymentResponse, error) {
			assert.Equal(t, payrollID, req.PayrollID)
			assert.Equal(t, "2500.00", req.Amount.StringFixed(2))
			return payment.SubmitPaymentResponse{Success: true, Message: "bank transfer initiated, awaiting confirmation", PaymentReference: "BANK_1"}, nil
		},
	}

	h := payment.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := authedContext(w, domain.RoleAdmin)

	body := `{"payroll_id":"` + payrollID + `","amount":2500.00}`
	c.Request = httptest.NewRequest(http.MethodPost, "/payments/bank", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.SubmitBank(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)
}

func TestPaymentHandler_History(t *testing.T) {
	svc := &fakePaymentService{
		historyFn: func(ctx context.Context, actor domain.Actor) ([]payment.PaymentResponse, error) {
			return []payment.PaymentResponse{{ID: uuid.New().String(), PaymentReference: "CARD_9"}}, nil
		},
	}

	h := payment.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := authedContext(w, domain.RoleOrgMember)
	c.Request = httptest.NewRequest(http.MethodGet, "/payments/history", nil)

	h.History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := mustDecodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var resp []payment.PaymentResponse
	assert.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Len(t, resp, 1)
}

package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/AlexObbs/shopp/controllers"
	"github.com/AlexObbs/shopp/models"
	"github.com/AlexObbs/shopp/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock CheckoutService ---

type mockCheckoutService struct {
	createFn func(ctx context.Context, req *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *services.ServiceError)
	verifyFn func(ctx context.Context, sessionID string) (*models.PaymentOutcome, *services.ServiceError)
}

func (m *mockCheckoutService) CreateBookingCheckout(ctx context.Context, req *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *services.ServiceError) {
	return m.createFn(ctx, req)
}

func (m *mockCheckoutService) VerifyBookingPayment(ctx context.Context, sessionID string) (*models.PaymentOutcome, *services.ServiceError) {
	return m.verifyFn(ctx, sessionID)
}

func setupCheckoutRouter(svc services.CheckoutService) *gin.Engine {
	r := gin.New()
	cc := &controllers.CheckoutController{Service: svc, Logger: zap.NewNop()}
	r.POST("/create-checkout-session", cc.CreateCheckoutSession)
	r.POST("/verify-payment", cc.VerifyPayment)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCheckoutSessionEndpoint_Success(t *testing.T) {
	svc := &mockCheckoutService{
		createFn: func(_ context.Context, req *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *services.ServiceError) {
			assert.Equal(t, "u1", req.UserID)
			return &models.BookingCheckoutResponse{ID: "cs_1", Timestamp: 1700000000000, Currency: "usd"}, nil
		},
	}
	r := setupCheckoutRouter(svc)

	w := postJSON(r, "/create-checkout-session", `{"userId":"u1","amount":49.99,"currency":"USD"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.BookingCheckoutResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_1", resp.ID)
	assert.Equal(t, "usd", resp.Currency)
}

func TestCreateCheckoutSessionEndpoint_ValidationCodes(t *testing.T) {
	tests := []struct {
		name string
		serr *services.ServiceError
		code string
	}{
		{"missing user", &services.ServiceError{StatusCode: 400, Code: services.CodeMissingUserID, Message: "User ID is required"}, services.CodeMissingUserID},
		{"free booking", &services.ServiceError{StatusCode: 400, Code: services.CodeFreeBooking, Message: "Free bookings do not require a checkout session"}, services.CodeFreeBooking},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCheckoutService{
				createFn: func(_ context.Context, _ *models.BookingCheckoutRequest) (*models.BookingCheckoutResponse, *services.ServiceError) {
					return nil, tt.serr
				},
			}
			r := setupCheckoutRouter(svc)

			w := postJSON(r, "/create-checkout-session", `{"amount": 1}`)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp["code"])
		})
	}
}

func TestVerifyPaymentEndpoint_MissingSessionID(t *testing.T) {
	svc := &mockCheckoutService{
		verifyFn: func(_ context.Context, _ string) (*models.PaymentOutcome, *services.ServiceError) {
			t.Fatal("service must not be called without a session id")
			return nil, nil
		},
	}
	r := setupCheckoutRouter(svc)

	w := postJSON(r, "/verify-payment", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyPaymentEndpoint_PaidOutcome(t *testing.T) {
	coupon := "SAVE20"
	svc := &mockCheckoutService{
		verifyFn: func(_ context.Context, sessionID string) (*models.PaymentOutcome, *services.ServiceError) {
			assert.Equal(t, "cs_1", sessionID)
			return &models.PaymentOutcome{
				Paid:           true,
				Amount:         80,
				OriginalAmount: 100,
				DiscountAmount: 20,
				FinalAmount:    80,
				CouponCode:     &coupon,
			}, nil
		},
	}
	r := setupCheckoutRouter(svc)

	w := postJSON(r, "/verify-payment", `{"sessionId":"cs_1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["paid"])
	assert.Equal(t, "SAVE20", resp["couponCode"])
}

func TestVerifyPaymentEndpoint_ProductionSanitizesUpstreamError(t *testing.T) {
	svc := &mockCheckoutService{
		verifyFn: func(_ context.Context, _ string) (*models.PaymentOutcome, *services.ServiceError) {
			return nil, &services.ServiceError{
				StatusCode: http.StatusInternalServerError,
				Code:       services.CodeUpstream,
				Message:    "stripe: secret key sk_live_123 rejected",
			}
		},
	}
	r := gin.New()
	cc := &controllers.CheckoutController{Service: svc, Logger: zap.NewNop(), Production: true}
	r.POST("/verify-payment", cc.VerifyPayment)

	w := postJSON(r, "/verify-payment", `{"sessionId":"cs_1"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "sk_live_123")
	assert.Contains(t, w.Body.String(), "Internal server error")
}

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

// --- Mock TipService ---

type mockTipService struct {
	createFn  func(ctx context.Context, req *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *services.ServiceError)
	verifyFn  func(ctx context.Context, sessionID string) (*models.TipVerifyResponse, *services.ServiceError)
	webhookFn func(ctx context.Context, payload []byte, sigHeader string) *services.ServiceError
}

func (m *mockTipService) CreateTipCheckout(ctx context.Context, req *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *services.ServiceError) {
	return m.createFn(ctx, req)
}

func (m *mockTipService) VerifyTipPayment(ctx context.Context, sessionID string) (*models.TipVerifyResponse, *services.ServiceError) {
	return m.verifyFn(ctx, sessionID)
}

func (m *mockTipService) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) *services.ServiceError {
	return m.webhookFn(ctx, payload, sigHeader)
}

func setupTipRouter(svc services.TipService) *gin.Engine {
	r := gin.New()
	tc := &controllers.TipController{Service: svc, Logger: zap.NewNop()}
	tip := r.Group("/api/tip")
	{
		tip.POST("/create-checkout-session", tc.CreateCheckoutSession)
		tip.GET("/verify-checkout-session", tc.VerifyCheckoutSession)
		tip.POST("/webhook", tc.StripeWebhook)
	}
	return r
}

func TestTipCreateCheckoutSession_Success(t *testing.T) {
	svc := &mockTipService{
		createFn: func(_ context.Context, req *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *services.ServiceError) {
			assert.Equal(t, models.RecipientTypeGuide, req.RecipientType)
			assert.Equal(t, "g1", req.RecipientID)
			return &models.TipCheckoutResponse{SessionID: "cs_tip_1"}, nil
		},
	}
	r := setupTipRouter(svc)

	w := postJSON(r, "/api/tip/create-checkout-session",
		`{"amount":10,"recipientType":"guide","recipientId":"g1","recipientName":"Alex"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.TipCheckoutResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cs_tip_1", resp.SessionID)
}

func TestTipCreateCheckoutSession_InvalidAmount(t *testing.T) {
	svc := &mockTipService{
		createFn: func(_ context.Context, _ *models.TipCheckoutRequest) (*models.TipCheckoutResponse, *services.ServiceError) {
			return nil, &services.ServiceError{
				StatusCode: http.StatusBadRequest,
				Code:       services.CodeInvalidAmount,
				Message:    "Tip amount must be greater than zero",
			}
		},
	}
	r := setupTipRouter(svc)

	w := postJSON(r, "/api/tip/create-checkout-session", `{"amount":0,"recipientType":"company"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.CodeInvalidAmount, resp["code"])
}

func TestTipVerifyCheckoutSession_MissingQueryParam(t *testing.T) {
	svc := &mockTipService{
		verifyFn: func(_ context.Context, _ string) (*models.TipVerifyResponse, *services.ServiceError) {
			t.Fatal("service must not be called without a session id")
			return nil, nil
		},
	}
	r := setupTipRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/tip/verify-checkout-session", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestTipVerifyCheckoutSession_Success(t *testing.T) {
	svc := &mockTipService{
		verifyFn: func(_ context.Context, sessionID string) (*models.TipVerifyResponse, *services.ServiceError) {
			assert.Equal(t, "cs_tip_1", sessionID)
			return &models.TipVerifyResponse{
				Success: true,
				Status:  "paid",
				Payment: &models.TipPayment{
					Amount:        10,
					Currency:      "gbp",
					RecipientType: models.RecipientTypeGuide,
					RecipientName: "Alex",
				},
			}, nil
		},
	}
	r := setupTipRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/tip/verify-checkout-session?session_id=cs_tip_1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.TipVerifyResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Alex", resp.Payment.RecipientName)
}

func TestTipVerifyCheckoutSession_NotFound(t *testing.T) {
	svc := &mockTipService{
		verifyFn: func(_ context.Context, _ string) (*models.TipVerifyResponse, *services.ServiceError) {
			return nil, &services.ServiceError{
				StatusCode: http.StatusNotFound,
				Code:       services.CodeSessionNotFound,
				Message:    "Checkout session not found",
			}
		},
	}
	r := setupTipRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/tip/verify-checkout-session?session_id=cs_missing", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, services.CodeSessionNotFound, resp["code"])
}

func TestStripeWebhook_PassesRawBodyAndSignature(t *testing.T) {
	var gotPayload []byte
	var gotSig string
	svc := &mockTipService{
		webhookFn: func(_ context.Context, payload []byte, sigHeader string) *services.ServiceError {
			gotPayload = payload
			gotSig = sigHeader
			return nil
		},
	}
	r := setupTipRouter(svc)

	body := `{"type":"checkout.session.completed"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/tip/webhook", bytes.NewBufferString(body))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, body, string(gotPayload))
	assert.Equal(t, "t=1,v1=abc", gotSig)
	assert.JSONEq(t, `{"received": true}`, w.Body.String())
}

func TestStripeWebhook_InvalidSignature(t *testing.T) {
	svc := &mockTipService{
		webhookFn: func(_ context.Context, _ []byte, _ string) *services.ServiceError {
			return &services.ServiceError{
				StatusCode: http.StatusBadRequest,
				Code:       services.CodeSignatureInvalid,
				Message:    "Webhook signature verification failed",
			}
		},
	}
	r := setupTipRouter(svc)

	w := postJSON(r, "/api/tip/webhook", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.CodeSignatureInvalid, resp["code"])
}

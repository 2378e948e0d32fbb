package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"venus/config"
	"venus/internal/auth"
	"venus/internal/domain"
	"venus/internal/middleware"
	"venus/internal/models"
	"venus/internal/service"
	"venus/pkg/geo"
	"venus/pkg/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testJWT = &config.JWTConfig{AccessSecret: "handler-secret", AccessExpiry: time.Hour, Issuer: "venus-test"}

type noProfiles struct{}

func (noProfiles) Upsert(p *models.Profile) (*models.Profile, error) {
	return p, nil
}

func (noProfiles) GetByUserID(string) (*models.Profile, error) {
	return nil, gorm.ErrRecordNotFound
}

func (noProfiles) PhoneTaken(string, string) (bool, error) {
	return false, nil
}

func (noProfiles) ListCandidates(domain.Gender, string) ([]models.Profile, error) {
	return nil, errors.New("should not be called")
}

func (noProfiles) UpdateLocation(string, string, bool) error {
	return gorm.ErrRecordNotFound
}

func (noProfiles) UpdatePreferences(string, geo.Preferences) error {
	return gorm.ErrRecordNotFound
}

type onePlan struct{}

func (onePlan) ListActive() ([]models.PaymentPlan, error) {
	p, _ := onePlan{}.GetByID("plan-1")
	return []models.PaymentPlan{*p}, nil
}

func (onePlan) GetByID(id string) (*models.PaymentPlan, error) {
	if id != "plan-1" {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.PaymentPlan{ID: "plan-1", Plan: domain.PlanMonthly, Amount: 500, Months: 1, Audit: models.NewAudit("seed")}, nil
}

type memPayments struct {
	mu   sync.Mutex
	rows map[string]models.Payment
}

func (m *memPayments) Create(p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	m.rows[p.ID] = *p
	return nil
}

func (m *memPayments) GetByID(id string) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (m *memPayments) ListByUserID(userID string) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Payment
	for _, p := range m.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPayments) UpdateByID(id string, fn func(*models.Payment) (bool, error)) (*models.Payment, error) {
	return m.update(func(p models.Payment) bool { return p.ID == id }, fn)
}

func (m *memPayments) UpdateByCorrelationID(checkoutID string, fn func(*models.Payment) (bool, error)) (*models.Payment, error) {
	return m.update(func(p models.Payment) bool {
		return p.CheckoutRequestID != nil && *p.CheckoutRequestID == checkoutID
	}, fn)
}

func (m *memPayments) update(match func(models.Payment) bool, fn func(*models.Payment) (bool, error)) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.rows {
		if !match(p) {
			continue
		}
		changed, err := fn(&p)
		if err != nil {
			return nil, err
		}
		if changed {
			m.rows[id] = p
		}
		return &p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type failingGateway struct{}

func (failingGateway) SendPush(context.Context, payment.PushRequest) (*payment.PushAck, error) {
	return nil, errors.New("daraja unreachable")
}

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(testJWT, userID, userID+"@example.com")
	require.NoError(t, err)
	return "Bearer " + token
}

func do(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMapWithoutProfileReturnsEmptyList(t *testing.T) {
	h := NewProfileHandler(service.NewProfileService(noProfiles{}, nil), service.NewDiscoveryService(noProfiles{}))
	r := gin.New()
	authed := r.Group("/", middleware.AuthRequired(testJWT))
	authed.GET("/profiles/map", h.Map)
	authed.PATCH("/profiles/location", h.UpdateLocation)
	authed.PUT("/profiles/preferences", h.UpdatePreferences)

	w := do(t, r, http.MethodGet, "/profiles/map", bearer(t, "u1"), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"map_profiles":[]}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/profiles/map", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPatch, "/profiles/location", bearer(t, "u1"), gin.H{"coordinates": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPatch, "/profiles/location", bearer(t, "u1"), gin.H{"coordinates": "1.5,36.8"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/profiles/preferences", bearer(t, "u1"), gin.H{"min_age": 30, "max_age": 20})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

type paymentAPI struct {
	router *gin.Engine
	store  *memPayments
}

func newPaymentAPI(gw payment.Gateway) *paymentAPI {
	store := &memPayments{rows: map[string]models.Payment{}}
	svc := service.NewPaymentService(store, onePlan{}, gw, nil, "https://venus.example/callback", time.Second)
	ph := NewPaymentHandler(svc)
	wh := NewPaymentWebhookHandler(svc)

	r := gin.New()
	r.GET("/payment-plans", ph.ListPlans)
	r.POST("/payments/callback", wh.Handle)
	authed := r.Group("/", middleware.AuthRequired(testJWT))
	authed.POST("/payments", ph.Create)
	authed.GET("/payments/:id", ph.Get)
	authed.PATCH("/payments/:id", ph.UpdateStatus)
	authed.POST("/payments/initiate-stk", ph.InitiateSTK)
	return &paymentAPI{router: r, store: store}
}

type stkResponse struct {
	Payment models.Payment      `json:"payment"`
	Push    service.PushOutcome `json:"push"`
}

func (a *paymentAPI) initiate(t *testing.T, userID string) stkResponse {
	t.Helper()
	w := do(t, a.router, http.MethodPost, "/payments/initiate-stk", bearer(t, userID), gin.H{"plan_id": "plan-1", "phone_number": "0712345678"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp stkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func stkCallback(checkoutID string, code int) gin.H {
	return gin.H{"Body": gin.H{"stkCallback": gin.H{
		"MerchantRequestID": "m-1",
		"CheckoutRequestID": checkoutID,
		"ResultCode":        code,
		"ResultDesc":        "done",
		"CallbackMetadata": gin.H{"Item": []gin.H{
			{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
		}},
	}}}
}

func TestPaymentCallbackStatuses(t *testing.T) {
	api := newPaymentAPI(payment.StubGateway{})
	resp := api.initiate(t, "u1")
	require.True(t, resp.Push.Sent)
	assert.Equal(t, domain.PaymentPushSent, resp.Payment.Status)

	cases := []struct {
		name string
		body interface{}
		want string
	}{
		{"applied", stkCallback(resp.Push.CheckoutRequestID, 0), "ok"},
		{"duplicate", stkCallback(resp.Push.CheckoutRequestID, 0), "ignored"},
		{"unknown checkout", stkCallback("ws_CO_missing", 0), "ignored"},
		{"malformed", "{not json", "error"},
		{"missing checkout id", gin.H{"Body": gin.H{"stkCallback": gin.H{"ResultCode": 0}}}, "error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, api.router, http.MethodPost, "/payments/callback", "", tc.body)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"status":"`+tc.want+`"}`, w.Body.String())
		})
	}

	stored, err := api.store.GetByID(resp.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentSucceeded, stored.Status)
	require.NotNil(t, stored.MpesaTransactionID)
	assert.Equal(t, "NLJ7RT61SV", *stored.MpesaTransactionID)
}

func TestInitiateSTKGatewayFailureStillCreates(t *testing.T) {
	api := newPaymentAPI(failingGateway{})
	resp := api.initiate(t, "u1")
	assert.False(t, resp.Push.Sent)
	assert.Contains(t, resp.Push.Error, "daraja unreachable")
	assert.Equal(t, domain.PaymentCreated, resp.Payment.Status)

	w := do(t, api.router, http.MethodPost, "/payments/initiate-stk", bearer(t, "u1"), gin.H{"plan_id": "plan-1", "phone_number": "12"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, api.router, http.MethodPost, "/payments/initiate-stk", bearer(t, "u1"), gin.H{"plan_id": "nope", "phone_number": "0712345678"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaymentStatusUpdates(t *testing.T) {
	api := newPaymentAPI(payment.StubGateway{})
	resp := api.initiate(t, "owner")
	path := "/payments/" + resp.Payment.ID

	w := do(t, api.router, http.MethodGet, path, bearer(t, "intruder"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, api.router, http.MethodPatch, path, bearer(t, "intruder"), gin.H{"status": "SUCCEEDED"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = do(t, api.router, http.MethodPatch, path, bearer(t, "owner"), gin.H{"status": "PAID"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, api.router, http.MethodPatch, path, bearer(t, "owner"), gin.H{"status": "FAILED"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, api.router, http.MethodPatch, path, bearer(t, "owner"), gin.H{"status": "CREATED"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, api.router, http.MethodGet, "/payment-plans", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"plan":"MONTHLY"`)
}

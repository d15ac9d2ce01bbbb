package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/restobill-api/internal/application/service"
	"github.com/sangkips/restobill-api/internal/config"
	"github.com/sangkips/restobill-api/internal/domain/billing"
	"github.com/sangkips/restobill-api/internal/domain/entity"
	"github.com/sangkips/restobill-api/internal/domain/enum"
	"github.com/sangkips/restobill-api/internal/presentation/http/handler"
	"github.com/sangkips/restobill-api/internal/presentation/http/middleware"
	"github.com/sangkips/restobill-api/internal/presentation/ws"
	"github.com/sangkips/restobill-api/pkg/billdate"
	"github.com/sangkips/restobill-api/pkg/logger"
	"github.com/sangkips/restobill-api/pkg/printer"
	"github.com/sangkips/restobill-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "counter-pass-1"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Warning string          `json:"warning"`
}

type testServer struct {
	router      *gin.Engine
	jwt         *utils.JWTManager
	bills       *memoryBills
	idempotency *memoryIdempotency
	cashier     *entity.User
	admin       *entity.User
}

func newTestServer(t *testing.T, rateLimit int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := utils.HashPassword(testPassword)
	require.NoError(t, err)

	cashier := &entity.User{ID: uuid.New(), Name: "Ravi", Username: "ravi", Password: hash, Role: enum.UserRoleCashier, Active: true}
	admin := &entity.User{ID: uuid.New(), Name: "Lakshmi", Username: "lakshmi", Password: hash, Role: enum.UserRoleAdmin, Active: true}

	ist := time.FixedZone("IST", 5*3600+1800)
	dates := billdate.New(ist)
	log := logger.NewNop()
	rate := decimal.RequireFromString("2.5")

	defaults := &entity.AppSettings{
		ID:            entity.AppSettingsID,
		ShopName:      "Annapoorna",
		Currency:      "₹",
		CGSTRate:      &rate,
		SGSTRate:      &rate,
		PrinterFormat: enum.PrinterFormat80mm,
		Locale:        "en-GB",
	}

	menu := &memoryMenu{items: testMenu()}
	settings := &memorySettings{}
	users := &memoryUsers{users: map[uuid.UUID]*entity.User{cashier.ID: cashier, admin.ID: admin}}
	bills := &memoryBills{}
	counter := &memoryCounter{counter: entity.BillCounter{ID: entity.BillCounterID, LastNumber: "00"}}
	idempotency := &memoryIdempotency{keys: make(map[string]*entity.IdempotencyKey)}

	jwtManager := utils.NewJWTManager("test-secret", time.Hour)
	sequencer := billing.NewSequencer(counter)

	settingsService := service.NewSettingsService(settings, defaults)
	_, err = settingsService.GetSettings(context.Background())
	require.NoError(t, err)

	cartService := service.NewCartService(menu, settings)
	printerService := service.NewPrinterService(printer.NewNullPrinter(), "none", stubPDF{}, stubPDF{}, settings, bills, dates, log)
	billNumberService := service.NewBillNumberService(sequencer)
	billingService := service.NewBillingService(passthroughTx{}, bills, menu, settings, users, sequencer,
		cartService, printerService, ws.NewHub(log), dates, log)
	reportService := service.NewReportService(bills, dates)

	handlers := &Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, jwtManager)),
		Menu:     handler.NewMenuHandler(service.NewMenuService(menu, testMenu)),
		Cart:     handler.NewCartHandler(cartService),
		Bill:     handler.NewBillHandler(billingService, billNumberService, printerService),
		Report:   handler.NewReportHandler(reportService, service.NewExportService(), printerService, settingsService),
		Settings: handler.NewSettingsHandler(settingsService),
		Printer:  handler.NewPrinterHandler(printerService),
		Sync:     handler.NewSyncHandler(service.NewSyncService(bills, nil, log)),
	}

	cfg := &config.Config{App: config.AppConfig{Name: "restobill-test"}}
	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfigFrom(rateLimit, 60))

	router := Setup(handlers, &Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotency,
		RateLimiter:     limiter,
		Hub:             ws.NewHub(log),
		Log:             log,
	})

	return &testServer{
		router:      router,
		jwt:         jwtManager,
		bills:       bills,
		idempotency: idempotency,
		cashier:     cashier,
		admin:       admin,
	}
}

func (s *testServer) token(t *testing.T, u *entity.User) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(u.ID, u.Name, string(u.Role))
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "restobill-test")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodGet, "/health", "", nil, "X-Request-ID", "req-42")

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ravi", "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		User        struct {
			Username string `json:"username"`
			Role     string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &login))
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, "ravi", login.User.Username)
	require.NotEmpty(t, login.AccessToken)

	w = s.do(t, http.MethodGet, "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decode(t, w).Data), `"cashier"`)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "ravi", "password": "nope-nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	s := newTestServer(t, 100)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/menu", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/v1/menu", "garbage", nil).Code)
}

func TestAdminRoutesRejectCashier(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/menu/reset", s.token(t, s.cashier), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodPost, "/api/v1/menu/reset", s.token(t, s.admin), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestMenuListFlagsNonVeg(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodGet, "/api/v1/menu?quick=chicken", s.token(t, s.cashier), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var items []struct {
		Name   string `json:"name"`
		NonVeg bool   `json:"non_veg"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Chicken Biryani", items[0].Name)
	assert.True(t, items[0].NonVeg)

	w = s.do(t, http.MethodGet, "/api/v1/menu?quick=tofu", s.token(t, s.cashier), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveBillFromCart(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.token(t, s.cashier)

	w := s.do(t, http.MethodPost, "/api/v1/cart/items", token, map[string]string{"menu_item_id": "1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/bills", token, map[string]any{"payment_method": "upi", "order_type": "parcel"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var saved struct {
		Bill struct {
			ID         string `json:"id"`
			BillNumber string `json:"bill_number"`
		} `json:"bill"`
		NextBillNumber string `json:"next_bill_number"`
	}
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &saved))
	assert.Equal(t, "01", saved.Bill.BillNumber)
	assert.Equal(t, "02", saved.NextBillNumber)

	w = s.do(t, http.MethodGet, "/api/v1/bills/"+saved.Bill.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/v1/bills/"+saved.Bill.ID+"/receipt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Annapoorna")

	w = s.do(t, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(decode(t, w).Data), "Gobi Manchurian")
}

func TestSaveBillRejectsEmptyCart(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/bills", s.token(t, s.cashier), map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please add items to the cart before saving", decode(t, w).Message)
	assert.Equal(t, 0, s.bills.count())
}

func TestSaveBillRejectsUnknownEnums(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/bills", s.token(t, s.cashier), map[string]any{
		"items":          []map[string]any{{"menu_item_id": "1", "quantity": 1}},
		"payment_method": "cheque",
		"order_type":     "drive-thru",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	env := decode(t, w)
	assert.Contains(t, string(env.Errors), "payment_method")
	assert.Contains(t, string(env.Errors), "order_type")
}

func TestSaveBillReplaysIdempotencyKey(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.token(t, s.cashier)
	body := map[string]any{"items": []map[string]any{{"menu_item_id": "2", "quantity": 3}}}

	first := s.do(t, http.MethodPost, "/api/v1/bills", token, body, "Idempotency-Key", "save-1")
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := s.do(t, http.MethodPost, "/api/v1/bills", token, body, "Idempotency-Key", "save-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, s.bills.count())
}

func TestFailedSaveIsNotReplayed(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.token(t, s.cashier)

	w := s.do(t, http.MethodPost, "/api/v1/bills", token, map[string]any{}, "Idempotency-Key", "save-2")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, s.idempotency.keys)
}

func TestBillNumberOverride(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.token(t, s.cashier)

	w := s.do(t, http.MethodPut, "/api/v1/bill-number", token, map[string]string{"bill_number": "50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"current":"50","next":"51"}`, string(decode(t, w).Data))

	w = s.do(t, http.MethodPut, "/api/v1/bill-number", token, map[string]string{"bill_number": "abc"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPrintRangeNeedsBothDates(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodPost, "/api/v1/reports/print-range", s.token(t, s.cashier), map[string]string{"from_date": "2024-03-15"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please select both dates", decode(t, w).Message)
}

func TestExportCSVIsAttachment(t *testing.T) {
	s := newTestServer(t, 100)
	token := s.token(t, s.cashier)

	w := s.do(t, http.MethodPost, "/api/v1/bills", token, map[string]any{
		"items": []map[string]any{{"menu_item_id": "1", "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/v1/reports/export?period=all&format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bills-all-")
	assert.Contains(t, w.Body.String(), "Gobi Manchurian x1")
}

func TestReportRejectsUnknownPeriod(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodGet, "/api/v1/reports?period=decade", s.token(t, s.cashier), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncWithoutUploader(t *testing.T) {
	s := newTestServer(t, 100)

	w := s.do(t, http.MethodGet, "/api/v1/sync", s.token(t, s.cashier), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false}`, string(decode(t, w).Data))

	w = s.do(t, http.MethodPost, "/api/v1/sync", s.token(t, s.admin), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitedLogin(t *testing.T) {
	s := newTestServer(t, 2)
	creds := map[string]string{"username": "ravi", "password": "wrong-pass"}

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/farmstead/internal/domain/models"
	"github.com/mamadbah2/farmstead/internal/repository"
	"github.com/mamadbah2/farmstead/internal/repository/memory"
	"github.com/mamadbah2/farmstead/internal/service/commerce"
	"github.com/mamadbah2/farmstead/internal/service/finance"
	"github.com/mamadbah2/farmstead/internal/service/livestock"
	"github.com/mamadbah2/farmstead/internal/service/reporting"
	"github.com/mamadbah2/farmstead/internal/service/vet"
)

type fakeMessenger struct {
	sent    []models.OutboundMessageRequest
	manager []string
	err     error
}

func (f *fakeMessenger) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeMessenger) NotifyManager(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.manager = append(f.manager, text)
	return nil
}

type testServer struct {
	engine    *gin.Engine
	set       *repository.Set
	messenger *fakeMessenger
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	set := memory.NewSet()
	fin := finance.NewService(set, nil, nil)
	vetSvc := vet.NewService(set, nil)
	reports := reporting.NewService(set, vetSvc, nil, 7*24*time.Hour, nil)
	messenger := &fakeMessenger{}

	r := gin.New()
	api := r.Group("/api")
	NewLivestockHandler(livestock.NewService(set.Pigs, nil), nil).Register(api)
	NewCommerceHandler(commerce.NewService(set, fin, nil), nil).Register(api)
	NewReportHandler(reports, fin, set, nil, nil).Register(api)
	NewFinanceHandler(fin, set.Finance, nil).Register(api.Group("/finance"))
	NewVetHandler(vetSvc, 7, nil).Register(api.Group("/vet"))
	NewNotificationHandler(messenger, reports, nil).Register(api.Group("/notifications"))
	NewResource(set.Products, func(p *models.Product) *string { return &p.ID }, nil).
		Register(api.Group("/products"), true)
	NewResource(set.Orders, func(o *models.Order) *string { return &o.ID }, nil).
		Register(api.Group("/orders"), true)

	return &testServer{engine: r, set: set, messenger: messenger}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestCreatePigAndCheckInbreeding(t *testing.T) {
	s := newTestServer(t)

	for _, p := range []models.Pig{
		{TagID: "B1", Gender: models.GenderMale, Stage: models.StageBoar},
		{TagID: "S1", Gender: models.GenderFemale, Stage: models.StageSow},
		{TagID: "BRO", Gender: models.GenderMale, SireID: "B1", DamID: "S1"},
		{TagID: "SIS", Gender: models.GenderFemale, SireID: "B1", DamID: "S1"},
		{TagID: "KID", Gender: models.GenderFemale, SireID: "BRO", DamID: "SIS"},
	} {
		rec := s.do(t, http.MethodPost, "/api/pigs", p)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/pigs/KID/inbreeding", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, true, body["risk"])

	rec = s.do(t, http.MethodPost, "/api/breeding/check", gin.H{"sire": "B1", "dam": "S1"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Equal(t, false, body["risk"])

	rec = s.do(t, http.MethodGet, "/api/pigs/B1/offspring", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Pig](t, rec), 2)
}

func TestCreatePigValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/pigs", models.Pig{TagID: "X1", Gender: "boar"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "gender", body["field"])

	rec = s.do(t, http.MethodGet, "/api/pigs/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/products", models.Product{Name: "Eggs", Price: 3, Stock: 10})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.Product](t, rec)
	require.NotEmpty(t, created.ID)

	rec = s.do(t, http.MethodPost, "/api/products", models.Product{Price: 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	created.Price = 4
	rec = s.do(t, http.MethodPut, "/api/products/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4.0, decode[models.Product](t, rec).Price)

	rec = s.do(t, http.MethodPut, "/api/products/missing", created)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/orders/any", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceOrder(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.set.Products.Save(ctx, "p1", models.Product{ID: "p1", Name: "Sausage", Price: 10, Stock: 3}))

	rec := s.do(t, http.MethodPost, "/api/orders", commerce.OrderRequest{
		Lines: []commerce.OrderLine{{ProductID: "p1", Quantity: 5}},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/orders", commerce.OrderRequest{
		Lines:      []commerce.OrderLine{{ProductID: "p1", Quantity: 2}},
		Discount:   5,
		TaxRatePct: 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[models.Order](t, rec)
	assert.Equal(t, 20.0, order.Subtotal)
	assert.Equal(t, 16.5, order.Total)

	p, err := s.set.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Stock)

	records, err := s.set.Finance.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.EntryIncome, records[0].Type)
}

func TestImportProducts(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	require.NoError(t, s.set.Products.Save(ctx, "p1", models.Product{ID: "p1", Name: "Eggs", Price: 2, Stock: 1}))

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Unit", "Price", "Stock"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"eggs", "tray", "2,5", "40"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Honey", "jar", "8", "12"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"Bad", "kg", "abc", "1"}))
	var workbook bytes.Buffer
	require.NoError(t, f.Write(&workbook))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "catalog.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/products/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, res["created"])
	assert.EqualValues(t, 1, res["updated"])
	assert.Len(t, res["skipped"], 1)

	eggs, err := s.set.Products.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2.5, eggs.Price)
	assert.Equal(t, 40.0, eggs.Stock)

	products, err := s.set.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

func TestImportProductsRequiresFile(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/products/import", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinanceCalculators(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/finance/calculators/payment", gin.H{"principal": 1200, "annualRatePct": 0, "months": 12})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100.0, decode[map[string]float64](t, rec)["payment"])

	rec = s.do(t, http.MethodPost, "/api/finance/calculators/payoff", gin.H{"principal": 10000, "annualRatePct": 12, "payment": 50})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/finance/calculators/tax", gin.H{"income": -500})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.0, decode[finance.TaxEstimate](t, rec).Tax)

	curve := finance.CostCurveInput{
		Days: 10, StartWeightKg: 25, DailyGainKg: 0.8, FCR: 2.8,
		FeedPricePerKg: 0.4, PurchaseCost: 60,
	}
	rec = s.do(t, http.MethodPost, "/api/finance/calculators/cost-curve?format=xlsx", curve)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestFinanceRecordsByPeriod(t *testing.T) {
	s := newTestServer(t)

	for _, r := range []models.FinanceRecord{
		{Date: time.Date(2024, 5, 31, 12, 0, 0, 0, time.UTC), Type: models.EntryIncome, Category: "sales", Amount: 50},
		{Date: time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC), Type: models.EntryExpense, Category: "feed", Amount: 20},
	} {
		rec := s.do(t, http.MethodPost, "/api/finance/records", r)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	rec := s.do(t, http.MethodGet, "/api/finance/records?from=2024-06-01&to=2024-06-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.FinanceRecord](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/api/finance/summary?from=June", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.set.Pigs.Save(context.Background(), "p1", models.Pig{ID: "p1", TagID: "A1", Gender: models.GenderMale}))

	rec := s.do(t, http.MethodGet, "/api/export/pigs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pdfContentType, rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Herd-")

	rec = s.do(t, http.MethodGet, "/api/export/finance?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/api/export/pigs?format=csv", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/export/unicorns", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/export/loan-schedule", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHistoryNeedsMongo(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/api/reports/history", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/reports/daily", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVetRoutes(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.set.Pigs.Save(context.Background(), "p1", models.Pig{ID: "p1", TagID: "A1", Gender: models.GenderMale, Status: models.StatusActive}))

	rec := s.do(t, http.MethodPost, "/api/vet/protocols", models.Protocol{Name: "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/vet/protocols", models.Protocol{Name: "Penicillin", Kind: models.HealthTreatment, WithdrawalDays: 14})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/vet/records", models.HealthRecord{
		PigID: "A1", Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Protocol: "penicillin", Medication: "Penicillin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/vet/pigs/A1/withdrawal?at=2024-06-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[vet.Withdrawal](t, rec).Clear)

	rec = s.do(t, http.MethodGet, "/api/vet/pigs/A1/withdrawal?at=2024-07-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[vet.Withdrawal](t, rec).Clear)

	rec = s.do(t, http.MethodGet, "/api/vet/pigs/A1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.HealthRecord](t, rec), 1)
}

func TestSendNotification(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/notifications/send", models.OutboundMessageRequest{To: "221770000000", Message: "hello"})
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, s.messenger.sent, 1)

	rec = s.do(t, http.MethodPost, "/api/notifications/send", gin.H{"to": "221770000000"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.messenger.err = errors.New("graph api down")
	rec = s.do(t, http.MethodPost, "/api/notifications/send", models.OutboundMessageRequest{To: "221770000000", Message: "hello"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSendRemindersWhenNothingDue(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/notifications/reminders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["sent"])
	assert.Empty(t, s.messenger.manager)
}

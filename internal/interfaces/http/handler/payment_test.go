package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ledgerapp "github.com/qurtubah/treasury/internal/application/ledger"
	treasuryapp "github.com/qurtubah/treasury/internal/application/treasury"
	"github.com/qurtubah/treasury/internal/domain/ledger"
	"github.com/qurtubah/treasury/internal/interfaces/http/dto"
	"github.com/qurtubah/treasury/internal/interfaces/http/middleware"
	"github.com/qurtubah/treasury/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo is a simple in-memory ledger.PaymentRepository for handler tests
type memoryRepo struct {
	records []*ledger.PaymentRecord
}

func (m *memoryRepo) FindAll(ctx context.Context) ([]*ledger.PaymentRecord, error) {
	out := make([]*ledger.PaymentRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*ledger.PaymentRecord, error) {
	for _, r := range m.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) Save(ctx context.Context, record *ledger.PaymentRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memoryRepo) Update(ctx context.Context, record *ledger.PaymentRecord) error {
	for i, r := range m.records {
		if r.ID == record.ID {
			m.records[i] = record
			return nil
		}
	}
	return nil
}

func (m *memoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, r := range m.records {
		if r.ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func setupRouter(repo ledger.PaymentRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	engine := gin.New()
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(NewPaymentHandler(ledgerapp.NewService(repo))).
		Register(NewTreasuryHandler(treasuryapp.NewService(repo))).
		Register(NewSystemHandler(nil)).
		Setup()
	return engine
}

// failingRepo errors on every read to exercise the non-domain error path.
type failingRepo struct {
	memoryRepo
}

func (f *failingRepo) FindAll(ctx context.Context) ([]*ledger.PaymentRecord, error) {
	return nil, errors.New("connection reset")
}

func seedRecord(t *testing.T, repo *memoryRepo, name string, paymentType ledger.PaymentType) *ledger.PaymentRecord {
	t.Helper()
	record, err := ledger.NewPaymentRecord(
		name,
		decimal.NewFromInt(500),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		false,
		paymentType,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), record))
	return record
}

func doJSON(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreatePayment(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	w := doJSON(engine, http.MethodPost, "/api/v1/payments", gin.H{
		"partyName":       "Al Amana Trading",
		"amount":          "500",
		"paymentDate":     "2025-03-10",
		"includesVAT":     false,
		"paymentType":     "expense",
		"expenseCategory": "supplier",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "500.00", data["amount"])
	assert.Equal(t, "70.00", data["vatAmount"])
	assert.Equal(t, "570.00", data["totalAmount"])
	assert.Equal(t, false, data["isSettled"])
}

func TestCreatePayment_ValidationFailure(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	cases := []gin.H{
		{"amount": "500", "paymentDate": "2025-03-10", "paymentType": "expense"},
		{"partyName": "ACME", "amount": "-5", "paymentDate": "2025-03-10", "paymentType": "expense"},
		{"partyName": "ACME", "amount": "500", "paymentDate": "2025-03-10", "paymentType": "transfer"},
	}
	for i, body := range cases {
		w := doJSON(engine, http.MethodPost, "/api/v1/payments", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "case %d", i)

		resp := decodeResponse(t, w)
		assert.False(t, resp.Success, "case %d", i)
		require.NotNil(t, resp.Error, "case %d", i)
	}
}

func TestGetPayment(t *testing.T) {
	repo := &memoryRepo{}
	record := seedRecord(t, repo, "Al Amana Trading", ledger.PaymentTypeExpense)
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodGet, "/api/v1/payments/"+record.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, record.ID.String(), data["id"])
}

func TestGetPayment_NotFound(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	w := doJSON(engine, http.MethodGet, "/api/v1/payments/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetPayment_BadID(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	w := doJSON(engine, http.MethodGet, "/api/v1/payments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePayment(t *testing.T) {
	repo := &memoryRepo{}
	record := seedRecord(t, repo, "Al Amana Trading", ledger.PaymentTypeExpense)
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodPatch, "/api/v1/payments/"+record.ID.String(), gin.H{
		"amount": "200",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "200.00", data["amount"])
	assert.Equal(t, "228.00", data["totalAmount"])
}

func TestDeletePayment(t *testing.T) {
	repo := &memoryRepo{}
	record := seedRecord(t, repo, "Al Amana Trading", ledger.PaymentTypeExpense)
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodDelete, "/api/v1/payments/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())

	w = doJSON(engine, http.MethodDelete, "/api/v1/payments/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettlePayment(t *testing.T) {
	repo := &memoryRepo{}
	record := seedRecord(t, repo, "Al Amana Trading", ledger.PaymentTypeExpense)
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodPost, "/api/v1/payments/"+record.ID.String()+"/settle", gin.H{
		"settlementAmount": "600.00",
		"settlementDate":   "2025-04-01",
		"settlementNotes":  "final invoice",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["isSettled"])
	assert.Equal(t, "600.00", data["settlementAmount"])
	assert.Equal(t, "570.00", data["totalAmount"])
}

func TestListRecent(t *testing.T) {
	repo := &memoryRepo{}
	for i := 0; i < 3; i++ {
		record := seedRecord(t, repo, "Supplier", ledger.PaymentTypeExpense)
		record.CreatedAt = record.CreatedAt.Add(time.Duration(i) * time.Hour)
	}
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodGet, "/api/v1/payments/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.([]interface{})
	assert.Len(t, data, 2)
}

func TestListRecent_BadLimit(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	w := doJSON(engine, http.MethodGet, "/api/v1/payments/recent?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTreasuryStats(t *testing.T) {
	repo := &memoryRepo{}
	seedRecord(t, repo, "Customer", ledger.PaymentTypeIncome)
	seedRecord(t, repo, "Supplier", ledger.PaymentTypeExpense)
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodGet, "/api/v1/treasury/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "0.00", data["totalBalance"]) // equal income and expense
	assert.Equal(t, float64(2), data["paymentsCount"])
}

func TestTreasuryCategories(t *testing.T) {
	repo := &memoryRepo{}
	record := seedRecord(t, repo, "Supplier", ledger.PaymentTypeExpense)
	require.NoError(t, record.SetExpenseCategory(ledger.ExpenseCategorySupplier))
	engine := setupRouter(repo)

	w := doJSON(engine, http.MethodGet, "/api/v1/treasury/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.([]interface{})
	require.Len(t, data, 1)
	entry := data[0].(map[string]interface{})
	assert.Equal(t, "supplier", entry["category"])
	assert.Equal(t, "100.00", entry["percentage"])
}

func TestListPayments_UnexpectedErrorIsOpaque(t *testing.T) {
	engine := setupRouter(&failingRepo{})

	w := doJSON(engine, http.MethodGet, "/api/v1/payments", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection reset")
}

func TestSystemPing(t *testing.T) {
	engine := setupRouter(&memoryRepo{})

	w := doJSON(engine, http.MethodGet, "/api/v1/system/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack-app/backend/internal/auth"
	"github.com/fintrack-app/backend/internal/model"
	"github.com/fintrack-app/backend/internal/service"
	"github.com/fintrack-app/backend/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()

	m := store.NewMemoryStore()
	handler := NewHandler(service.NewTaxService(m))

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := httptest.NewServer(auth.Middleware("")(mux))
	t.Cleanup(srv.Close)
	return srv, m
}

func doRequest(t *testing.T, method, url, userID, body string) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}
	req, err := http.NewRequest(method, url, reqBody)
	require.NoError(t, err)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestGetSummaryEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	userID := uuid.New().String()

	require.NoError(t, m.CreateTransaction(context.Background(), &model.Transaction{
		UserID: userID,
		Type:   model.TransactionTypeIncome,
		Amount: 1_500_000,
		Date:   time.Now(),
	}))

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tax/summary", userID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var summary model.TaxSummary
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &summary))

	assert.Equal(t, int64(1_500_000), summary.TotalIncome)
	assert.Equal(t, int64(187_500), summary.TaxPayable)
	assert.Len(t, summary.Schedule, 4)
}

func TestGetSummaryRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tax/summary", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "Unauthorized")
}

func TestGetSummaryInvalidUser(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tax/summary", "not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "invalid user id")
}

func TestMarkReminderPaidEndpoint(t *testing.T) {
	srv, m := newTestServer(t)
	userID := uuid.New().String()

	require.NoError(t, m.CreateTransaction(context.Background(), &model.Transaction{
		UserID: userID,
		Type:   model.TransactionTypeIncome,
		Amount: 1_500_000,
		Date:   time.Now(),
	}))

	resp, body := doRequest(t, http.MethodGet, srv.URL+"/api/v1/tax/summary", userID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary model.TaxSummary
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &summary))
	require.NotEmpty(t, summary.Schedule)

	target := summary.Schedule[0]
	resp, body = doRequest(t, http.MethodPatch,
		srv.URL+"/api/v1/tax/reminders/"+target.ID+"/mark-paid", userID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body["message"]), "Marked as paid")

	reminder, err := m.GetReminder(context.Background(), userID, target.ID)
	require.NoError(t, err)
	assert.True(t, reminder.IsPaid)
}

func TestMarkReminderPaidErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	userID := uuid.New().String()

	resp, body := doRequest(t, http.MethodPatch,
		srv.URL+"/api/v1/tax/reminders/bogus/mark-paid", userID, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "invalid reminder id")

	resp, body = doRequest(t, http.MethodPatch,
		srv.URL+"/api/v1/tax/reminders/"+uuid.New().String()+"/mark-paid", userID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "Reminder not found")
}

func TestEstimateTaxEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	userID := uuid.New().String()

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tax/estimate", userID,
		`{"totalIncome":1500000,"totalExpenses":100000}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var estimate model.TaxEstimate
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &estimate))

	assert.Equal(t, int64(1_400_000), estimate.TaxableIncome)
	assert.Equal(t, int64(162_500), estimate.TaxPayable)
	assert.False(t, estimate.NoTax)

	resp, body = doRequest(t, http.MethodPost, srv.URL+"/api/v1/tax/estimate", userID,
		`{"totalIncome":-5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "non-negative")
}

func TestEstimateTaxInvalidBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doRequest(t, http.MethodPost, srv.URL+"/api/v1/tax/estimate", uuid.New().String(), "{")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body["error"]), "Invalid request body")
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/adapter/http/handler"
	"github.com/iho/ledgerbook/internal/adapter/repository/memory"
	"github.com/iho/ledgerbook/internal/adapter/repository/postgres"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
	"github.com/iho/ledgerbook/internal/usecase"
)

// newTestServer wires the full stack on the in-memory store, the same
// dependency graph cmd/server builds.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	ledger := memory.NewLedger()
	cache := memory.NewIdempotencyCache(15*time.Minute, nil)
	idGen := postgres.NewUUIDGenerator()

	accountUC := usecase.NewAccountUseCase(ledger.Accounts(), ledger.Transactions(), idGen)
	txUC := usecase.NewTransactionUseCase(ledger.Transactions(), ledger.Accounts(), cache, idGen)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	return NewRouter(RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, m),
		TransactionHandler: handler.NewTransactionHandler(txUC, m),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		Logger:             zerolog.Nop(),
		Metrics:            m,
		MetricsRegistry:    reg,
	})
}

func doJSON(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	return rec
}

func createAccount(t *testing.T, srv http.Handler, name, direction string) string {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"direction":%q}`, name, direction)
	rec := doJSON(t, srv, http.MethodPost, "/api/v1/accounts", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	return resp.ID
}

func TestRouter_PostingFlow(t *testing.T) {
	srv := newTestServer(t)

	cashID := createAccount(t, srv, "Cash", "debit")
	expensesID := createAccount(t, srv, "Expenses", "debit")

	body := fmt.Sprintf(`{
		"name": "coffee",
		"entries": [
			{"account_id": %q, "direction": "credit", "amount": "4.50"},
			{"account_id": %q, "direction": "debit", "amount": "4.50"}
		]
	}`, cashID, expensesID)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var tx dto.TransactionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tx))
	require.NotEmpty(t, tx.ID)

	// Resubmitting the same payload is a duplicate referencing the original.
	rec = doJSON(t, srv, http.MethodPost, "/api/v1/transactions", body)
	require.Equal(t, http.StatusConflict, rec.Code)

	var dupResp dto.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dupResp))
	assert.Equal(t, tx.ID, dupResp.OriginalTransactionID)

	// Balances are derived from the single posted transaction.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+cashID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var cash dto.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cash))
	assert.True(t, decimal.RequireFromString("-4.50").Equal(cash.Balance), "got %s", cash.Balance)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+expensesID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var expenses dto.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&expenses))
	assert.True(t, decimal.RequireFromString("4.50").Equal(expenses.Balance), "got %s", expenses.Balance)
}

func TestRouter_NamelessAccountCreated(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/accounts", `{"direction":"debit"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.AccountResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.Name)
}

func TestRouter_UnbalancedRejected(t *testing.T) {
	srv := newTestServer(t)

	cashID := createAccount(t, srv, "Cash", "debit")
	expensesID := createAccount(t, srv, "Expenses", "debit")

	body := fmt.Sprintf(`{
		"name": "lopsided",
		"entries": [
			{"account_id": %q, "direction": "credit", "amount": "4.50"},
			{"account_id": %q, "direction": "debit", "amount": "5.00"}
		]
	}`, cashID, expensesID)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/transactions", body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_DeleteRoutesForbidden(t *testing.T) {
	srv := newTestServer(t)

	cashID := createAccount(t, srv, "Cash", "debit")

	rec := doJSON(t, srv, http.MethodDelete, "/api/v1/accounts/"+cashID, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/v1/transactions/whatever", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The account survives the rejected delete.
	rec = doJSON(t, srv, http.MethodGet, "/api/v1/accounts/"+cashID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

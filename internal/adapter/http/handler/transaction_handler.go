package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/ledgerbook/internal/adapter/http/dto"
	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/infrastructure/metrics"
	"github.com/iho/ledgerbook/internal/usecase"
)

// TransactionService defines the behavior needed by TransactionHandler.
type TransactionService interface {
	CreateTransaction(ctx context.Context, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	txUC    TransactionService
	metrics *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(txUC TransactionService, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{txUC: txUC, metrics: m}
}

// Create posts a balanced transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeDomainError(w, "invalid transaction", err)
		return
	}

	tx, err := h.txUC.CreateTransaction(r.Context(), req.ToUseCaseInput())
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			h.metrics.DuplicatesRejected.Inc()
		}
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	h.metrics.TransactionsPosted.Inc()
	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// Get retrieves a transaction with its entries.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	tx, err := h.txUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// List lists all transactions, most recently created first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txUC.ListTransactions(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txs),
		Total:        int64(len(txs)),
	})
}

// Delete always fails with 403: ledger records cannot be removed.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.txUC.DeleteTransaction(r.Context(), id)
	if err == nil {
		writeError(w, http.StatusInternalServerError, "unexpected deletion", "")
		return
	}

	h.metrics.ImmutabilityViolations.Inc()
	writeDomainError(w, "deletion is not permitted", err)
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pay-my-buddy-go/internal/api"
	"pay-my-buddy-go/internal/identity"
	"pay-my-buddy-go/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// Handlers bridges HTTP requests onto the service
type Handlers struct {
	service  *api.Service
	provider *identity.Provider
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type connectionRequest struct {
	Email string `json:"email"`
}

type transferRequest struct {
	Email       string          `json:"email"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type bankAccountRequest struct {
	BankName string          `json:"bank_name"`
	Iban     string          `json:"iban"`
	Balance  decimal.Decimal `json:"balance"`
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", api.ErrInvalidInput, err)
	}
	return nil
}

// pageParams reads ?page and ?size; missing or malformed values use defaults.
func pageParams(r *http.Request) (int, int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		page = api.DefaultPage
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil {
		size = api.DefaultPageSize
	}
	return page, size
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.HealthCheck(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "unhealthy")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, models.UserView{
		Id: user.Id, Email: user.Email, FirstName: user.FirstName, LastName: user.LastName, Balance: user.Balance,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, expiresAt, err := h.provider.Tokens().Issue(user.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expiresAt})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetUserById(r.Context(), authenticatedUser(r).Id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetUserById(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) GetUserConnections(w http.ResponseWriter, r *http.Request) {
	buddies, err := h.service.GetUserConnections(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buddies)
}

func (h *Handlers) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.GetUserTransactions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (h *Handlers) ListConnections(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.service.ConnectionsPage(r.Context(), authenticatedUser(r), page, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) CreateConnection(w http.ResponseWriter, r *http.Request) {
	var req connectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.service.CreateConnection(r.Context(), authenticatedUser(r), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	result, err := h.service.TransactionsPage(r.Context(), authenticatedUser(r), page, size)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetTransactionById(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) QuoteTransfer(w http.ResponseWriter, r *http.Request) {
	amount, err := decimal.NewFromString(r.URL.Query().Get("amount"))
	if err != nil {
		writeServiceError(w, r, fmt.Errorf("%w: %v", api.ErrInvalidAmount, err))
		return
	}

	quote, err := h.service.QuoteTransfer(amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.service.Transfer(r.Context(), authenticatedUser(r), req.Email, req.Description, req.Amount)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handlers) Deposit(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Deposit(r.Context(), authenticatedUser(r), r.URL.Query().Get("amount"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Withdraw(r.Context(), authenticatedUser(r), r.URL.Query().Get("amount"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetBankAccount(r.Context(), authenticatedUser(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req bankAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, r, err)
		return
	}

	view, err := h.service.CreateBankAccount(r.Context(), authenticatedUser(r), req.BankName, req.Iban, req.Balance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handlers) DeleteBankAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBankAccount(r.Context(), authenticatedUser(r)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

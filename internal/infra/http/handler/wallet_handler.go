package handler

import (
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// WalletHandler expõe saldos, extrato e consumo de um usuário.
type WalletHandler struct {
	balances *usecase.BalanceService
}

func NewWalletHandler(balances *usecase.BalanceService) *WalletHandler {
	return &WalletHandler{balances: balances}
}

type BalanceResponse struct {
	UserID         string `json:"user_id"`
	Wallet         int64  `json:"saldo"`
	Plan           int64  `json:"saldo_plano"`
	Total          int64  `json:"total"`
	FormattedTotal string `json:"total_formatado"`
}

type AmountRequest struct {
	Amount      int64  `json:"amount"` // Valor em centavos
	Description string `json:"description"`
}

func (h *WalletHandler) Routes(r chi.Router) {
	r.Get("/balance", h.GetBalance)
	r.Get("/transactions", h.ListTransactions)
	r.Get("/payments", h.ListPayments)
	r.Get("/plan", h.GetPlan)
}

// IdempotentRoutes são as rotas que movimentam saldo.
func (h *WalletHandler) IdempotentRoutes(r chi.Router) {
	r.Post("/deposits", h.Deposit)
	r.Post("/consumptions", h.Consume)
}

func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	balance, err := h.balances.GetBalance(r.Context(), userID)
	if err != nil {
		respondDomainError(w, err, "get_balance")
		return
	}
	respondJSON(w, http.StatusOK, BalanceResponse{
		UserID:         userID,
		Wallet:         balance.Wallet,
		Plan:           balance.Plan,
		Total:          balance.Total(),
		FormattedTotal: domain.FormatBRL(balance.Total()),
	})
}

func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}
	if req.Description == "" {
		req.Description = "Depósito"
	}

	tx, err := h.balances.CreditWallet(r.Context(), chi.URLParam(r, "userID"), req.Amount, req.Description)
	if err != nil {
		respondDomainError(w, err, "deposit")
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

func (h *WalletHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}
	if req.Description == "" {
		req.Description = "Consulta"
	}

	txs, err := h.balances.Consume(r.Context(), chi.URLParam(r, "userID"), req.Amount, req.Description)
	if err != nil {
		respondDomainError(w, err, "consume")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"transactions": txs})
}

func (h *WalletHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.balances.ListTransactions(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondDomainError(w, err, "list_transactions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (h *WalletHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.balances.ListPayments(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondDomainError(w, err, "list_payments")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"payments": payments})
}

func (h *WalletHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.balances.GetUserPlan(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondDomainError(w, err, "get_plan")
		return
	}
	if plan == nil {
		respondError(w, http.StatusNotFound, "Usuário sem plano")
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

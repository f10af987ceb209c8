package handler

import (
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
	"github.com/go-chi/chi/v5"
)

// PlanHandler expõe o catálogo, a cotação e a compra de planos.
type PlanHandler struct {
	quoteUC    *usecase.QuotePlanUseCase
	purchaseUC *usecase.PurchasePlanUseCase
}

func NewPlanHandler(quoteUC *usecase.QuotePlanUseCase, purchaseUC *usecase.PurchasePlanUseCase) *PlanHandler {
	return &PlanHandler{quoteUC: quoteUC, purchaseUC: purchaseUC}
}

type PlanResponse struct {
	domain.Plan
	FormattedPrice string `json:"formatted_price"`
}

// PurchasePlanRequest é o corpo de POST /wallets/{userID}/plan/purchase.
type PurchasePlanRequest struct {
	PlanName string `json:"plan_name"`
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans := h.quoteUC.Plans()
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{Plan: p, FormattedPrice: domain.FormatBRL(p.Price)})
	}
	respondJSON(w, http.StatusOK, map[string]any{"plans": out})
}

// Quote atende GET /plans/quote?plan=&tier=.
func (h *PlanHandler) Quote(w http.ResponseWriter, r *http.Request) {
	planName := r.URL.Query().Get("plan")
	if planName == "" {
		respondError(w, http.StatusBadRequest, "Parâmetro plan é obrigatório")
		return
	}

	quote, err := h.quoteUC.Execute(planName, r.URL.Query().Get("tier"))
	if err != nil {
		respondDomainError(w, err, "quote_plan")
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// Purchase compra o plano para o dono da carteira da rota; a chave de
// idempotência fica assim presa ao usuário.
func (h *PlanHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req PurchasePlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.purchaseUC.Execute(r.Context(), usecase.PurchasePlanInput{
		UserID:   chi.URLParam(r, "userID"),
		PlanName: req.PlanName,
	})
	if err != nil {
		respondDomainError(w, err, "purchase_plan")
		return
	}
	respondJSON(w, http.StatusCreated, output)
}

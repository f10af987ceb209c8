package handler

import (
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
)

type BonusHandler struct {
	bonus *usecase.BonusConfigService
}

func NewBonusHandler(bonus *usecase.BonusConfigService) *BonusHandler {
	return &BonusHandler{bonus: bonus}
}

type BonusResponse struct {
	ReferralBonusAmount int64  `json:"referral_bonus_amount"`
	Formatted           string `json:"formatted"`
}

func (h *BonusHandler) Get(w http.ResponseWriter, r *http.Request) {
	amount := h.bonus.GetBonusAmount(r.Context())
	respondJSON(w, http.StatusOK, BonusResponse{ReferralBonusAmount: amount, Formatted: domain.FormatBRL(amount)})
}

func (h *BonusHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	amount := h.bonus.RefreshCache(r.Context())
	respondJSON(w, http.StatusOK, BonusResponse{ReferralBonusAmount: amount, Formatted: domain.FormatBRL(amount)})
}

package handler

import (
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/go-chi/chi/v5"
)

type DocumentResponse struct {
	Number    string `json:"number"`
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted,omitempty"`
}

// ValidateCPF atende GET /documents/cpf/{number}.
func ValidateCPF(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	resp := DocumentResponse{Number: number, Valid: domain.ValidateCPF(number)}
	if resp.Valid {
		resp.Formatted = domain.FormatCPF(number)
	}
	respondJSON(w, http.StatusOK, resp)
}

func ValidateCNPJ(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	respondJSON(w, http.StatusOK, DocumentResponse{Number: number, Valid: domain.ValidateCNPJ(number)})
}

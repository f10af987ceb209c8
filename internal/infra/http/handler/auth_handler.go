package handler

import (
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
)

type AuthHandler struct {
	registerUC *usecase.RegisterUserUseCase
}

func NewAuthHandler(registerUC *usecase.RegisterUserUseCase) *AuthHandler {
	return &AuthHandler{registerUC: registerUC}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterUserInput
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	out, err := h.registerUC.Execute(r.Context(), req)
	if err != nil {
		respondDomainError(w, err, "register")
		return
	}
	respondJSON(w, http.StatusCreated, out)
}

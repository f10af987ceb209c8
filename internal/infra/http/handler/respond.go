package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/apiclient"
	"github.com/rs/zerolog/log"
)

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError faz o mapeamento de erros de domínio para HTTP status code.
func respondDomainError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrInsufficientBalance):
		respondError(w, http.StatusUnprocessableEntity, "Saldo insuficiente")
	case errors.Is(err, domain.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "Valor inválido")
	case errors.Is(err, domain.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPlanNotFound):
		respondError(w, http.StatusNotFound, "Plano não encontrado")
	case errors.Is(err, domain.ErrLockNotAcquired):
		respondError(w, http.StatusConflict, "Operação em andamento para este usuário")
	case errors.Is(err, apiclient.ErrRemoteFailure):
		respondError(w, http.StatusBadGateway, "Falha na API remota")
	default:
		// Erro interno (banco caiu, bug, etc)
		log.Error().Err(err).Str("operation", operation).Msg("Erro interno")
		respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

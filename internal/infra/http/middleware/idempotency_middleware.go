package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/rs/zerolog/log"
)

const IdempotencyHeader = "Idempotency-Key"

// responseRecorder é um "espião" que grava o que o handler escreve
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	body        *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if !r.wroteHeader {
		r.statusCode = statusCode
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	r.body.Write(b)                  // Grava no nosso buffer
	return r.ResponseWriter.Write(b) // Manda pro cliente
}

// Idempotency devolve a resposta gravada quando a mesma Idempotency-Key se repete
// no mesmo método e caminho.
func Idempotency(store gateway.IdempotencyRepository, ttl time.Duration) func(http.Handler) http.Handler {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(IdempotencyHeader)
			if header == "" {
				// Se não tem chave, segue
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := r.Method + ":" + r.URL.Path + ":" + header

			cached, err := store.Get(ctx, key)
			if err != nil {
				log.Error().Err(err).Msg("Falha ao buscar chave de idempotência")
				// Em caso de erro no Redis, deixamos passar para não travar a API (Fail Open)
				next.ServeHTTP(w, r)
				return
			}

			// Cache Hit: Retornar o que já tínhamos gravado
			if cached != nil {
				log.Info().Str("key", header).Msg("Idempotency cache hit")
				contentType := cached.ContentType
				if contentType == "" {
					contentType = "application/json"
				}
				w.Header().Set("Content-Type", contentType)
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.Body); err != nil {
					log.Error().Err(err).Msg("Falha ao escrever resposta cacheada")
				}
				return
			}

			// Cache Miss: Processar a requisição e gravar a resposta
			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // Default
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(recorder, r)

			// Erros 500 não são cacheados para permitir retry.
			if recorder.statusCode < 500 {
				err := store.Save(ctx, key, gateway.CachedResponse{
					StatusCode:  recorder.statusCode,
					Body:        recorder.body.Bytes(),
					ContentType: recorder.Header().Get("Content-Type"),
				}, ttl)

				if err != nil {
					log.Error().Err(err).Msg("Falha ao salvar chave de idempotência")
				}
			}
		})
	}
}

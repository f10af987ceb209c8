package gateway

import (
	"context"
	"time"
)

// CachedResponse é a resposta gravada para uma Idempotency-Key.
type CachedResponse struct {
	StatusCode  int    `json:"status_code"`
	Body        []byte `json:"body"`
	ContentType string `json:"content_type"`
}

type IdempotencyRepository interface {
	// Get retorna (nil, nil) quando a chave ainda não foi vista.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save armazena a resposta com um TTL (Time To Live)
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}

package memory

import (
	"context"
	"sync"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
)

// IdempotencyRepository guarda respostas em memória quando o Redis não está disponível.
type IdempotencyRepository struct {
	mu      sync.Mutex
	entries map[string]idempotencyEntry
	now     func() time.Time
}

type idempotencyEntry struct {
	response  gateway.CachedResponse
	expiresAt time.Time
}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{
		entries: make(map[string]idempotencyEntry),
		now:     time.Now,
	}
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*gateway.CachedResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[key]
	if !ok {
		return nil, nil
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.entries, key)
		return nil, nil
	}
	resp := entry.response
	return &resp, nil
}

func (r *IdempotencyRepository) Save(ctx context.Context, key string, response gateway.CachedResponse, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = idempotencyEntry{response: response, expiresAt: r.now().Add(ttl)}
	return nil
}

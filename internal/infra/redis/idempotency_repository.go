package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/redis/go-redis/v9"
)

const idempotencyPrefix = "idempotency:"

// Grava o hash só se a chave ainda não existir; a primeira resposta fica.
var saveResponseScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("HSET", KEYS[1], "status", ARGV[1], "content_type", ARGV[2], "body", ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[4])
end
return 1`)

// IdempotencyRepository guarda cada resposta como um hash
// (status, content_type, body) em idempotency:<chave>.
type IdempotencyRepository struct {
	client *redis.Client
}

func NewIdempotencyRepository(client *redis.Client) *IdempotencyRepository {
	return &IdempotencyRepository{client: client}
}

// Get devolve nil, nil quando a chave não foi vista ou já expirou.
func (r *IdempotencyRepository) Get(ctx context.Context, key string) (*gateway.CachedResponse, error) {
	fields, err := r.client.HGetAll(ctx, idempotencyPrefix+key).Result()
	if err != nil {
		return nil, fmt.Errorf("idempotency %s: %w", key, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	status, err := strconv.Atoi(fields["status"])
	if err != nil {
		return nil, fmt.Errorf("idempotency %s: bad status %q", key, fields["status"])
	}
	return &gateway.CachedResponse{
		StatusCode:  status,
		ContentType: fields["content_type"],
		Body:        []byte(fields["body"]),
	}, nil
}

func (r *IdempotencyRepository) Save(ctx context.Context, key string, response gateway.CachedResponse, ttl time.Duration) error {
	args := []any{response.StatusCode, response.ContentType, response.Body, ttl.Milliseconds()}
	if err := saveResponseScript.Run(ctx, r.client, []string{idempotencyPrefix + key}, args...).Err(); err != nil {
		return fmt.Errorf("idempotency %s: %w", key, err)
	}
	return nil
}

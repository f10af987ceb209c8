package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lockPrefix = "lock:"

// Só apaga a chave se o token ainda for nosso
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`)

// Locker é o lock distribuído por usuário (SET NX PX), para várias instâncias da API.
type Locker struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
}

const defaultLockTTL = 10 * time.Second

// NewLocker usa defaultLockTTL quando ttl <= 0; a chave sempre expira.
func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, ttl: ttl, retryDelay: 25 * time.Millisecond}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := lockPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockNotAcquired, key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockNotAcquired, key, ctx.Err())
		case <-time.After(l.retryDelay):
		}
	}

	return func() {
		// contexto próprio: o da requisição pode já ter sido cancelado
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{lockKey}, token).Err(); err != nil {
			log.Error().Err(err).Str("key", lockKey).Msg("Falha ao liberar lock do usuário")
		}
	}, nil
}

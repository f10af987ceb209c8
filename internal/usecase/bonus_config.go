package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBonusCacheTTL = 5 * time.Minute
	DefaultBonusFallback = int64(500) // R$ 5,00
)

// BonusConfigService mantém em cache o valor do bônus de indicação.
// Nunca retorna erro: sem API, responde com o fallback.
type BonusConfigService struct {
	source   gateway.BonusSource
	ttl      time.Duration
	fallback int64
	metrics  MetricsRecorder
	now      Clock

	mu     sync.Mutex
	cached *domain.BonusConfig
}

func NewBonusConfigService(source gateway.BonusSource, ttl time.Duration, fallback int64, metrics MetricsRecorder, now Clock) *BonusConfigService {
	if ttl <= 0 {
		ttl = DefaultBonusCacheTTL
	}
	if fallback < 0 {
		fallback = DefaultBonusFallback
	}
	if now == nil {
		now = time.Now
	}
	return &BonusConfigService{
		source:   source,
		ttl:      ttl,
		fallback: fallback,
		metrics:  metricsOrNoop(metrics),
		now:      now,
	}
}

// GetBonusAmount devolve o bônus em centavos.
func (s *BonusConfigService) GetBonusAmount(ctx context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.cached != nil && now.Sub(s.cached.FetchedAt) < s.ttl {
		s.metrics.RecordBonusLookup("hit")
		return s.cached.ReferralBonusAmount
	}

	amount, err := s.source.FetchBonusAmount(ctx)
	if err != nil {
		s.metrics.RecordBonusLookup("fallback")
		log.Warn().Err(err).Int64("fallback", s.fallback).Msg("Falha ao buscar bônus de indicação, usando valor padrão")
		return s.fallback
	}

	s.metrics.RecordBonusLookup("miss")
	s.cached = &domain.BonusConfig{ReferralBonusAmount: amount, FetchedAt: now}
	return amount
}

// RefreshCache descarta o cache e busca de novo.
func (s *BonusConfigService) RefreshCache(ctx context.Context) int64 {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	return s.GetBonusAmount(ctx)
}

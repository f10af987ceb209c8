package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// BonusRefresher é o que o agendador precisa do cache de bônus.
type BonusRefresher interface {
	RefreshCache(ctx context.Context) int64
}

// BonusWarmer renova periodicamente o cache do bônus de indicação.
type BonusWarmer struct {
	cron    *cron.Cron
	bonus   BonusRefresher
	timeout time.Duration
}

func NewBonusWarmer(spec string, bonus BonusRefresher, timeout time.Duration) (*BonusWarmer, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	w := &BonusWarmer{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		bonus:   bonus,
		timeout: timeout,
	}
	if _, err := w.cron.AddFunc(spec, w.Run); err != nil {
		return nil, fmt.Errorf("invalid BONUS_REFRESH_SPEC %q: %w", spec, err)
	}
	return w, nil
}

// Run executa uma renovação imediata.
func (w *BonusWarmer) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	amount := w.bonus.RefreshCache(ctx)
	log.Debug().Int64("referral_bonus", amount).Msg("Cache do bônus renovado")
}

func (w *BonusWarmer) Start() {
	w.cron.Start()
}

// Stop espera a execução em andamento terminar.
func (w *BonusWarmer) Stop() {
	<-w.cron.Stop().Done()
}

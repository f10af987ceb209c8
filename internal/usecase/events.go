package usecase

import (
	"context"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/rs/zerolog/log"
)

// EventDispatcher avisa os painéis (balanceUpdated) e publica eventos no RabbitMQ.
// Falhas são apenas logadas: a operação já foi confirmada.
type EventDispatcher struct {
	publisher gateway.EventPublisher
	notifier  gateway.BalanceNotifier
	now       Clock
}

// NewEventDispatcher aceita publisher e notifier nulos (sem RabbitMQ / sem websocket).
func NewEventDispatcher(publisher gateway.EventPublisher, notifier gateway.BalanceNotifier) *EventDispatcher {
	return &EventDispatcher{publisher: publisher, notifier: notifier, now: time.Now}
}

func (d *EventDispatcher) BalanceUpdated(ctx context.Context, userID string, newBalance *int64, shouldAnimate bool) {
	if d == nil {
		return
	}
	event := domain.BalanceUpdatedEvent{
		UserID:        userID,
		Timestamp:     d.now().UTC(),
		ShouldAnimate: shouldAnimate,
		NewBalance:    newBalance,
	}
	if d.notifier != nil {
		d.notifier.NotifyBalanceUpdated(ctx, event)
	}
	d.publish(ctx, gateway.RoutingBalanceUpdated, event)
}

func (d *EventDispatcher) TransactionsCreated(ctx context.Context, userID string, txs ...domain.Transaction) {
	if d == nil {
		return
	}
	for _, tx := range txs {
		d.publish(ctx, gateway.RoutingTransactionCreate, map[string]any{
			"transaction_id":   tx.ID,
			"user_id":          userID,
			"amount":           tx.Amount,
			"type":             tx.Type,
			"balance_type":     tx.BalanceType,
			"previous_balance": tx.PreviousBalance,
			"new_balance":      tx.NewBalance,
			"status":           tx.Status,
		})
	}
}

func (d *EventDispatcher) PlanPurchased(ctx context.Context, userID string, payment domain.Payment, expiresAt time.Time) {
	if d == nil {
		return
	}
	d.publish(ctx, gateway.RoutingPlanPurchased, map[string]any{
		"payment_id": payment.ID,
		"user_id":    userID,
		"plan_name":  payment.PlanName,
		"amount":     payment.Amount,
		"expires_at": expiresAt,
		"status":     payment.Status,
	})
}

func (d *EventDispatcher) publish(ctx context.Context, routingKey string, body any) {
	if d.publisher == nil {
		return
	}
	if err := d.publisher.Publish(ctx, gateway.LedgerExchange, routingKey, body); err != nil {
		// Apenas logamos o erro, não falhamos a operação
		log.Error().Err(err).Str("routing_key", routingKey).Msg("Erro ao publicar evento")
	}
}

package gateway

import (
	"context"

	"github.com/artepuradesign/xapipainel-sub004/internal/domain"
)

const (
	LedgerExchange = "ledger_events"

	RoutingBalanceUpdated    = "balance.updated"
	RoutingTransactionCreate = "transaction.created"
	RoutingPlanPurchased     = "plan.purchased"
)

type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body any) error
}

// BalanceNotifier entrega balanceUpdated aos painéis conectados (websocket).
type BalanceNotifier interface {
	NotifyBalanceUpdated(ctx context.Context, event domain.BalanceUpdatedEvent)
}

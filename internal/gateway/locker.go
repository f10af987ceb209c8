package gateway

import "context"

// Locker serializa mutações de saldo por usuário.
// O unlock devolvido deve ser chamado exatamente uma vez.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

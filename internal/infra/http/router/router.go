package router

import (
	"net/http"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/http/handler"
	idempotency "github.com/artepuradesign/xapipainel-sub004/internal/infra/http/middleware"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps são as peças já montadas que o roteador expõe.
type Deps struct {
	Wallets        *handler.WalletHandler
	Plans          *handler.PlanHandler
	Bonus          *handler.BonusHandler
	Auth           *handler.AuthHandler
	BalanceStream  http.Handler
	Idempotency    gateway.IdempotencyRepository
	IdempotencyTTL time.Duration
	Metrics        *metrics.Metrics
}

func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares globais (Logger, Recover)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if d.BalanceStream != nil {
		r.Method(http.MethodGet, "/ws/balance", d.BalanceStream)
	}

	idempotent := idempotency.Idempotency(d.Idempotency, d.IdempotencyTTL)

	// Rotas HTTP comuns têm timeout; o websocket fica fora.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(30 * time.Second))

		r.Route("/wallets/{userID}", func(r chi.Router) {
			d.Wallets.Routes(r)
			r.Group(func(r chi.Router) {
				r.Use(idempotent)
				d.Wallets.IdempotentRoutes(r)
				r.Post("/plan/purchase", d.Plans.Purchase)
			})
		})

		r.Get("/plans", d.Plans.List)
		r.Get("/plans/quote", d.Plans.Quote)

		r.Get("/bonus", d.Bonus.Get)
		r.Post("/bonus/refresh", d.Bonus.Refresh)

		r.Get("/documents/cpf/{number}", handler.ValidateCPF)
		r.Get("/documents/cnpj/{number}", handler.ValidateCNPJ)

		r.Post("/auth/register", d.Auth.Register)
	})

	return r
}

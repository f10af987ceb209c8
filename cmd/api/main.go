package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/config"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/apiclient"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/catalog"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/http/handler"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/http/router"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/kvstore"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/memory"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/metrics"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/postgres"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/rabbitmq"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/realtime"
	redisInfra "github.com/artepuradesign/xapipainel-sub004/internal/infra/redis"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/scheduler"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/sqlite"
	"github.com/artepuradesign/xapipainel-sub004/internal/logger"
	"github.com/artepuradesign/xapipainel-sub004/internal/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuração inválida")
	}
	logger.Init(cfg.Log)

	ctx := context.Background()

	// Redis é opcional: sem ele a idempotência e o lock ficam em memória.
	var redisClient *redis.Client
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Não foi possível conectar ao Redis (idempotência em memória)")
		_ = client.Close()
	} else {
		redisClient = client
		defer redisClient.Close()
		log.Info().Msg("✅ Conectado ao Redis!")
	}

	store, txManager, closeLedger, err := openLedger(ctx, cfg, redisClient)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.LedgerDriver).Msg("Não foi possível abrir o ledger")
	}
	defer closeLedger()
	log.Info().Str("driver", cfg.LedgerDriver).Msg("✅ Ledger pronto")

	var locker gateway.Locker = memory.NewKeyedLocker()
	if cfg.Locker == "redis" {
		if redisClient == nil {
			log.Fatal().Msg("LOCKER=redis exige Redis disponível")
		}
		locker = redisInfra.NewLocker(redisClient, 0)
	}

	var idempotencyRepo gateway.IdempotencyRepository = memory.NewIdempotencyRepository()
	if redisClient != nil {
		idempotencyRepo = redisInfra.NewIdempotencyRepository(redisClient)
	}

	var eventPublisher gateway.EventPublisher
	if cfg.RabbitMQURL != "" {
		rabbitConn, err := amqp.DialConfig(cfg.RabbitMQURL, amqp.Config{
			Properties: amqp.Table{
				"connection_name": "APIPainel_Publisher",
			},
		})
		if err != nil {
			log.Warn().Err(err).Msg("Falha ao conectar no RabbitMQ (Eventos não serão enviados)")
		} else {
			defer rabbitConn.Close()
			ch, err := rabbitConn.Channel()
			if err != nil {
				log.Fatal().Err(err).Msg("Falha ao abrir canal RabbitMQ")
			}
			defer ch.Close()

			if err := rabbitmq.DeclareExchange(ch, gateway.LedgerExchange); err != nil {
				log.Fatal().Err(err).Msg("Falha ao declarar Exchange")
			}
			eventPublisher = rabbitmq.NewRabbitMQPublisher(ch)
			log.Info().Msg("✅ Conectado ao RabbitMQ!")
		}
	}

	plans, err := catalog.Load(cfg.PlanCatalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Falha ao carregar catálogo de planos")
	}

	m := metrics.New()
	hub := realtime.NewHub()
	events := usecase.NewEventDispatcher(eventPublisher, hub)
	remote := apiclient.New(cfg.APIBaseURL, cfg.APITimeout)
	ledgerRepository := kvstore.NewLedgerRepository(store)

	// Inicialização da Camada de UseCase (Regras de Negócio)
	balances := usecase.NewBalanceService(ledgerRepository, txManager, locker, events, m)
	purchase := usecase.NewPurchasePlanUseCase(ledgerRepository, txManager, locker, plans, events, m, cfg.PlanDuration())
	bonus := usecase.NewBonusConfigService(remote, cfg.BonusCacheTTL, cfg.BonusFallbackCents, m, nil)
	register := usecase.NewRegisterUserUseCase(remote, balances)

	warmer, err := scheduler.NewBonusWarmer(cfg.BonusRefreshSpec, bonus, cfg.APITimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Agendamento do bônus inválido")
	}
	go warmer.Run()
	warmer.Start()
	defer warmer.Stop()

	srv := &http.Server{
		Addr: ":" + cfg.HTTPPort,
		Handler: router.New(router.Deps{
			Wallets:        handler.NewWalletHandler(balances),
			Plans:          handler.NewPlanHandler(usecase.NewQuotePlanUseCase(plans), purchase),
			Bonus:          handler.NewBonusHandler(bonus),
			Auth:           handler.NewAuthHandler(register),
			BalanceStream:  hub,
			Idempotency:    idempotencyRepo,
			IdempotencyTTL: cfg.IdempotencyTTL,
			Metrics:        m,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msgf("🚀 Servidor rodando na porta %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Falha ao iniciar servidor HTTP")
		}
	}()

	// Graceful Shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	log.Info().Msg("Encerrando servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Falha no shutdown do servidor HTTP")
	}
}

// openLedger escolhe o backend do ledger pelo LEDGER_DRIVER.
func openLedger(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (gateway.KeyValueStore, gateway.TransactionManager, func(), error) {
	switch cfg.LedgerDriver {
	case config.DriverPostgres:
		dbPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := dbPool.Ping(ctx); err != nil {
			dbPool.Close()
			return nil, nil, nil, err
		}
		store := postgres.NewKVStore(dbPool)
		if err := store.EnsureSchema(ctx); err != nil {
			dbPool.Close()
			return nil, nil, nil, err
		}
		return store, postgres.NewUow(dbPool), dbPool.Close, nil

	case config.DriverRedis:
		if redisClient == nil {
			return nil, nil, nil, errors.New("LEDGER_DRIVER=redis exige Redis disponível")
		}
		return redisInfra.NewKVStore(redisClient), redisInfra.NewUow(redisClient), func() {}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				log.Error().Err(err).Msg("Erro ao fechar SQLite")
			}
		}
		return store, sqlite.NewUow(store), closeFn, nil

	default:
		store := memory.NewStore()
		return store, memory.NewUow(store), func() {}, nil
	}
}

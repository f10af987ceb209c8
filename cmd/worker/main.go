package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/artepuradesign/xapipainel-sub004/internal/config"
	"github.com/artepuradesign/xapipainel-sub004/internal/gateway"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/mongodb"
	"github.com/artepuradesign/xapipainel-sub004/internal/infra/rabbitmq"
	"github.com/artepuradesign/xapipainel-sub004/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const auditQueue = "audit_queue"

// Eventos auditados: extrato e compras de plano.
var auditBindings = []string{"transaction.#", "plan.#"}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuração inválida")
	}
	logger.Init(cfg.Log)

	if cfg.RabbitMQURL == "" {
		log.Fatal().Msg("RABBITMQ_URL é obrigatório para o worker")
	}

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao criar client MongoDB")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("Erro ao desconectar Mongo")
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Verifica conexão
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal().Err(err).Msg("Erro ao pingar MongoDB")
	}
	log.Info().Msg("✅ Conectado ao MongoDB!")

	auditRepo := mongodb.NewAuditRepository(mongoClient, cfg.MongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Falha ao criar índices de auditoria")
	}

	conn, err := amqp.DialConfig(cfg.RabbitMQURL, amqp.Config{
		Properties: amqp.Table{
			"connection_name": "AuditWorker_Consumer",
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar no RabbitMQ")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar conexão RabbitMQ")
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao abrir canal")
	}
	defer func() {
		if err := ch.Close(); err != nil {
			log.Error().Err(err).Msg("Erro ao fechar canal RabbitMQ")
		}
	}()

	// Prefetch 1: uma mensagem por vez até o Ack.
	if err := ch.Qos(1, 0, false); err != nil {
		log.Fatal().Err(err).Msg("Erro ao configurar QoS")
	}

	if err := rabbitmq.DeclareExchange(ch, gateway.LedgerExchange); err != nil {
		log.Fatal().Err(err).Msg("Erro ao declarar exchange")
	}

	// Declarar a Fila (QUEUE) - Onde as mensagens ficam guardadas
	q, err := ch.QueueDeclare(
		auditQueue, // name
		true,       // durable (sobrevive a restart do server)
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao declarar fila")
	}

	for _, binding := range auditBindings {
		if err := ch.QueueBind(q.Name, binding, gateway.LedgerExchange, false, nil); err != nil {
			log.Fatal().Err(err).Str("binding", binding).Msg("Erro ao fazer bind da fila")
		}
	}

	msgs, err := ch.Consume(
		q.Name,         // queue
		"audit_worker", // consumer tag
		false,          // auto-ack desligado: Ack só depois de salvar no Mongo
		false,          // exclusive
		false,          // no-local
		false,          // no-wait
		nil,            // args
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao registrar consumidor")
	}

	// Monitoramento de queda de conexão
	notifyClose := make(chan *amqp.Error, 1)
	ch.NotifyClose(notifyClose)

	log.Info().Msgf(" [*] Worker iniciado. Aguardando mensagens na fila %s...", q.Name)

	go func() {
		for {
			select {
			case err := <-notifyClose:
				if err != nil {
					log.Error().Err(err).Msg("🔴 Canal RabbitMQ fechado")
					os.Exit(1) // Força o worker a cair para o Docker subir de novo
				}
				return
			case d, ok := <-msgs:
				if !ok {
					log.Error().Msg("🔴 Canal de mensagens fechado.")
					os.Exit(1)
				}
				handleDelivery(auditRepo, d)
			}
		}
	}()

	// Graceful Shutdown (Bloqueia a main até receber sinal)
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)
	<-stopChan

	log.Info().Msg("Encerrando worker...")
}

func handleDelivery(auditRepo *mongodb.AuditRepository, d amqp.Delivery) {
	log.Debug().Str("routing_key", d.RoutingKey).Bytes("body", d.Body).Msg(" [⬇️] Recebido")

	auditLog, err := mongodb.NewAuditLog(d.MessageId, d.RoutingKey, d.Body)
	if err != nil {
		log.Error().Err(err).Msg("Evento inválido, descartando")
		if err := d.Nack(false, false); err != nil {
			log.Error().Err(err).Msg("Erro ao enviar Nack (evento inválido)")
		}
		return
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := auditRepo.Save(saveCtx, auditLog); err != nil {
		log.Error().Err(err).Msg("Erro ao salvar no Mongo")
		if err := d.Nack(false, true); err != nil {
			log.Error().Err(err).Msg("Erro ao enviar Nack (Mongo erro)")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error().Err(err).Msg("Erro ao enviar Ack")
	}
	log.Debug().Str("user_id", auditLog.UserID).Msg(" [✅] Salvo no MongoDB e Ack enviado.")
}

package mongodb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const DefaultDatabase = "apipainel_audit"

// AuditLog representa o documento que será salvo no Mongo.
// Usamos tags 'bson' em vez de 'json'.
type AuditLog struct {
	ID            string    `bson:"_id,omitempty"` // MessageId do RabbitMQ quando houver
	RoutingKey    string    `bson:"routing_key"`
	UserID        string    `bson:"user_id"`
	TransactionID string    `bson:"transaction_id,omitempty"`
	PaymentID     string    `bson:"payment_id,omitempty"`
	PlanName      string    `bson:"plan_name,omitempty"`
	BalanceType   string    `bson:"balance_type,omitempty"`
	Amount        int64     `bson:"amount"`
	Status        string    `bson:"status"`
	Payload       bson.M    `bson:"payload"`
	ProcessedAt   time.Time `bson:"processed_at"`
}

type eventBody struct {
	UserID        string `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id"`
	PlanName      string `json:"plan_name"`
	BalanceType   string `json:"balance_type"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

// NewAuditLog converte um evento do exchange ledger_events no documento de auditoria.
func NewAuditLog(messageID, routingKey string, body []byte) (AuditLog, error) {
	var event eventBody
	if err := json.Unmarshal(body, &event); err != nil {
		return AuditLog{}, fmt.Errorf("invalid event body: %w", err)
	}
	var payload bson.M
	if err := json.Unmarshal(body, &payload); err != nil {
		return AuditLog{}, fmt.Errorf("invalid event body: %w", err)
	}
	if event.UserID == "" {
		return AuditLog{}, fmt.Errorf("event %s without user_id", routingKey)
	}
	return AuditLog{
		ID:            messageID,
		RoutingKey:    routingKey,
		UserID:        event.UserID,
		TransactionID: event.TransactionID,
		PaymentID:     event.PaymentID,
		PlanName:      event.PlanName,
		BalanceType:   event.BalanceType,
		Amount:        event.Amount,
		Status:        event.Status,
		Payload:       payload,
	}, nil
}

type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(client *mongo.Client, dbName string) *AuditRepository {
	if dbName == "" {
		dbName = DefaultDatabase
	}
	// Cria/Obtém a collection "audit_logs"
	collection := client.Database(dbName).Collection("audit_logs")
	return &AuditRepository{collection: collection}
}

// EnsureIndexes cria o índice usado para consultar o histórico por usuário.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "processed_at", Value: -1}},
		Options: options.Index().SetName("user_processed_at"),
	})
	if err != nil {
		return fmt.Errorf("failed to create audit index: %w", err)
	}
	return nil
}

func (r *AuditRepository) Save(ctx context.Context, log AuditLog) error {
	// Adiciona timestamp de processamento
	log.ProcessedAt = time.Now().UTC()

	// InsertOne salva o documento
	_, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil // reentrega do RabbitMQ
		}
		return fmt.Errorf("failed to insert audit log: %w", err)
	}
	return nil
}

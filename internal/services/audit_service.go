package services

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// AuditQueueName is the queue audit events are published to
const AuditQueueName = "asset_audit_events"

// AuditService publishes activity events (logins, grants, card
// lifecycle) to RabbitMQ. Publishing is best-effort: a nil service or a
// broker failure is logged and never fails the parent operation.
type AuditService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAuditService() (*AuditService, error) {
	// Get RabbitMQ connection details from environment
	host := getEnv("RABBITMQ_HOST", "localhost")
	port := getEnv("RABBITMQ_PORT", "5672")
	user := getEnv("RABBITMQ_USER", "guest")
	pass := getEnv("RABBITMQ_PASS", "guest")

	url := fmt.Sprintf("amqp://%s:%s@%s:%s/", user, pass, host, port)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		AuditQueueName, // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	logrus.Info("Audit event publisher initialized")
	return &AuditService{conn: conn, channel: channel}, nil
}

// Publish sends one audit event. Safe on a nil receiver so callers can
// run without a broker.
func (s *AuditService) Publish(event string, actor string, payload map[string]interface{}) {
	if s == nil || s.channel == nil {
		return
	}

	message := map[string]interface{}{
		"event":     event,
		"actor":     actor,
		"timestamp": time.Now().Format(time.RFC3339),
		"payload":   payload,
	}

	body, err := json.Marshal(message)
	if err != nil {
		logrus.Warnf("Failed to marshal audit event '%s': %v", event, err)
		return
	}

	err = s.channel.Publish(
		"",             // exchange
		AuditQueueName, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		logrus.Warnf("Failed to publish audit event '%s': %v", event, err)
	}
}

// Close closes the RabbitMQ connection
func (s *AuditService) Close() error {
	if s == nil {
		return nil
	}
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Warnf("Error closing audit channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Warnf("Error closing audit connection: %v", err)
		}
	}
	return nil
}

// getEnv gets environment variable with fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

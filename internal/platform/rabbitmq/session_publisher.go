package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"pkm-backend/internal/model"
)

// SessionPublisher pushes AI session audit records onto a durable queue
// for asynchronous persistence.
type SessionPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewSessionPublisher(conn *amqp.Connection, queueName string) *SessionPublisher {
	return &SessionPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *SessionPublisher) Record(ctx context.Context, session model.AISession) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := declareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish session failed: %w", err)
	}
	return nil
}

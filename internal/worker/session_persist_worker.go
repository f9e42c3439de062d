package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"pkm-backend/internal/model"
	"pkm-backend/internal/repository"
)

// SessionPersistWorker consumes AI session audit records from the queue
// and inserts them into the database.
type SessionPersistWorker struct {
	conn      *amqp.Connection
	repo      *repository.AISessionRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSessionPersistWorker(conn *amqp.Connection, repo *repository.AISessionRepository, queueName string) *SessionPersistWorker {
	return &SessionPersistWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *SessionPersistWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var session model.AISession
				if err := json.Unmarshal(d.Body, &session); err != nil {
					log.Printf("worker decode session failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				if err := w.repo.Create(&session); err != nil {
					log.Printf("worker persist session failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *SessionPersistWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

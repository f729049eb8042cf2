// Package queue carries notification events between request handlers and
// the background consumer that persists them as notification rows.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/devhire/job-board/internal/model"
	"github.com/devhire/job-board/internal/repository"
)

// StartNotificationConsumer connects to RabbitMQ, declares the durable
// notification queue, and consumes events into the notifications table.
// It runs a reconnect loop with exponential backoff and never returns
// under normal operation; malformed messages are rejected without
// requeue so a poison message cannot wedge the queue.
func StartNotificationConsumer(notifications *repository.NotificationRepo) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL())
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, notifications); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, notifications *repository.NotificationRepo) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(NotificationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.Consume(NotificationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		var event NotificationEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("notification-consumer: bad message, dropping: %v", err)
			_ = d.Reject(false)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := notifications.Create(ctx, &model.Notification{
			UserID:    event.UserID,
			NotifType: event.Type,
			Message:   event.Message,
		})
		cancel()
		if err != nil {
			log.Printf("notification-consumer: insert failed, requeueing: %v", err)
			_ = d.Nack(false, true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

type changeEvent struct {
	EventID    string    `json:"event_id"`
	RecordType string    `json:"record_type"`
	RecordID   string    `json:"record_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type rabbitNotifier struct {
	conn  *amqp.Connection
	queue amqp.Queue
}

// NewRabbitNotifier connects to the broker and declares a durable queue for
// re-index events.
func NewRabbitNotifier(settings *Settings) (Notifier, error) {
	conn, err := amqp.Dial(settings.URI)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	queue, err := ch.QueueDeclare(
		settings.Queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	ch.Close()
	return &rabbitNotifier{conn: conn, queue: queue}, nil
}

func (r *rabbitNotifier) RecordChanged(recordType, recordID string) {
	var event = changeEvent{
		EventID:    uuid.NewString(),
		RecordType: recordType,
		RecordID:   recordID,
		OccurredAt: time.Now().UTC(),
	}
	var body, _ = json.Marshal(event)

	var ch, err = r.conn.Channel()
	if err != nil {
		log.Printf("!!! notify channel error: %v", err)
		return
	}
	defer ch.Close()

	var ctx, cancel = context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := ch.PublishWithContext(ctx,
		"", r.queue.Name, false, false,
		amqp.Publishing{ContentType: "application/json", Body: body},
	); err != nil {
		log.Printf("!!! notify publish error: %v", err)
	}
}

func (r *rabbitNotifier) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ScrapedPostPayload is what the crawler publishes for every classified
// post. Category/Confidence come from the upstream classifier.
type ScrapedPostPayload struct {
	SourceID    string  `json:"source_id"` // post id, stable across re-scrapes
	ContactID   string  `json:"contact_id"`
	ContactName string  `json:"contact_name"`
	BodyText    string  `json:"body_text"`
	SourceURL   string  `json:"source_url"`
	Category    string  `json:"category"` // "job" or "spam"
	Confidence  float64 `json:"confidence"`
}

type Producer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *Producer {
	return &Producer{Conn: conn, Ch: ch}
}

func (p *Producer) PublishScrapedPost(ctx context.Context, payload ScrapedPostPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}

	return nil
}

package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"catalog/internal/models"
)

const eventsTopic = "catalog-events"

// Event is the message published for every product the pipeline writes.
type Event struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Handle    string    `json:"handle"`
	Title     string    `json:"title"`
	Brand     string    `json:"brand"`
	ImageURL  string    `json:"image_url"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher emits import events to Kafka. A nil *Publisher disables the path.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(strings.Split(brokers, ",")...),
			Topic:        eventsTopic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 100 * time.Millisecond,
		},
	}
}

func (p *Publisher) ProductImported(ctx context.Context, product *models.Product, imageURL string) error {
	event := Event{
		Type:      "product.imported",
		ProductID: product.ID,
		Handle:    product.Handle,
		Title:     product.Title,
		Brand:     product.Vendor,
		ImageURL:  imageURL,
		Timestamp: time.Now(),
	}
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(product.Handle),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

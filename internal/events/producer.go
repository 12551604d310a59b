package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Skotchmaster/recommendations/internal/models"
)

const (
	RecommendationCreated  = "recommendation_created"
	RecommendationUpdated  = "recommendation_updated"
	RecommendationDeleted  = "recommendation_deleted"
	RecommendationEnabled  = "recommendation_enabled"
	RecommendationDisabled = "recommendation_disabled"
)

type Event struct {
	ID               string                 `json:"event_id"`
	Type             string                 `json:"type"`
	RecommendationID uint                   `json:"recommendation_id"`
	Recommendation   *models.Recommendation `json:"recommendation,omitempty"`
	OccurredAt       time.Time              `json:"occurred_at"`
}

func NewEvent(typ string, rec *models.Recommendation) Event {
	e := Event{
		ID:         uuid.NewString(),
		Type:       typ,
		OccurredAt: time.Now().UTC(),
	}
	if rec != nil {
		e.RecommendationID = rec.ID
		if typ != RecommendationDeleted {
			snapshot := *rec
			e.Recommendation = &snapshot
		}
	}
	return e
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// messageWriter is the part of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer messageWriter
}

func NewProducer(brokers []string, topic string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka: no brokers configured")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w}, nil
}

// Publish keys messages by recommendation id so that events of one
// recommendation land on one partition in order.
func (p *Producer) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka: json.Marshal failed: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(e.RecommendationID), 10)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(e.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write failed: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }

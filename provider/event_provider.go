package provider

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/events/kafka"
)

// RoundSettledEvent is published after every settled spin.
type RoundSettledEvent struct {
	RoundID       string           `json:"round_id"`
	TransactionID string           `json:"transaction_id"`
	PlayerID      string           `json:"player_id"`
	StudioID      string           `json:"studio_id"`
	GameID        string           `json:"game_id"`
	Wager         int64            `json:"wager"`
	IsWin         bool             `json:"is_win"`
	IsJackpot     bool             `json:"is_jackpot"`
	Rewards       map[string]int64 `json:"rewards"`
	SettledAt     time.Time        `json:"settled_at"`
}

// EventPublisher publishes settlement events to downstream consumers.
type EventPublisher interface {
	PublishRoundSettled(event RoundSettledEvent)
}

// KafkaEventPublisher publishes settlement events via the async Kafka
// producer. Publishing is fire-and-forget: a broker outage never blocks
// or fails a spin.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaEventPublisher creates a Kafka-backed event publisher.
func NewKafkaEventPublisher(producer *kafka.Producer, topic string, logger zerolog.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *KafkaEventPublisher) PublishRoundSettled(event RoundSettledEvent) {
	if p.producer == nil {
		return
	}
	if err := p.producer.SendMessage(p.topic, event.PlayerID, event); err != nil {
		p.logger.Error().Err(err).Str("round_id", event.RoundID).Msg("Failed to publish round settled event")
	}
}

// NoopEventPublisher drops all events, for tests and local runs.
type NoopEventPublisher struct{}

func (NoopEventPublisher) PublishRoundSettled(RoundSettledEvent) {}

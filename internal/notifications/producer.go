package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/harshnandal981/Advermo-sub000/internal/bookings"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/apperrors"
	"github.com/harshnandal981/Advermo-sub000/internal/shared/config"
	"github.com/harshnandal981/Advermo-sub000/pkg/logger"

	"github.com/IBM/sarama"
)

// KafkaProducerConfig contains configuration for the Kafka transition producer
type KafkaProducerConfig struct {
	Brokers          []string
	TransitionTopic  string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		TransitionTopic:  "booking-transitions",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

// ProducerConfigFrom overlays the environment settings on the defaults
func ProducerConfigFrom(cfg config.KafkaConfig) *KafkaProducerConfig {
	producerCfg := DefaultKafkaProducerConfig()
	if len(cfg.Brokers) > 0 {
		producerCfg.Brokers = cfg.Brokers
	}
	if cfg.TransitionTopic != "" {
		producerCfg.TransitionTopic = cfg.TransitionTopic
	}
	return producerCfg
}

// KafkaTransitionPublisher publishes committed booking transitions to Kafka.
// It implements bookings.EventPublisher.
type KafkaTransitionPublisher struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
	log      *logger.Logger
}

// NewKafkaTransitionPublisher creates a new Kafka transition publisher
func NewKafkaTransitionPublisher(config *KafkaProducerConfig) (*KafkaTransitionPublisher, error) {
	saramaConfig := sarama.NewConfig()

	// Producer configuration
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	// Enable idempotent producer
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps a booking's transitions ordered
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	publisher := NewKafkaTransitionPublisherWithProducer(producer, config)
	publisher.log.Info("Kafka transition producer created", "brokers", config.Brokers, "topic", config.TransitionTopic)
	return publisher, nil
}

// NewKafkaTransitionPublisherWithProducer wraps an existing producer.
func NewKafkaTransitionPublisherWithProducer(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaTransitionPublisher {
	return &KafkaTransitionPublisher{
		producer: producer,
		config:   config,
		log:      logger.GetDefault(),
	}
}

// PublishTransition publishes a single transition to Kafka
func (p *KafkaTransitionPublisher) PublishTransition(ctx context.Context, event bookings.BookingTransitioned) error {
	notification := FromTransition(event)

	messageBytes, err := notification.ToJSON()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal booking transition")
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.TransitionTopic,
		Key:       sarama.StringEncoder(notification.GetPartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Headers:   p.createHeaders(notification),
		Timestamp: notification.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return apperrors.External(err, "failed to publish booking transition")
	}

	p.log.DebugWithContext(ctx, "Booking transition published", map[string]interface{}{
		"topic":      p.config.TransitionTopic,
		"partition":  partition,
		"offset":     offset,
		"type":       string(notification.Type),
		"booking_id": event.BookingID.String(),
	})
	return nil
}

// createHeaders creates Kafka headers for transitions
func (p *KafkaTransitionPublisher) createHeaders(n *TransitionNotification) []sarama.RecordHeader {
	headers := []sarama.RecordHeader{
		{Key: []byte("notification_id"), Value: []byte(n.ID.String())},
		{Key: []byte("notification_type"), Value: []byte(n.Type)},
		{Key: []byte("priority"), Value: []byte(n.Priority)},
		{Key: []byte("booking_id"), Value: []byte(n.Transition.BookingID.String())},
		{Key: []byte("to_status"), Value: []byte(n.Transition.To)},
		{Key: []byte("version"), Value: []byte(n.Version)},
		{Key: []byte("producer"), Value: []byte("advermo-bookings")},
		{Key: []byte("created_at"), Value: []byte(n.CreatedAt.Format(time.RFC3339))},
	}

	if n.Transition.From != "" {
		headers = append(headers, sarama.RecordHeader{
			Key:   []byte("from_status"),
			Value: []byte(n.Transition.From),
		})
	}

	return headers
}

// Close closes the Kafka producer
func (p *KafkaTransitionPublisher) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
		p.log.Info("Kafka transition producer closed")
	}
	return nil
}

// NewPublisher returns the Kafka publisher when enabled and the log publisher otherwise.
// The returned close function is never nil.
func NewPublisher(cfg config.KafkaConfig) (bookings.EventPublisher, func() error, error) {
	if !cfg.Enabled {
		return bookings.NewLogPublisher(nil), func() error { return nil }, nil
	}
	publisher, err := NewKafkaTransitionPublisher(ProducerConfigFrom(cfg))
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}

package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/token-dispenser/pkg/mq/batcher"
	"github.com/huynhanx03/token-dispenser/pkg/settings"
)

// partitionKey pins every event to one partition so consumers read them in Seq order.
const partitionKey = "dispenser"

// KafkaSink sends batches of messages to one topic.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

var _ batcher.Consumer[Message] = (*KafkaSink)(nil)

func NewKafkaSink(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic, logger: logger}
}

// NewSyncProducer connects a sarama producer configured from cfg.
func NewSyncProducer(cfg settings.Kafka) (sarama.SyncProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, ProducerConfig(cfg))
	if err != nil {
		return nil, errors.Wrap(err, "events: connect kafka producer")
	}
	return producer, nil
}

// ProducerConfig builds the sarama configuration for cfg.
func ProducerConfig(cfg settings.Kafka) *sarama.Config {
	sc := sarama.NewConfig()
	sc.ClientID = "token-dispenser"
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Return.Successes = true
	sc.Producer.Return.Errors = true

	if cfg.MaxRetries > 0 {
		sc.Producer.Retry.Max = cfg.MaxRetries
	}
	if cfg.RetryBackoff > 0 {
		sc.Producer.Retry.Backoff = time.Duration(cfg.RetryBackoff) * time.Millisecond
	}
	if cfg.MaxMessageBytes > 0 {
		sc.Producer.MaxMessageBytes = cfg.MaxMessageBytes
	}
	if cfg.Timeout > 0 {
		timeout := time.Duration(cfg.Timeout) * time.Second
		sc.Producer.Timeout = timeout
		sc.Net.DialTimeout = timeout
		sc.Net.WriteTimeout = timeout
	}
	return sc
}

// Consume implements batcher.Consumer.
func (k *KafkaSink) Consume(ctx context.Context, batch []Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs := make([]*sarama.ProducerMessage, 0, len(batch))
	for _, m := range batch {
		payload, err := json.Marshal(m)
		if err != nil {
			return errors.Wrapf(err, "events: marshal %s", m.ID)
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic:     k.topic,
			Key:       sarama.StringEncoder(partitionKey),
			Value:     sarama.ByteEncoder(payload),
			Timestamp: m.At,
		})
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		return errors.Wrapf(err, "events: send %d messages", len(msgs))
	}
	k.logger.Debug("events published", zap.Int("count", len(msgs)), zap.String("topic", k.topic))
	return nil
}

// Close closes the underlying producer.
func (k *KafkaSink) Close() error {
	return k.producer.Close()
}

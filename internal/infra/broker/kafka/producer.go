package kafka

import (
	"context"

	"github.com/IBM/sarama"
)

// Producer publishes outbox events to Kafka through a synchronous idempotent
// producer, so a confirmed send means the broker accepted exactly one copy.
type Producer struct {
	sync sarama.SyncProducer
}

// producerConfig fills in the settings the outbox path depends on. Idempotent
// production requires acks from all in-sync replicas and a single in-flight
// request per connection; sarama rejects the combination otherwise.
func producerConfig(cfg *sarama.Config) *sarama.Config {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer connects to the brokers. A nil cfg starts from sarama defaults;
// either way the idempotence settings above are applied on top.
func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	sync, err := sarama.NewSyncProducer(brokers, producerConfig(cfg))
	if err != nil {
		return nil, err
	}
	return &Producer{sync: sync}, nil
}

// Publish sends one event, keyed by aggregate id so per-booking ordering
// survives partitioning.
func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	hs := make([]sarama.RecordHeader, 0, len(headers))
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	}
	_, _, err := p.sync.SendMessage(msg)
	return err
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}

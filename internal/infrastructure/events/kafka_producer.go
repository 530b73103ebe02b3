package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"artisanmart/pkg/logger"
)

const (
	TopicOrderPaid      = "order.paid"
	TopicOrderClosed    = "order.closed"
	TopicAuctionBid     = "auction.bid"
	TopicSubscriptionOn = "subscription.activated"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
}

func NewKafkaPublisher(brokers []string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka producer: %w", err)
	}
	return NewKafkaPublisherWithProducer(producer), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish sends event as JSON to topic, partitioned by key.
func (p *KafkaPublisher) Publish(ctx context.Context, topic, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", topic, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send %s message: %w", topic, err)
	}

	logger.Debug("Published %s event key=%s partition=%d offset=%d", topic, key, partition, offset)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// Nop drops events. Used when KAFKA_BROKERS is unset.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, interface{}) error { return nil }

package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	defer producer.Close()

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got map[string]string
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		if got["orderId"] != "ORDER_1" {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewKafkaPublisherWithProducer(producer)
	err := p.Publish(context.Background(), TopicOrderPaid, "ORDER_1", map[string]string{"orderId": "ORDER_1"})
	require.NoError(t, err)
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	defer producer.Close()

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer)
	err := p.Publish(context.Background(), TopicAuctionBid, "a1", map[string]int{"amount": 1})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
}

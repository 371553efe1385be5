package kafka

import (
	"context"

	"interior-media/internal/broker"
	"interior-media/internal/config"

	kafka "github.com/segmentio/kafka-go"
	wbkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/retry"
)

type ConsumerClient struct {
	consumer *wbkafka.Consumer
}

func NewConsumerClient(cfg *config.Config) *ConsumerClient {
	return &ConsumerClient{
		consumer: wbkafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.StatusTopic, cfg.Kafka.GroupID),
	}
}

// Start pumps status events into out until ctx is cancelled.
func (c *ConsumerClient) Start(ctx context.Context, out chan<- *broker.Message, strategy retry.Strategy) {
	raw := make(chan kafka.Message)
	c.consumer.StartConsuming(ctx, raw, strategy)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-raw:
				if !ok {
					return
				}
				out <- &broker.Message{Key: msg.Key, Value: msg.Value}
			}
		}
	}()
}

func (c *ConsumerClient) Close() error {
	return c.consumer.Close()
}

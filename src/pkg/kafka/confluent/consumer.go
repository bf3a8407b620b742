package kafka

import (
	"fmt"
	"time"

	"dispatch-service/src/pkg/log"

	k "gopkg.in/confluentinc/confluent-kafka-go.v1/kafka"
)

type consumer struct {
	consumer *k.Consumer
	handler  ConsumerHandler
	log      log.Log
	quit     chan struct{}
}

func NewConsumer(config *k.ConfigMap, logger log.Log) (Consumer, error) {
	c, err := k.NewConsumer(config)
	if err != nil {
		return nil, err
	}
	return &consumer{
		consumer: c,
		log:      logger,
		quit:     make(chan struct{}),
	}, nil
}

func (c *consumer) SetHandler(handler ConsumerHandler) {
	c.handler = handler
}

func (c *consumer) Subscribe(topics ...string) {
	if err := c.consumer.SubscribeTopics(topics, nil); err != nil {
		c.log.Error("kafka-consumer", err.Error(), "Subscribe", fmt.Sprintf("%v", topics))
		return
	}

	go func() {
		for {
			select {
			case <-c.quit:
				return
			default:
				msg, err := c.consumer.ReadMessage(500 * time.Millisecond)
				if err != nil {
					if kErr, ok := err.(k.Error); ok && kErr.Code() == k.ErrTimedOut {
						continue
					}
					c.log.Error("kafka-consumer", err.Error(), "ReadMessage", "")
					continue
				}
				if c.handler != nil {
					c.handler.HandleMessage(msg)
				}
			}
		}
	}()
}

func (c *consumer) Close() {
	close(c.quit)
	if err := c.consumer.Close(); err != nil {
		c.log.Error("kafka-consumer", err.Error(), "Close", "")
	}
}

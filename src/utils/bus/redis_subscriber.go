package bus

import (
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/redis/go-redis/v9"
)

// Per-topic subscriptions over Redis pub/sub
type RedisSubscriber struct {
	*task.Task

	client *redis.Client
}

func NewRedisSubscriber(config *config.Config, name string) (self *RedisSubscriber) {
	self = new(RedisSubscriber)

	self.Task = task.NewTask(config, name).
		WithOnBeforeStart(self.connect).
		WithOnAfterStop(self.disconnect)

	return
}

func (self *RedisSubscriber) connect() (err error) {
	self.client, err = newClient(&self.Config.Redis, self.Name)
	if err != nil {
		self.Log.WithError(err).Error("Failed to connect to Redis")
	}
	return
}

func (self *RedisSubscriber) disconnect() {
	err := self.client.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close connection")
	}
}

// Subscribe opens a stream of messages published on the topic.
// Calling cancel closes the subscription and the stream, symmetric
// with the subscribe so no goroutine outlives the caller's interest.
func (self *RedisSubscriber) Subscribe(topic string) (out <-chan Message, cancel func(), err error) {
	pubsub := self.client.Subscribe(self.Ctx, topic)

	// Make sure the subscription is live before handing it out
	_, err = pubsub.Receive(self.Ctx)
	if err != nil {
		_ = pubsub.Close()
		return
	}

	messages := make(chan Message)
	go func() {
		defer close(messages)
		for msg := range pubsub.Channel() {
			select {
			case <-self.Ctx.Done():
				return
			case messages <- Message{Topic: msg.Channel, Data: []byte(msg.Payload)}:
			}
		}
	}()

	cancel = func() {
		err := pubsub.Close()
		if err != nil {
			self.Log.WithError(err).Error("Failed to close subscription")
		}
	}

	out = messages
	return
}

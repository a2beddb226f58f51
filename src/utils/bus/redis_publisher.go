package bus

import (
	"context"
	"encoding"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/redis/go-redis/v9"
)

// Forwards escrow notifications to Redis, one pub/sub channel per escrow
type RedisPublisher struct {
	*task.Task

	monitor monitoring.Monitor

	client *redis.Client
	input  chan *model.EscrowNotification
}

func NewRedisPublisher(config *config.Config, name string) (self *RedisPublisher) {
	self = new(RedisPublisher)

	self.Task = task.NewTask(config, name).
		WithSubtaskFunc(self.run).
		WithOnBeforeStart(self.connect).
		WithOnAfterStop(self.disconnect).
		WithWorkerPool(config.Redis.MaxWorkers)

	return
}

func (self *RedisPublisher) WithInputChannel(v chan *model.EscrowNotification) *RedisPublisher {
	self.input = v
	return self
}

func (self *RedisPublisher) WithMonitor(monitor monitoring.Monitor) *RedisPublisher {
	self.monitor = monitor
	return self
}

func (self *RedisPublisher) connect() (err error) {
	self.client, err = newClient(&self.Config.Redis, self.Name)
	if err != nil {
		self.Log.WithError(err).Error("Failed to connect to Redis")
	}
	return
}

func (self *RedisPublisher) disconnect() {
	err := self.client.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close connection")
	}
}

// Publish implements the bus contract for callers outside the input channel
func (self *RedisPublisher) Publish(ctx context.Context, topic string, msg encoding.BinaryMarshaler) error {
	return self.client.Publish(ctx, topic, msg).Err()
}

func (self *RedisPublisher) publish(notification *model.EscrowNotification) {
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.Config.Redis.MaxElapsedTime).
		WithMaxInterval(self.Config.Redis.MaxInterval).
		WithOnError(func(err error) {
			self.Log.WithError(err).Error("Failed to publish message, retrying")
			self.monitor.GetReport().RedisPublisher.Errors.Publish.Inc()
		}).
		Run(func() (err error) {
			return self.Publish(self.Ctx, notification.Channel(), notification)
		})
	if err != nil {
		self.Log.WithError(err).Error("Failed to publish message, giving up")
		self.monitor.GetReport().RedisPublisher.Errors.PersistentFailure.Inc()
		return
	}

	self.monitor.GetReport().RedisPublisher.State.MessagesPublished.Inc()
	self.monitor.GetReport().RedisPublisher.State.LastSuccessfulMessageTimestamp.Store(time.Now().Unix())
}

func (self *RedisPublisher) run() (err error) {
	for notification := range self.input {
		notification := notification
		self.SubmitToWorker(func() {
			self.publish(notification)
		})
	}
	return nil
}

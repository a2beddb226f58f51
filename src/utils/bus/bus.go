package bus

import (
	"context"
	"encoding"
)

// Message delivered to a subscriber of a topic
type Message struct {
	Topic string
	Data  []byte
}

// Publisher is the narrow contract the ledger publishes through.
// It decouples state transitions from any particular transport.
type Publisher interface {
	Publish(ctx context.Context, topic string, msg encoding.BinaryMarshaler) error
}

// Subscriber delivers per-topic message streams. The returned cancel
// function releases the subscription and closes the stream.
type Subscriber interface {
	Subscribe(topic string) (out <-chan Message, cancel func(), err error)
}

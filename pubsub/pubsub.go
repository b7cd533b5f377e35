// Package pubsub carries device events of the LED matrix service to
// observers.
package pubsub

import (
	"context"
	"time"

	"github.com/enverbisevac/cbn/colour"
)

type Topic string

const (
	TopicLock    Topic = "lock"
	TopicColours Topic = "colours"
)

type Kind string

const (
	KindGranted  Kind = "granted"
	KindBusy     Kind = "busy"
	KindAccepted Kind = "accepted"
	KindRejected Kind = "rejected"
)

// Event is something that happened on the device.
type Event struct {
	Topic Topic
	Kind  Kind
	Time  time.Time

	// Token involved, empty for busy replies.
	Token string

	// Status code of the reply.
	Code uint

	// State is set for accepted colours.
	State *colour.State
}

type Publisher interface {
	// Publish sends e to every subscriber of e.Topic.
	Publish(ctx context.Context, e Event) error
}

type Consumer interface {
	Close() error
}

type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event) error, topics ...Topic) Consumer
	SubscribeChan(ctx context.Context, topics ...Topic) (Consumer, <-chan Event)
}

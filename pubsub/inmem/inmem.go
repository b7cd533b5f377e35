package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/enverbisevac/cbn/errors"
	"github.com/enverbisevac/cbn/pubsub"
	"github.com/go-logr/logr"
	"golang.org/x/exp/slices"
)

var ErrClosed = errors.New("pubsub: subscriber is closed")

var (
	_ pubsub.Publisher  = (*PubSub)(nil)
	_ pubsub.Subscriber = (*PubSub)(nil)
)

type PubSub struct {
	config   Config
	mutex    sync.Mutex
	registry []*subscriber
}

// New creates an in-memory pubsub.
func New(options ...Option) *PubSub {
	config := Config{
		SendTimeout: time.Second,
		ChannelSize: 100,
	}

	for _, f := range options {
		f.Apply(&config)
	}
	return &PubSub{
		config:   config,
		registry: make([]*subscriber, 0, 4),
	}
}

func (ps *PubSub) subscribe(topics []pubsub.Topic) *subscriber {
	s := &subscriber{
		ps:      ps,
		topics:  slices.Clone(topics),
		channel: make(chan pubsub.Event, ps.config.ChannelSize),
	}

	ps.mutex.Lock()
	ps.registry = append(ps.registry, s)
	ps.mutex.Unlock()

	return s
}

// Subscribe runs handler for every event on topics until ctx ends or the
// consumer is closed.
func (ps *PubSub) Subscribe(
	ctx context.Context,
	handler func(pubsub.Event) error,
	topics ...pubsub.Topic,
) pubsub.Consumer {
	s := ps.subscribe(topics)
	go s.start(ctx, handler)
	return s
}

// SubscribeChan delivers events on topics to the returned channel. The
// channel is closed with the consumer.
func (ps *PubSub) SubscribeChan(
	_ context.Context,
	topics ...pubsub.Topic,
) (pubsub.Consumer, <-chan pubsub.Event) {
	s := ps.subscribe(topics)
	return s, s.channel
}

// Publish delivers e to every open subscriber of e.Topic. A subscriber that
// stays full for longer than the send timeout misses the event.
func (ps *PubSub) Publish(ctx context.Context, e pubsub.Event) error {
	log := logr.FromContextOrDiscard(ctx)
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	ps.mutex.Lock()
	targets := make([]*subscriber, 0, len(ps.registry))
	for _, s := range ps.registry {
		if slices.Contains(s.topics, e.Topic) {
			targets = append(targets, s)
		}
	}
	ps.mutex.Unlock()

	if len(targets) == 0 {
		log.V(1).Info("no subscribers", "topic", e.Topic)
		return nil
	}

	wg := sync.WaitGroup{}
	for _, s := range targets {
		wg.Add(1)
		go func(s *subscriber) {
			defer wg.Done()
			if !s.send(ctx, e, ps.config.SendTimeout) {
				log.V(1).Info("event dropped", "topic", e.Topic, "kind", e.Kind)
			}
		}(s)
	}
	wg.Wait()

	return nil
}

// Close closes every subscriber.
func (ps *PubSub) Close(_ context.Context) error {
	ps.mutex.Lock()
	registry := slices.Clone(ps.registry)
	ps.mutex.Unlock()

	for _, s := range registry {
		if err := s.Close(); err != nil && !errors.Is(err, ErrClosed) {
			return err
		}
	}
	return nil
}

func (ps *PubSub) remove(s *subscriber) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()
	if i := slices.Index(ps.registry, s); i >= 0 {
		ps.registry = slices.Delete(ps.registry, i, i+1)
	}
}

type subscriber struct {
	ps      *PubSub
	topics  []pubsub.Topic
	channel chan pubsub.Event

	mutex  sync.RWMutex
	closed bool
}

func (s *subscriber) start(ctx context.Context, handler func(pubsub.Event) error) {
	log := logr.FromContextOrDiscard(ctx)
	for {
		select {
		case <-ctx.Done():
			_ = s.Close()
			return
		case e, ok := <-s.channel:
			if !ok {
				return
			}
			if err := handler(e); err != nil {
				log.Error(err, "event handler failed", "topic", e.Topic, "kind", e.Kind)
			}
		}
	}
}

// send holds the read lock so Close cannot close the channel mid-send.
func (s *subscriber) send(ctx context.Context, e pubsub.Event, timeout time.Duration) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return false
	}

	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case s.channel <- e:
		return true
	case <-ctx.Done():
		return false
	case <-t.C:
		return false
	}
}

func (s *subscriber) Close() error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrClosed
	}
	s.closed = true
	close(s.channel)
	s.mutex.Unlock()

	s.ps.remove(s)
	return nil
}

package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"

	"github.com/agroconnect/agroconnect-backend/pkg/enums"
	"github.com/agroconnect/agroconnect-backend/pkg/logger"
	redisclient "github.com/agroconnect/agroconnect-backend/pkg/redis"
)

const (
	relayChannel        = "realtime"
	relayMaxBackoff     = 30 * time.Second
	relayInitialBackoff = 500 * time.Millisecond
)

type subscription interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

type publishFunc func(ctx context.Context, channel string, payload any) error

type subscribeFunc func(ctx context.Context, channel string) (subscription, error)

// Relay publishes events on a Redis channel and replays everything received
// on it into the local hub, so clients connected to any instance see the
// same stream.
type Relay struct {
	hub       *Hub
	channel   string
	publish   publishFunc
	subscribe subscribeFunc
	logg      *logger.Logger
	now       func() time.Time
}

// NewRelay binds hub to the shared realtime channel of client.
func NewRelay(client *redisclient.Client, hub *Hub, logg *logger.Logger) (*Relay, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if hub == nil {
		return nil, fmt.Errorf("hub required")
	}
	return &Relay{
		hub:     hub,
		channel: client.ChannelName(relayChannel),
		publish: client.Publish,
		subscribe: func(ctx context.Context, channel string) (subscription, error) {
			return client.Subscribe(ctx, channel)
		},
		logg: logg,
		now:  time.Now,
	}, nil
}

// Publish sends the event to every instance, including this one.
func (r *Relay) Publish(ctx context.Context, eventType enums.RealtimeEventType, data any) error {
	evt, err := NewEvent(eventType, data, r.now())
	if err != nil {
		return err
	}
	frame, err := encode(evt)
	if err != nil {
		return err
	}
	if err := r.publish(ctx, r.channel, string(frame)); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	r.hub.metrics.EventBroadcast(eventType.String())
	return nil
}

// Run consumes the channel until ctx ends, resubscribing with exponential
// backoff when the subscription drops.
func (r *Relay) Run(ctx context.Context) error {
	backoff := retry.WithCappedDuration(relayMaxBackoff, retry.NewExponential(relayInitialBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.consume(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		if r.logg != nil {
			r.logg.Error(ctx, "realtime relay subscription lost", err)
		}
		return retry.RetryableError(err)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *Relay) consume(ctx context.Context) (err error) {
	sub, err := r.subscribe(ctx, r.channel)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, sub.Close())
	}()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return fmt.Errorf("relay channel %s closed", r.channel)
			}
			if err := r.hub.deliver(ctx, []byte(msg.Payload)); err != nil {
				return nil
			}
		}
	}
}

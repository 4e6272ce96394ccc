package redis

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/relay"
)

const queueSize = 256

type broadcast struct {
	channel string
	body    []byte
}

// Relay publishes room events to redis pub/sub channels through an internal
// dispatch queue, so callers never block on the network past enqueueing.
type Relay struct {
	rc     *redis.Client
	queue  chan broadcast
	done   chan struct{}
	logger *slog.Logger
}

func NewRelay(rc *redis.Client, logger *slog.Logger) *Relay {
	r := &Relay{
		rc:     rc,
		queue:  make(chan broadcast, queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
	go r.dispatch()
	return r
}

func ChannelName(roomId string) string {
	return "room:" + roomId
}

func (r *Relay) Broadcast(ctx context.Context, roomId string, event domain.Event, payload any) {
	body, err := json.Marshal(relay.Envelope{Event: event, Data: payload})
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to marshal broadcast", "event", event, "error", err)
		return
	}

	select {
	case r.queue <- broadcast{channel: ChannelName(roomId), body: body}:
	default:
		r.logger.WarnContext(ctx, "relay queue full, dropping broadcast", "room_id", roomId, "event", event)
	}
}

func (r *Relay) dispatch() {
	for b := range r.queue {
		if err := r.rc.Publish(context.Background(), b.channel, b.body).Err(); err != nil {
			r.logger.Error("failed to publish broadcast", "channel", b.channel, "error", err)
		}
	}
	close(r.done)
}

// Subscribe opens a pub/sub subscription on the room's channel and forwards
// raw payloads until the context is done or the returned cancel func is
// called.
func (r *Relay) Subscribe(ctx context.Context, roomId string) (<-chan []byte, func()) {
	ps := r.rc.Subscribe(ctx, ChannelName(roomId))
	out := make(chan []byte)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ps.Channel():
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, func() {
		if err := ps.Close(); err != nil {
			r.logger.Debug("failed to close subscription", "room_id", roomId, "error", err)
		}
	}
}

// Close drains queued broadcasts and stops the dispatcher.
func (r *Relay) Close() {
	close(r.queue)
	<-r.done
}

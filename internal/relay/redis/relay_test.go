package redis

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/relay"
)

func newTestRelay(t *testing.T) *Relay {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	r := NewRelay(rc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(r.Close)

	return r
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	r := newTestRelay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, unsubscribe := r.Subscribe(ctx, "room-1")
	defer unsubscribe()

	// the subscription handshake races the publish, give it a moment
	time.Sleep(50 * time.Millisecond)

	r.Broadcast(ctx, "room-1", domain.EventPlay, map[string]any{"media_time": 12.5})

	select {
	case payload := <-events:
		var envelope relay.Envelope
		require.NoError(t, json.Unmarshal(payload, &envelope))
		assert.Equal(t, domain.EventPlay, envelope.Event)
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestSubscriberOnlySeesOwnRoom(t *testing.T) {
	r := newTestRelay(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events, unsubscribe := r.Subscribe(ctx, "room-a")
	defer unsubscribe()

	time.Sleep(50 * time.Millisecond)

	r.Broadcast(ctx, "room-b", domain.EventPause, nil)
	r.Broadcast(ctx, "room-a", domain.EventSeek, nil)

	select {
	case payload := <-events:
		var envelope relay.Envelope
		require.NoError(t, json.Unmarshal(payload, &envelope))
		assert.Equal(t, domain.EventSeek, envelope.Event, "events from other rooms must not leak in")
	case <-ctx.Done():
		t.Fatal("timed out waiting for broadcast")
	}
}

func TestUnsubscribeClosesStream(t *testing.T) {
	r := newTestRelay(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, unsubscribe := r.Subscribe(ctx, "room-1")
	unsubscribe()

	select {
	case _, ok := <-events:
		assert.False(t, ok, "channel must close after unsubscribe")
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestChannelName(t *testing.T) {
	assert.Equal(t, "room:abc", ChannelName("abc"))
}

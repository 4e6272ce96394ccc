package relay

import (
	"context"

	"github.com/watchroom/server/internal/domain"
)

// Broadcaster pushes room events to connected clients out of band. Delivery
// is best-effort: implementations log failures and never surface them to the
// operation that triggered the broadcast.
type Broadcaster interface {
	Broadcast(ctx context.Context, roomId string, event domain.Event, payload any)
}

// Envelope is the wire shape delivered to subscribers of a room channel.
type Envelope struct {
	Event domain.Event `json:"event"`
	Data  any          `json:"data"`
}

package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/watchroom/server/internal/service/room"
)

// subscribeRoom upgrades the request to a websocket and streams the room's
// relay channel to the client. The connection doubles as presence: the
// participant is marked "in" while it lives and "out" when it closes, and the
// close of the last connection reports the room as vacated.
func (c controller) subscribeRoom(w http.ResponseWriter, r *http.Request) {
	roomId := chi.URLParam(r, "room-id")
	user := userFromCtx(r.Context())

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	if err := c.roomService.ConnectParticipant(r.Context(), &room.ConnectParticipantParams{
		RoomId: roomId,
		UserId: user.Id,
	}); err != nil {
		c.logger.InfoContext(r.Context(), "failed to connect participant", "error", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "not a room member"))
		return
	}

	c.hub.add(roomId, conn)
	defer func() {
		vacated := c.hub.remove(roomId, conn)
		// The request context is done once the handler returns, so the
		// presence update runs on its own context.
		if err := c.roomService.DisconnectParticipant(context.WithoutCancel(r.Context()), &room.DisconnectParticipantParams{
			RoomId:      roomId,
			UserId:      user.Id,
			RoomVacated: vacated,
		}); err != nil {
			c.logger.ErrorContext(r.Context(), "failed to disconnect participant",
				"room_id", roomId, "user_id", user.Id, "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	events, unsubscribe := c.subscriber.Subscribe(ctx, roomId)
	defer unsubscribe()

	// Read pump. The client never sends application messages; reading is
	// only how we learn the connection closed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.DebugContext(r.Context(), "failed to write to websocket",
					"room_id", roomId, "user_id", user.Id, slog.Any("error", err))
				return
			}
		}
	}
}

package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/rest"
)

type createRoomRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	created, err := c.roomService.CreateRoom(r.Context(), &room.CreateRoomParams{
		Name:      req.Name,
		CreatorId: userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": created})
}

func (c controller) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.roomService.ListRooms(r.Context(), userFromCtx(r.Context()).Id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": rooms})
}

func (c controller) getRoom(w http.ResponseWriter, r *http.Request) {
	info, err := c.roomService.GetRoom(r.Context(), chi.URLParam(r, "room-id"), userFromCtx(r.Context()).Id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": info})
}

func (c controller) removeRoom(w http.ResponseWriter, r *http.Request) {
	err := c.roomService.RemoveRoom(r.Context(), &room.RemoveRoomParams{
		RoomId:   chi.URLParam(r, "room-id"),
		SenderId: userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "room removed"})
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	joined, err := c.roomService.JoinRoom(r.Context(), &room.JoinRoomParams{
		RoomId: chi.URLParam(r, "room-id"),
		UserId: userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": joined})
}

func (c controller) leaveRoom(w http.ResponseWriter, r *http.Request) {
	err := c.roomService.LeaveRoom(r.Context(), &room.LeaveRoomParams{
		RoomId: chi.URLParam(r, "room-id"),
		UserId: userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "left room"})
}

func (c controller) removeParticipant(w http.ResponseWriter, r *http.Request) {
	err := c.roomService.RemoveParticipant(r.Context(), &room.RemoveParticipantParams{
		RoomId:        chi.URLParam(r, "room-id"),
		RemovedUserId: chi.URLParam(r, "user-id"),
		SenderId:      userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "participant removed"})
}

type sendMessageRequest struct {
	RoomId  string `json:"room_id" validate:"required"`
	Content string `json:"content" validate:"required,max=2000"`
}

func (c controller) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	msg, err := c.roomService.SendMessage(r.Context(), &room.SendMessageParams{
		RoomId:  req.RoomId,
		UserId:  userFromCtx(r.Context()).Id,
		Content: req.Content,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": msg})
}

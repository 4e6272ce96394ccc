package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/rest"
)

type addMediaRequest struct {
	RoomId string `json:"room_id" validate:"required"`
	URL    string `json:"url" validate:"required,url"`
}

func (c controller) addMedia(w http.ResponseWriter, r *http.Request) {
	var req addMediaRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.roomService.AddMedia(r.Context(), &room.AddMediaParams{
		RoomId: req.RoomId,
		UserId: userFromCtx(r.Context()).Id,
		URL:    req.URL,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp.AddedMedia})
}

func (c controller) upvoteMedia(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.UpvoteMedia(r.Context(), &room.VoteMediaParams{
		MediaId: chi.URLParam(r, "media-id"),
		UserId:  userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp})
}

func (c controller) downvoteMedia(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.DownvoteMedia(r.Context(), &room.VoteMediaParams{
		MediaId: chi.URLParam(r, "media-id"),
		UserId:  userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp})
}

func (c controller) removeMedia(w http.ResponseWriter, r *http.Request) {
	err := c.roomService.RemoveMedia(r.Context(), &room.RemoveMediaParams{
		MediaId: chi.URLParam(r, "media-id"),
		UserId:  userFromCtx(r.Context()).Id,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"message": "media removed"})
}

type updateMediaStatusRequest struct {
	Status    string  `json:"status" validate:"required,oneof=ready playing pausing seeking finished"`
	MediaTime float64 `json:"media_time" validate:"min=0"`
}

func (c controller) updateMediaStatus(w http.ResponseWriter, r *http.Request) {
	var req updateMediaStatusRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.roomService.UpdateMediaStatus(r.Context(), &room.UpdateMediaStatusParams{
		RoomId:    chi.URLParam(r, "room-id"),
		UserId:    userFromCtx(r.Context()).Id,
		Status:    domain.MediaState(req.Status),
		MediaTime: req.MediaTime,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp.Player})
}

func (c controller) currentMedia(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.CurrentMedia(r.Context(), chi.URLParam(r, "room-id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"data":   resp.Media,
		"player": resp.Player,
	})
}

func (c controller) nextMedia(w http.ResponseWriter, r *http.Request) {
	resp, err := c.roomService.NextMedia(r.Context(), chi.URLParam(r, "room-id"), userFromCtx(r.Context()).Id)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp.Media})
}

package controller

import (
	"errors"
	"net/http"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/service/auth"
	"github.com/watchroom/server/pkg/rest"
)

// writeError maps domain sentinels onto stable status codes. Anything not in
// the taxonomy is a 500 and gets logged with its cause; the client only sees
// a generic message.
func (c controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int

	switch {
	case errors.Is(err, domain.ErrRoomNotFound),
		errors.Is(err, domain.ErrMediaNotFound),
		errors.Is(err, domain.ErrParticipantNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotRoomMember),
		errors.Is(err, domain.ErrNotRoomCreator),
		errors.Is(err, domain.ErrNotMediaCreator),
		errors.Is(err, domain.ErrParticipantRemoved):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrAlreadyJoined),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrNoVoteToFlip),
		errors.Is(err, domain.ErrMediaNotVotable),
		errors.Is(err, domain.ErrMediaNotRemovable),
		errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	default:
		c.logger.ErrorContext(r.Context(), "internal error", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "internal server error"})
		return
	}

	rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (c controller) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	user, err := c.authService.Register(r.Context(), &auth.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": user})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c controller) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.authService.Login(r.Context(), &auth.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{
		"access_token": resp.AccessToken,
		"data":         resp.User,
	})
}

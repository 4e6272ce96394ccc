package room

import (
	"time"

	"github.com/watchroom/server/internal/domain"
)

type CreateRoomParams struct {
	RoomId    string
	Name      string
	CreatorId string
}

type SetRoomPlaybackParams struct {
	RoomId         string
	CurrentMediaId *string
	MediaTime      float64
	Status         domain.RoomStatus
	UpdatedAt      time.Time
}

type CreateParticipantParams struct {
	UserId     string
	RoomId     string
	Status     domain.ParticipantStatus
	MediaState domain.MediaState
}

type GetParticipantParams struct {
	UserId string
	RoomId string
}

type UpdateParticipantStatusParams struct {
	UserId string
	RoomId string
	Status domain.ParticipantStatus
}

type UpdateParticipantMediaStateParams struct {
	UserId     string
	RoomId     string
	MediaState domain.MediaState
}

// SetParticipantsMediaStateParams targets every participant of the room whose
// membership status is "in".
type SetParticipantsMediaStateParams struct {
	RoomId     string
	MediaState domain.MediaState
}

type CountParticipantsNotInStateParams struct {
	RoomId     string
	MediaState domain.MediaState
}

type CreateMediaParams struct {
	MediaId   string
	RoomId    string
	CreatorId string
	URL       string
	TotalVote int
	Status    domain.MediaStatus
}

type GetVoteParams struct {
	UserId  string
	MediaId string
}

type CreateVoteParams struct {
	UserId    string
	MediaId   string
	Direction domain.VoteDirection
}

type UpdateVoteDirectionParams struct {
	UserId    string
	MediaId   string
	Direction domain.VoteDirection
}

type CreateMessageParams struct {
	MessageId string
	RoomId    string
	UserId    string
	Content   string
}

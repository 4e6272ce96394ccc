package room

import (
	"context"
	"log/slog"
	"time"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type iRoomRepo interface {
	// RunInTx runs fn with every repo call inside one transaction. Nested
	// calls join the outer transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	// room
	CreateRoom(ctx context.Context, params *room.CreateRoomParams) error
	GetRoom(ctx context.Context, roomId string) (domain.Room, error)
	GetRoomForUpdate(ctx context.Context, roomId string) (domain.Room, error)
	GetRoomsByUser(ctx context.Context, userId string) ([]domain.Room, error)
	SetRoomPlayback(ctx context.Context, params *room.SetRoomPlaybackParams) error
	UpdateRoomStatus(ctx context.Context, roomId string, status domain.RoomStatus) error
	// participants
	CreateParticipant(ctx context.Context, params *room.CreateParticipantParams) error
	GetParticipant(ctx context.Context, params *room.GetParticipantParams) (domain.Participant, error)
	GetParticipants(ctx context.Context, roomId string) ([]domain.Participant, error)
	UpdateParticipantStatus(ctx context.Context, params *room.UpdateParticipantStatusParams) error
	UpdateParticipantMediaState(ctx context.Context, params *room.UpdateParticipantMediaStateParams) error
	SetParticipantsMediaState(ctx context.Context, params *room.SetParticipantsMediaStateParams) error
	CountParticipantsNotInState(ctx context.Context, params *room.CountParticipantsNotInStateParams) (int, error)
	// media
	CreateMedia(ctx context.Context, params *room.CreateMediaParams) error
	GetMedia(ctx context.Context, mediaId string) (domain.Media, error)
	GetMediaForUpdate(ctx context.Context, mediaId string) (domain.Media, error)
	GetNextMedia(ctx context.Context, roomId string) (domain.Media, error)
	GetPlaylist(ctx context.Context, roomId string) ([]domain.Media, error)
	UpdateMediaStatus(ctx context.Context, mediaId string, status domain.MediaStatus) error
	IncrementMediaVote(ctx context.Context, mediaId string, delta int) error
	// votes
	GetVote(ctx context.Context, params *room.GetVoteParams) (domain.Vote, bool, error)
	CreateVote(ctx context.Context, params *room.CreateVoteParams) error
	UpdateVoteDirection(ctx context.Context, params *room.UpdateVoteDirectionParams) error
	// messages
	CreateMessage(ctx context.Context, params *room.CreateMessageParams) error
	GetMessages(ctx context.Context, roomId string) ([]domain.Message, error)
}

type iUserRepo interface {
	GetUserById(ctx context.Context, userId string) (domain.User, error)
}

type iRelay interface {
	Broadcast(ctx context.Context, roomId string, event domain.Event, payload any)
}

type service struct {
	roomRepo iRoomRepo
	userRepo iUserRepo
	relay    iRelay
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(roomRepo iRoomRepo, userRepo iUserRepo, relay iRelay, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		userRepo: userRepo,
		relay:    relay,
		logger:   logger,
		now:      time.Now,
	}
}

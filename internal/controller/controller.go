package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/watchroom/server/internal/service/auth"
	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/validator"
)

type iAuthService interface {
	Register(context.Context, *auth.RegisterParams) (auth.User, error)
	Login(context.Context, *auth.LoginParams) (auth.LoginResponse, error)
	UserFromToken(context.Context, string) (auth.User, error)
}

type iRoomService interface {
	CreateRoom(context.Context, *room.CreateRoomParams) (room.Room, error)
	ListRooms(ctx context.Context, userId string) ([]room.Room, error)
	GetRoom(ctx context.Context, roomId, userId string) (room.RoomInfo, error)
	RemoveRoom(context.Context, *room.RemoveRoomParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) (room.Participant, error)
	LeaveRoom(context.Context, *room.LeaveRoomParams) error
	RemoveParticipant(context.Context, *room.RemoveParticipantParams) error
	ConnectParticipant(context.Context, *room.ConnectParticipantParams) error
	DisconnectParticipant(context.Context, *room.DisconnectParticipantParams) error
	AddMedia(context.Context, *room.AddMediaParams) (room.AddMediaResponse, error)
	UpvoteMedia(context.Context, *room.VoteMediaParams) (room.VoteMediaResponse, error)
	DownvoteMedia(context.Context, *room.VoteMediaParams) (room.VoteMediaResponse, error)
	RemoveMedia(context.Context, *room.RemoveMediaParams) error
	NextMedia(ctx context.Context, roomId, userId string) (room.NextMediaResponse, error)
	CurrentMedia(ctx context.Context, roomId string) (room.CurrentMediaResponse, error)
	UpdateMediaStatus(context.Context, *room.UpdateMediaStatusParams) (room.UpdateMediaStatusResponse, error)
	SendMessage(context.Context, *room.SendMessageParams) (room.Message, error)
}

type iSubscriber interface {
	Subscribe(ctx context.Context, roomId string) (<-chan []byte, func())
}

type controller struct {
	authService iAuthService
	roomService iRoomService
	subscriber  iSubscriber
	hub         *hub
	upgrader    websocket.Upgrader
	validate    *validator.Validator
	logger      *slog.Logger
}

func NewController(authService iAuthService, roomService iRoomService, subscriber iSubscriber, logger *slog.Logger) *controller {
	return &controller{
		authService: authService,
		roomService: roomService,
		subscriber:  subscriber,
		hub:         newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
}

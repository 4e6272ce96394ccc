package room

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type CreateRoomParams struct {
	Name      string
	CreatorId string
}

// CreateRoom creates a room and joins the creator to it in one transaction.
func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (Room, error) {
	roomId := uuid.NewString()

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.roomRepo.CreateRoom(ctx, &room.CreateRoomParams{
			RoomId:    roomId,
			Name:      params.Name,
			CreatorId: params.CreatorId,
		}); err != nil {
			return fmt.Errorf("failed to create room: %w", err)
		}

		if err := s.roomRepo.CreateParticipant(ctx, &room.CreateParticipantParams{
			UserId:     params.CreatorId,
			RoomId:     roomId,
			Status:     domain.ParticipantIn,
			MediaState: domain.MediaStatePausing,
		}); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}

		return nil
	})
	if err != nil {
		return Room{}, err
	}

	return Room{
		Id:        roomId,
		Name:      params.Name,
		CreatorId: params.CreatorId,
		Status:    string(domain.RoomActive),
	}, nil
}

func (s service) ListRooms(ctx context.Context, userId string) ([]Room, error) {
	rooms, err := s.roomRepo.GetRoomsByUser(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}

	list := make([]Room, 0, len(rooms))
	for _, rm := range rooms {
		list = append(list, Room{
			Id:        rm.Id,
			Name:      rm.Name,
			CreatorId: rm.CreatorId,
			Status:    string(rm.Status),
		})
	}
	return list, nil
}

// GetRoom assembles the full room view: participants, messages, the voting
// playlist and the current media with its effective position.
func (s service) GetRoom(ctx context.Context, roomId, userId string) (RoomInfo, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		return RoomInfo{}, err
	}

	if _, err := s.getInParticipant(ctx, roomId, userId); err != nil {
		return RoomInfo{}, err
	}

	participants, err := s.roomRepo.GetParticipants(ctx, roomId)
	if err != nil {
		return RoomInfo{}, fmt.Errorf("failed to get participants: %w", err)
	}

	playlist, err := s.roomRepo.GetPlaylist(ctx, roomId)
	if err != nil {
		return RoomInfo{}, fmt.Errorf("failed to get playlist: %w", err)
	}

	messages, err := s.roomRepo.GetMessages(ctx, roomId)
	if err != nil {
		return RoomInfo{}, fmt.Errorf("failed to get messages: %w", err)
	}

	info := RoomInfo{
		Room: Room{
			Id:        rm.Id,
			Name:      rm.Name,
			CreatorId: rm.CreatorId,
			Status:    string(rm.Status),
		},
		Participants: make([]Participant, 0, len(participants)),
		Playlist:     make([]MediaItem, 0, len(playlist)),
		Messages:     make([]Message, 0, len(messages)),
	}

	for _, p := range participants {
		info.Participants = append(info.Participants, Participant{
			UserId:     p.UserId,
			Status:     string(p.Status),
			MediaState: string(p.MediaState),
		})
	}
	for _, m := range playlist {
		info.Playlist = append(info.Playlist, mediaItem(m))
	}
	for _, m := range messages {
		info.Messages = append(info.Messages, Message{
			Id:        m.Id,
			RoomId:    m.RoomId,
			UserId:    m.UserId,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	if rm.CurrentMediaId != nil {
		media, err := s.roomRepo.GetMedia(ctx, *rm.CurrentMediaId)
		if err != nil {
			return RoomInfo{}, fmt.Errorf("failed to get current media: %w", err)
		}
		item := mediaItem(media)
		item.Status = string(rm.Status)
		item.MediaTime = rm.Position(s.now())
		info.CurrentMedia = &item
	}

	return info, nil
}

type RemoveRoomParams struct {
	RoomId   string
	SenderId string
}

func (s service) RemoveRoom(ctx context.Context, params *RemoveRoomParams) error {
	return s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		rm, err := s.roomRepo.GetRoomForUpdate(ctx, params.RoomId)
		if err != nil {
			return err
		}

		if rm.CreatorId != params.SenderId {
			return domain.ErrNotRoomCreator
		}

		return s.roomRepo.UpdateRoomStatus(ctx, params.RoomId, domain.RoomDeleted)
	})
}

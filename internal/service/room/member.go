package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type JoinRoomParams struct {
	RoomId string
	UserId string
}

type participantEvent struct {
	UserId   string `json:"user_id"`
	UserName string `json:"user_name"`
	RoomId   string `json:"room_id"`
}

// JoinRoom admits a user into a room. A participant who left ("out") may
// freely rejoin; one who was removed ("deleted") stays out until re-invited,
// which is deliberately the stricter of the two policies the membership
// lifecycle allows.
func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (Participant, error) {
	var joined Participant

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.roomRepo.GetRoom(ctx, params.RoomId); err != nil {
			return err
		}

		p, err := s.roomRepo.GetParticipant(ctx, &room.GetParticipantParams{
			UserId: params.UserId,
			RoomId: params.RoomId,
		})
		switch {
		case errors.Is(err, domain.ErrParticipantNotFound):
			if err := s.roomRepo.CreateParticipant(ctx, &room.CreateParticipantParams{
				UserId:     params.UserId,
				RoomId:     params.RoomId,
				Status:     domain.ParticipantIn,
				MediaState: domain.MediaStatePausing,
			}); err != nil {
				return fmt.Errorf("failed to create participant: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to get participant: %w", err)
		case p.Status == domain.ParticipantIn:
			return domain.ErrAlreadyJoined
		case p.Status == domain.ParticipantDeleted:
			return domain.ErrParticipantRemoved
		default: // out, rejoin
			if err := s.roomRepo.UpdateParticipantStatus(ctx, &room.UpdateParticipantStatusParams{
				UserId: params.UserId,
				RoomId: params.RoomId,
				Status: domain.ParticipantIn,
			}); err != nil {
				return fmt.Errorf("failed to update participant status: %w", err)
			}
		}

		joined = Participant{
			UserId:     params.UserId,
			Status:     string(domain.ParticipantIn),
			MediaState: string(domain.MediaStatePausing),
		}
		return nil
	})
	if err != nil {
		return Participant{}, err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventParticipantJoined, s.participantEvent(ctx, params.RoomId, params.UserId))

	return joined, nil
}

type LeaveRoomParams struct {
	RoomId string
	UserId string
}

func (s service) LeaveRoom(ctx context.Context, params *LeaveRoomParams) error {
	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.getInParticipant(ctx, params.RoomId, params.UserId); err != nil {
			return err
		}

		return s.roomRepo.UpdateParticipantStatus(ctx, &room.UpdateParticipantStatusParams{
			UserId: params.UserId,
			RoomId: params.RoomId,
			Status: domain.ParticipantOut,
		})
	})
	if err != nil {
		return err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventParticipantLeft, s.participantEvent(ctx, params.RoomId, params.UserId))

	return nil
}

type RemoveParticipantParams struct {
	RoomId        string
	RemovedUserId string
	SenderId      string
}

// RemoveParticipant marks a participant deleted. Allowed for the participant
// themselves or the room creator.
func (s service) RemoveParticipant(ctx context.Context, params *RemoveParticipantParams) error {
	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		rm, err := s.roomRepo.GetRoom(ctx, params.RoomId)
		if err != nil {
			return err
		}

		if params.SenderId != params.RemovedUserId && params.SenderId != rm.CreatorId {
			return domain.ErrNotRoomCreator
		}

		p, err := s.roomRepo.GetParticipant(ctx, &room.GetParticipantParams{
			UserId: params.RemovedUserId,
			RoomId: params.RoomId,
		})
		if err != nil {
			return err
		}
		if p.Status == domain.ParticipantDeleted {
			return domain.ErrParticipantNotFound
		}

		return s.roomRepo.UpdateParticipantStatus(ctx, &room.UpdateParticipantStatusParams{
			UserId: params.RemovedUserId,
			RoomId: params.RoomId,
			Status: domain.ParticipantDeleted,
		})
	})
	if err != nil {
		return err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventParticipantRemoved, s.participantEvent(ctx, params.RoomId, params.RemovedUserId))

	return nil
}

type ConnectParticipantParams struct {
	RoomId string
	UserId string
}

// ConnectParticipant is the gateway's presence callback for an established
// subscription: a participant with a live connection counts as "in".
func (s service) ConnectParticipant(ctx context.Context, params *ConnectParticipantParams) error {
	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.roomRepo.GetParticipant(ctx, &room.GetParticipantParams{
			UserId: params.UserId,
			RoomId: params.RoomId,
		})
		if err != nil {
			return err
		}
		switch p.Status {
		case domain.ParticipantDeleted:
			return domain.ErrParticipantRemoved
		case domain.ParticipantIn:
			return nil
		}

		return s.roomRepo.UpdateParticipantStatus(ctx, &room.UpdateParticipantStatusParams{
			UserId: params.UserId,
			RoomId: params.RoomId,
			Status: domain.ParticipantIn,
		})
	})
	if err != nil {
		return err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventParticipantJoined, s.participantEvent(ctx, params.RoomId, params.UserId))

	return nil
}

type DisconnectParticipantParams struct {
	RoomId string
	UserId string
	// RoomVacated is set when the closed connection was the last
	// subscription for the room.
	RoomVacated bool
}

// DisconnectParticipant is the gateway's presence callback for a closed
// subscription. When the room is vacated while playing, playback is frozen
// at the effective position so nothing keeps advancing for an empty room.
func (s service) DisconnectParticipant(ctx context.Context, params *DisconnectParticipantParams) error {
	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		p, err := s.roomRepo.GetParticipant(ctx, &room.GetParticipantParams{
			UserId: params.UserId,
			RoomId: params.RoomId,
		})
		if err != nil {
			return err
		}

		if p.Status == domain.ParticipantIn {
			if err := s.roomRepo.UpdateParticipantStatus(ctx, &room.UpdateParticipantStatusParams{
				UserId: params.UserId,
				RoomId: params.RoomId,
				Status: domain.ParticipantOut,
			}); err != nil {
				return fmt.Errorf("failed to update participant status: %w", err)
			}
		}

		if !params.RoomVacated {
			return nil
		}

		rm, err := s.roomRepo.GetRoomForUpdate(ctx, params.RoomId)
		if err != nil {
			return err
		}
		if rm.Status != domain.RoomPlaying {
			return nil
		}

		return s.roomRepo.SetRoomPlayback(ctx, &room.SetRoomPlaybackParams{
			RoomId:         rm.Id,
			CurrentMediaId: rm.CurrentMediaId,
			MediaTime:      rm.Position(s.now()),
			Status:         domain.RoomPausing,
			UpdatedAt:      s.now().UTC(),
		})
	})
	if err != nil {
		return err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventParticipantLeft, s.participantEvent(ctx, params.RoomId, params.UserId))

	return nil
}

func (s service) participantEvent(ctx context.Context, roomId, userId string) participantEvent {
	ev := participantEvent{UserId: userId, RoomId: roomId}
	if user, err := s.userRepo.GetUserById(ctx, userId); err == nil {
		ev.UserName = user.Name
	}
	return ev
}

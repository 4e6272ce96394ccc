package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

// getInParticipant resolves the caller's participant row and rejects anyone
// whose membership status is not "in". Every state-changing operation goes
// through this gate.
func (s service) getInParticipant(ctx context.Context, roomId, userId string) (domain.Participant, error) {
	p, err := s.roomRepo.GetParticipant(ctx, &room.GetParticipantParams{
		UserId: userId,
		RoomId: roomId,
	})
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return domain.Participant{}, domain.ErrNotRoomMember
		}
		return domain.Participant{}, fmt.Errorf("failed to get participant: %w", err)
	}

	if p.Status != domain.ParticipantIn {
		return domain.Participant{}, domain.ErrNotRoomMember
	}

	return p, nil
}

func mediaItem(m domain.Media) MediaItem {
	return MediaItem{
		Id:        m.Id,
		RoomId:    m.RoomId,
		CreatorId: m.CreatorId,
		URL:       m.URL,
		TotalVote: m.TotalVote,
		Status:    string(m.Status),
	}
}

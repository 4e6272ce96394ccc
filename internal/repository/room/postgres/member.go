package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

func (r repo) CreateParticipant(ctx context.Context, params *room.CreateParticipantParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO room_participants (user_id, room_id, status, media_state)
		VALUES ($1, $2, $3, $4)`,
		params.UserId, params.RoomId, params.Status, params.MediaState)
	return err
}

func (r repo) GetParticipant(ctx context.Context, params *room.GetParticipantParams) (domain.Participant, error) {
	var p domain.Participant
	err := r.q(ctx).QueryRow(ctx, `
		SELECT user_id, room_id, status, media_state, created_at, updated_at
		FROM room_participants
		WHERE user_id=$1 AND room_id=$2`,
		params.UserId, params.RoomId).
		Scan(&p.UserId, &p.RoomId, &p.Status, &p.MediaState, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrParticipantNotFound
		}
		return domain.Participant{}, err
	}
	return p, nil
}

func (r repo) GetParticipants(ctx context.Context, roomId string) ([]domain.Participant, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT user_id, room_id, status, media_state, created_at, updated_at
		FROM room_participants
		WHERE room_id=$1
		ORDER BY created_at`,
		roomId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var p domain.Participant
		if err := rows.Scan(&p.UserId, &p.RoomId, &p.Status, &p.MediaState, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r repo) UpdateParticipantStatus(ctx context.Context, params *room.UpdateParticipantStatusParams) error {
	cmd, err := r.q(ctx).Exec(ctx, `
		UPDATE room_participants SET status=$3, updated_at=$4
		WHERE user_id=$1 AND room_id=$2`,
		params.UserId, params.RoomId, params.Status, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

func (r repo) UpdateParticipantMediaState(ctx context.Context, params *room.UpdateParticipantMediaStateParams) error {
	cmd, err := r.q(ctx).Exec(ctx, `
		UPDATE room_participants SET media_state=$3, updated_at=$4
		WHERE user_id=$1 AND room_id=$2`,
		params.UserId, params.RoomId, params.MediaState, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrParticipantNotFound
	}
	return nil
}

// SetParticipantsMediaState bulk-overwrites the reported state of every "in"
// participant. Used after a room-wide transition so stale reports do not
// retrigger quorum logic.
func (r repo) SetParticipantsMediaState(ctx context.Context, params *room.SetParticipantsMediaStateParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		UPDATE room_participants SET media_state=$2, updated_at=$3
		WHERE room_id=$1 AND status=$4`,
		params.RoomId, params.MediaState, time.Now().UTC(), domain.ParticipantIn)
	return err
}

// CountParticipantsNotInState counts "in" participants whose reported state
// differs from the given one. Zero means quorum: a room with no "in"
// participants at all trivially satisfies it.
func (r repo) CountParticipantsNotInState(ctx context.Context, params *room.CountParticipantsNotInStateParams) (int, error) {
	var count int
	err := r.q(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM room_participants
		WHERE room_id=$1 AND status=$2 AND media_state!=$3`,
		params.RoomId, domain.ParticipantIn, params.MediaState).Scan(&count)
	return count, err
}

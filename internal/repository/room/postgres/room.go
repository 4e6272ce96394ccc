package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

const roomColumns = `id, name, creator_id, status, current_media_id, media_time, updated_at, created_at`

func scanRoom(row pgx.Row) (domain.Room, error) {
	var rm domain.Room
	err := row.Scan(&rm.Id, &rm.Name, &rm.CreatorId, &rm.Status, &rm.CurrentMediaId, &rm.MediaTime, &rm.UpdatedAt, &rm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Room{}, domain.ErrRoomNotFound
		}
		return domain.Room{}, err
	}
	return rm, nil
}

func (r repo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO rooms (id, name, creator_id, status)
		VALUES ($1, $2, $3, $4)`,
		params.RoomId, params.Name, params.CreatorId, domain.RoomActive)
	return err
}

func (r repo) GetRoom(ctx context.Context, roomId string) (domain.Room, error) {
	return scanRoom(r.q(ctx).QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id=$1 AND status!=$2`,
		roomId, domain.RoomDeleted))
}

// GetRoomForUpdate locks the room row for the remainder of the surrounding
// transaction. Concurrent synchronizer operations on the same room serialize
// on this lock.
func (r repo) GetRoomForUpdate(ctx context.Context, roomId string) (domain.Room, error) {
	return scanRoom(r.q(ctx).QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id=$1 AND status!=$2 FOR UPDATE`,
		roomId, domain.RoomDeleted))
}

func (r repo) GetRoomsByUser(ctx context.Context, userId string) ([]domain.Room, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT r.id, r.name, r.creator_id, r.status, r.current_media_id, r.media_time, r.updated_at, r.created_at
		FROM rooms r
		JOIN room_participants p ON p.room_id = r.id
		WHERE p.user_id = $1 AND p.status != $2 AND r.status != $3
		ORDER BY r.created_at`,
		userId, domain.ParticipantDeleted, domain.RoomDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.Id, &rm.Name, &rm.CreatorId, &rm.Status, &rm.CurrentMediaId, &rm.MediaTime, &rm.UpdatedAt, &rm.CreatedAt); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

func (r repo) SetRoomPlayback(ctx context.Context, params *room.SetRoomPlaybackParams) error {
	cmd, err := r.q(ctx).Exec(ctx, `
		UPDATE rooms
		SET current_media_id=$2, media_time=$3, status=$4, updated_at=$5
		WHERE id=$1`,
		params.RoomId, params.CurrentMediaId, params.MediaTime, params.Status, params.UpdatedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

func (r repo) UpdateRoomStatus(ctx context.Context, roomId string, status domain.RoomStatus) error {
	cmd, err := r.q(ctx).Exec(ctx,
		`UPDATE rooms SET status=$2, updated_at=$3 WHERE id=$1`,
		roomId, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrRoomNotFound
	}
	return nil
}

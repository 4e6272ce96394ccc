package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

const mediaColumns = `id, room_id, creator_id, url, total_vote, status, created_at`

func scanMedia(row pgx.Row) (domain.Media, error) {
	var m domain.Media
	err := row.Scan(&m.Id, &m.RoomId, &m.CreatorId, &m.URL, &m.TotalVote, &m.Status, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Media{}, domain.ErrMediaNotFound
		}
		return domain.Media{}, err
	}
	return m, nil
}

func (r repo) CreateMedia(ctx context.Context, params *room.CreateMediaParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO media (id, room_id, creator_id, url, total_vote, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		params.MediaId, params.RoomId, params.CreatorId, params.URL, params.TotalVote, params.Status)
	return err
}

func (r repo) GetMedia(ctx context.Context, mediaId string) (domain.Media, error) {
	return scanMedia(r.q(ctx).QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id=$1 AND status!=$2`,
		mediaId, domain.MediaDeleted))
}

func (r repo) GetMediaForUpdate(ctx context.Context, mediaId string) (domain.Media, error) {
	return scanMedia(r.q(ctx).QueryRow(ctx,
		`SELECT `+mediaColumns+` FROM media WHERE id=$1 AND status!=$2 FOR UPDATE`,
		mediaId, domain.MediaDeleted))
}

// GetNextMedia returns the highest-voted candidate still open for voting.
// Ties break on earliest creation, then id, so the result is deterministic.
func (r repo) GetNextMedia(ctx context.Context, roomId string) (domain.Media, error) {
	return scanMedia(r.q(ctx).QueryRow(ctx, `
		SELECT `+mediaColumns+` FROM media
		WHERE room_id=$1 AND status=$2
		ORDER BY total_vote DESC, created_at ASC, id ASC
		LIMIT 1`,
		roomId, domain.MediaVoting))
}

func (r repo) GetPlaylist(ctx context.Context, roomId string) ([]domain.Media, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+mediaColumns+` FROM media
		WHERE room_id=$1 AND status=$2
		ORDER BY total_vote DESC, created_at ASC, id ASC`,
		roomId, domain.MediaVoting)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlist []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(&m.Id, &m.RoomId, &m.CreatorId, &m.URL, &m.TotalVote, &m.Status, &m.CreatedAt); err != nil {
			return nil, err
		}
		playlist = append(playlist, m)
	}
	return playlist, rows.Err()
}

func (r repo) UpdateMediaStatus(ctx context.Context, mediaId string, status domain.MediaStatus) error {
	cmd, err := r.q(ctx).Exec(ctx,
		`UPDATE media SET status=$2 WHERE id=$1`,
		mediaId, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}

func (r repo) IncrementMediaVote(ctx context.Context, mediaId string, delta int) error {
	cmd, err := r.q(ctx).Exec(ctx,
		`UPDATE media SET total_vote = total_vote + $2 WHERE id=$1`,
		mediaId, delta)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrMediaNotFound
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

var errVoteNotFound = errors.New("vote not found")

func (r repo) GetVote(ctx context.Context, params *room.GetVoteParams) (domain.Vote, bool, error) {
	var v domain.Vote
	err := r.q(ctx).QueryRow(ctx, `
		SELECT user_id, media_id, direction, updated_at
		FROM votes
		WHERE user_id=$1 AND media_id=$2`,
		params.UserId, params.MediaId).
		Scan(&v.UserId, &v.MediaId, &v.Direction, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Vote{}, false, nil
		}
		return domain.Vote{}, false, err
	}
	return v, true, nil
}

func (r repo) CreateVote(ctx context.Context, params *room.CreateVoteParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO votes (user_id, media_id, direction)
		VALUES ($1, $2, $3)`,
		params.UserId, params.MediaId, params.Direction)
	return err
}

func (r repo) UpdateVoteDirection(ctx context.Context, params *room.UpdateVoteDirectionParams) error {
	cmd, err := r.q(ctx).Exec(ctx, `
		UPDATE votes SET direction=$3, updated_at=$4
		WHERE user_id=$1 AND media_id=$2`,
		params.UserId, params.MediaId, params.Direction, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errVoteNotFound
	}
	return nil
}

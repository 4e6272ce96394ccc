package postgres

import (
	"context"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

func (r repo) CreateMessage(ctx context.Context, params *room.CreateMessageParams) error {
	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO messages (id, room_id, user_id, content)
		VALUES ($1, $2, $3, $4)`,
		params.MessageId, params.RoomId, params.UserId, params.Content)
	return err
}

func (r repo) GetMessages(ctx context.Context, roomId string) ([]domain.Message, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT id, room_id, user_id, content, created_at
		FROM messages
		WHERE room_id=$1
		ORDER BY created_at`,
		roomId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.Id, &m.RoomId, &m.UserId, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

package room

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type SendMessageParams struct {
	RoomId  string
	UserId  string
	Content string
}

func (s service) SendMessage(ctx context.Context, params *SendMessageParams) (Message, error) {
	var msg Message

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.getInParticipant(ctx, params.RoomId, params.UserId); err != nil {
			return err
		}

		messageId := uuid.NewString()
		if err := s.roomRepo.CreateMessage(ctx, &room.CreateMessageParams{
			MessageId: messageId,
			RoomId:    params.RoomId,
			UserId:    params.UserId,
			Content:   params.Content,
		}); err != nil {
			return fmt.Errorf("failed to create message: %w", err)
		}

		msg = Message{
			Id:        messageId,
			RoomId:    params.RoomId,
			UserId:    params.UserId,
			Content:   params.Content,
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return Message{}, err
	}

	payload := map[string]any{
		"message": msg,
	}
	if user, err := s.userRepo.GetUserById(ctx, params.UserId); err == nil {
		payload["user_name"] = user.Name
	}
	s.relay.Broadcast(ctx, params.RoomId, domain.EventNewMessage, payload)

	return msg, nil
}

package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type AddMediaParams struct {
	RoomId string
	UserId string
	URL    string
}

type AddMediaResponse struct {
	AddedMedia MediaItem
	// Promoted is set when the room had no current media and the new item
	// went straight to the player.
	Promoted bool
}

// AddMedia enqueues a media item for voting. Creation always records the
// creator's upvote as a real vote row, so the tally starts at 1.
func (s service) AddMedia(ctx context.Context, params *AddMediaParams) (AddMediaResponse, error) {
	var resp AddMediaResponse

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		rm, err := s.roomRepo.GetRoomForUpdate(ctx, params.RoomId)
		if err != nil {
			return err
		}

		if _, err := s.getInParticipant(ctx, params.RoomId, params.UserId); err != nil {
			return err
		}

		mediaId := uuid.NewString()
		if err := s.roomRepo.CreateMedia(ctx, &room.CreateMediaParams{
			MediaId:   mediaId,
			RoomId:    params.RoomId,
			CreatorId: params.UserId,
			URL:       params.URL,
			TotalVote: 1,
			Status:    domain.MediaVoting,
		}); err != nil {
			return fmt.Errorf("failed to create media: %w", err)
		}

		if err := s.roomRepo.CreateVote(ctx, &room.CreateVoteParams{
			UserId:    params.UserId,
			MediaId:   mediaId,
			Direction: domain.Upvote,
		}); err != nil {
			return fmt.Errorf("failed to create vote: %w", err)
		}

		resp.AddedMedia = MediaItem{
			Id:        mediaId,
			RoomId:    params.RoomId,
			CreatorId: params.UserId,
			URL:       params.URL,
			TotalVote: 1,
			Status:    string(domain.MediaVoting),
		}

		// a room with nothing playing picks up the new item immediately
		if rm.CurrentMediaId == nil {
			if err := s.roomRepo.UpdateMediaStatus(ctx, mediaId, domain.MediaPlaying); err != nil {
				return fmt.Errorf("failed to promote media: %w", err)
			}
			if err := s.roomRepo.SetRoomPlayback(ctx, &room.SetRoomPlaybackParams{
				RoomId:         params.RoomId,
				CurrentMediaId: &mediaId,
				MediaTime:      0,
				Status:         domain.RoomPausing,
				UpdatedAt:      s.now().UTC(),
			}); err != nil {
				return fmt.Errorf("failed to set room playback: %w", err)
			}
			if err := s.roomRepo.SetParticipantsMediaState(ctx, &room.SetParticipantsMediaStateParams{
				RoomId:     params.RoomId,
				MediaState: domain.MediaStatePausing,
			}); err != nil {
				return fmt.Errorf("failed to set participants media state: %w", err)
			}
			resp.Promoted = true
		}

		return nil
	})
	if err != nil {
		return AddMediaResponse{}, err
	}

	s.relay.Broadcast(ctx, params.RoomId, domain.EventNewMedia, resp.AddedMedia)
	if resp.Promoted {
		current := resp.AddedMedia
		current.Status = string(domain.RoomPausing)
		current.MediaTime = 0
		s.relay.Broadcast(ctx, params.RoomId, domain.EventProceed, current)
	}

	return resp, nil
}

type VoteMediaParams struct {
	MediaId string
	UserId  string
}

type VoteMediaResponse struct {
	MediaId   string `json:"media_id"`
	UserName  string `json:"user_name"`
	TotalVote int    `json:"total_vote"`
}

func (s service) UpvoteMedia(ctx context.Context, params *VoteMediaParams) (VoteMediaResponse, error) {
	return s.applyVote(ctx, params, domain.Upvote)
}

func (s service) DownvoteMedia(ctx context.Context, params *VoteMediaParams) (VoteMediaResponse, error) {
	return s.applyVote(ctx, params, domain.Downvote)
}

// applyVote enforces one vote row per (user, media). Repeating the same
// direction is a conflict and leaves the tally untouched; flipping direction
// mutates the row in place and moves the tally by one step. The tally
// adjustment commits in the same transaction as the vote row, keeping the
// tally equal to the signed sum of vote rows at all times.
func (s service) applyVote(ctx context.Context, params *VoteMediaParams, direction domain.VoteDirection) (VoteMediaResponse, error) {
	var resp VoteMediaResponse
	var roomId string

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		media, err := s.roomRepo.GetMediaForUpdate(ctx, params.MediaId)
		if err != nil {
			return err
		}

		if media.Status != domain.MediaVoting {
			return domain.ErrMediaNotVotable
		}

		if _, err := s.getInParticipant(ctx, media.RoomId, params.UserId); err != nil {
			return err
		}

		vote, exists, err := s.roomRepo.GetVote(ctx, &room.GetVoteParams{
			UserId:  params.UserId,
			MediaId: params.MediaId,
		})
		if err != nil {
			return fmt.Errorf("failed to get vote: %w", err)
		}

		sign := 1
		if direction == domain.Downvote {
			sign = -1
		}

		var delta int
		switch {
		case !exists && direction == domain.Downvote:
			return domain.ErrNoVoteToFlip
		case !exists:
			if err := s.roomRepo.CreateVote(ctx, &room.CreateVoteParams{
				UserId:    params.UserId,
				MediaId:   params.MediaId,
				Direction: direction,
			}); err != nil {
				return fmt.Errorf("failed to create vote: %w", err)
			}
			delta = sign
		case vote.Direction == direction:
			return domain.ErrAlreadyVoted
		default:
			if err := s.roomRepo.UpdateVoteDirection(ctx, &room.UpdateVoteDirectionParams{
				UserId:    params.UserId,
				MediaId:   params.MediaId,
				Direction: direction,
			}); err != nil {
				return fmt.Errorf("failed to update vote: %w", err)
			}
			// a flip retracts the old vote and casts the opposite one
			delta = 2 * sign
		}

		if err := s.roomRepo.IncrementMediaVote(ctx, params.MediaId, delta); err != nil {
			return fmt.Errorf("failed to adjust vote tally: %w", err)
		}

		roomId = media.RoomId
		resp = VoteMediaResponse{
			MediaId:   params.MediaId,
			TotalVote: media.TotalVote + delta,
		}
		return nil
	})
	if err != nil {
		return VoteMediaResponse{}, err
	}

	if user, err := s.userRepo.GetUserById(ctx, params.UserId); err == nil {
		resp.UserName = user.Name
	}

	event := domain.EventMediaUpvoted
	if direction == domain.Downvote {
		event = domain.EventMediaDownvoted
	}
	s.relay.Broadcast(ctx, roomId, event, resp)

	return resp, nil
}

type RemoveMediaParams struct {
	MediaId string
	UserId  string
}

// RemoveMedia soft-deletes a queued item. Only the creator may remove it and
// only while it is still open for voting.
func (s service) RemoveMedia(ctx context.Context, params *RemoveMediaParams) error {
	return s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		media, err := s.roomRepo.GetMediaForUpdate(ctx, params.MediaId)
		if err != nil {
			return err
		}

		if media.CreatorId != params.UserId {
			return domain.ErrNotMediaCreator
		}
		if media.Status != domain.MediaVoting {
			return domain.ErrMediaNotRemovable
		}

		return s.roomRepo.UpdateMediaStatus(ctx, params.MediaId, domain.MediaDeleted)
	})
}

type NextMediaResponse struct {
	Media *MediaItem
}

// NextMedia is a read-only peek at the queue's next candidate.
func (s service) NextMedia(ctx context.Context, roomId, userId string) (NextMediaResponse, error) {
	if _, err := s.getInParticipant(ctx, roomId, userId); err != nil {
		return NextMediaResponse{}, err
	}

	next, err := s.roomRepo.GetNextMedia(ctx, roomId)
	if err != nil {
		if errors.Is(err, domain.ErrMediaNotFound) {
			return NextMediaResponse{}, nil
		}
		return NextMediaResponse{}, fmt.Errorf("failed to get next media: %w", err)
	}

	item := mediaItem(next)
	return NextMediaResponse{Media: &item}, nil
}

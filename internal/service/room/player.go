package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

type UpdateMediaStatusParams struct {
	RoomId    string
	UserId    string
	Status    domain.MediaState
	MediaTime float64
}

type UpdateMediaStatusResponse struct {
	Player PlayerState
}

// UpdateMediaStatus records one participant's playback report and reconciles
// it into the room-wide state.
//
//   - playing/pausing/seeking overwrite the authoritative offset and status
//     (last-writer-wins: concurrent reports race and the last commit sticks,
//     a documented weakness carried over deliberately), fan out the state to
//     every "in" participant, and broadcast the transition.
//   - ready leaves the authoritative offset alone; once every "in"
//     participant is ready the room starts playing and a PLAY event carries
//     the current media.
//   - finished leaves the offset alone; once every "in" participant is
//     finished the current media is closed out, the queue is consulted for
//     the next candidate, and a PROCEED event carries it (empty payload when
//     the queue has nothing left).
//
// A room with zero "in" participants satisfies any quorum trivially, so a
// lone report of ready or finished from a freshly vacated room still
// advances it.
func (s service) UpdateMediaStatus(ctx context.Context, params *UpdateMediaStatusParams) (UpdateMediaStatusResponse, error) {
	if !params.Status.Valid() {
		return UpdateMediaStatusResponse{}, fmt.Errorf("invalid media status %q", params.Status)
	}

	var (
		resp      UpdateMediaStatusResponse
		event     domain.Event
		payload   any
		broadcast bool
	)

	err := s.roomRepo.RunInTx(ctx, func(ctx context.Context) error {
		rm, err := s.roomRepo.GetRoomForUpdate(ctx, params.RoomId)
		if err != nil {
			return err
		}

		if _, err := s.getInParticipant(ctx, params.RoomId, params.UserId); err != nil {
			return err
		}

		switch params.Status {
		case domain.MediaStatePlaying, domain.MediaStatePausing, domain.MediaStateSeeking:
			event, payload, resp, err = s.forcePlayback(ctx, rm, params)
			broadcast = err == nil
			return err
		case domain.MediaStateReady:
			event, payload, resp, broadcast, err = s.reportReady(ctx, rm, params)
			return err
		case domain.MediaStateFinished:
			event, payload, resp, broadcast, err = s.reportFinished(ctx, rm, params)
			return err
		}
		return nil
	})
	if err != nil {
		return UpdateMediaStatusResponse{}, err
	}

	if broadcast {
		s.relay.Broadcast(ctx, params.RoomId, event, payload)
	}

	return resp, nil
}

// forcePlayback handles a manual play/pause/seek: the report immediately
// becomes the authoritative room state.
func (s service) forcePlayback(ctx context.Context, rm domain.Room, params *UpdateMediaStatusParams) (domain.Event, any, UpdateMediaStatusResponse, error) {
	now := s.now().UTC()
	status := domain.RoomStatus(params.Status)

	if err := s.roomRepo.SetRoomPlayback(ctx, &room.SetRoomPlaybackParams{
		RoomId:         rm.Id,
		CurrentMediaId: rm.CurrentMediaId,
		MediaTime:      params.MediaTime,
		Status:         status,
		UpdatedAt:      now,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, fmt.Errorf("failed to set room playback: %w", err)
	}

	if err := s.roomRepo.SetParticipantsMediaState(ctx, &room.SetParticipantsMediaStateParams{
		RoomId:     rm.Id,
		MediaState: params.Status,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, fmt.Errorf("failed to set participants media state: %w", err)
	}

	player := PlayerState{
		MediaId:   rm.CurrentMediaId,
		Status:    string(status),
		MediaTime: params.MediaTime,
		UpdatedAt: now,
	}

	var event domain.Event
	switch params.Status {
	case domain.MediaStatePlaying:
		event = domain.EventPlay
	case domain.MediaStatePausing:
		event = domain.EventPause
	case domain.MediaStateSeeking:
		event = domain.EventSeek
	}

	return event, player, UpdateMediaStatusResponse{Player: player}, nil
}

func (s service) reportReady(ctx context.Context, rm domain.Room, params *UpdateMediaStatusParams) (domain.Event, any, UpdateMediaStatusResponse, bool, error) {
	if err := s.roomRepo.UpdateParticipantMediaState(ctx, &room.UpdateParticipantMediaStateParams{
		UserId:     params.UserId,
		RoomId:     rm.Id,
		MediaState: domain.MediaStateReady,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to update participant media state: %w", err)
	}

	player := PlayerState{
		MediaId:   rm.CurrentMediaId,
		Status:    string(rm.Status),
		MediaTime: rm.Position(s.now()),
		UpdatedAt: rm.UpdatedAt,
	}

	notReady, err := s.roomRepo.CountParticipantsNotInState(ctx, &room.CountParticipantsNotInStateParams{
		RoomId:     rm.Id,
		MediaState: domain.MediaStateReady,
	})
	if err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to count participants: %w", err)
	}
	if notReady > 0 {
		return "", nil, UpdateMediaStatusResponse{Player: player}, false, nil
	}

	// quorum: everyone is ready, the room starts playing from the stored
	// offset
	now := s.now().UTC()
	if err := s.roomRepo.SetRoomPlayback(ctx, &room.SetRoomPlaybackParams{
		RoomId:         rm.Id,
		CurrentMediaId: rm.CurrentMediaId,
		MediaTime:      rm.MediaTime,
		Status:         domain.RoomPlaying,
		UpdatedAt:      now,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to set room playback: %w", err)
	}

	if err := s.roomRepo.SetParticipantsMediaState(ctx, &room.SetParticipantsMediaStateParams{
		RoomId:     rm.Id,
		MediaState: domain.MediaStatePlaying,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to set participants media state: %w", err)
	}

	player = PlayerState{
		MediaId:   rm.CurrentMediaId,
		Status:    string(domain.RoomPlaying),
		MediaTime: rm.MediaTime,
		UpdatedAt: now,
	}

	payload := map[string]any{"player": player}
	if rm.CurrentMediaId != nil {
		media, err := s.roomRepo.GetMedia(ctx, *rm.CurrentMediaId)
		if err != nil {
			return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to get current media: %w", err)
		}
		item := mediaItem(media)
		item.Status = string(domain.RoomPlaying)
		item.MediaTime = rm.MediaTime
		payload["media"] = item
	}

	return domain.EventPlay, payload, UpdateMediaStatusResponse{Player: player}, true, nil
}

func (s service) reportFinished(ctx context.Context, rm domain.Room, params *UpdateMediaStatusParams) (domain.Event, any, UpdateMediaStatusResponse, bool, error) {
	if err := s.roomRepo.UpdateParticipantMediaState(ctx, &room.UpdateParticipantMediaStateParams{
		UserId:     params.UserId,
		RoomId:     rm.Id,
		MediaState: domain.MediaStateFinished,
	}); err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to update participant media state: %w", err)
	}

	notFinished, err := s.roomRepo.CountParticipantsNotInState(ctx, &room.CountParticipantsNotInStateParams{
		RoomId:     rm.Id,
		MediaState: domain.MediaStateFinished,
	})
	if err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, fmt.Errorf("failed to count participants: %w", err)
	}
	if notFinished > 0 {
		player := PlayerState{
			MediaId:   rm.CurrentMediaId,
			Status:    string(rm.Status),
			MediaTime: rm.Position(s.now()),
			UpdatedAt: rm.UpdatedAt,
		}
		return "", nil, UpdateMediaStatusResponse{Player: player}, false, nil
	}

	event, payload, player, err := s.advanceRoom(ctx, rm)
	if err != nil {
		return "", nil, UpdateMediaStatusResponse{}, false, err
	}

	return event, payload, UpdateMediaStatusResponse{Player: player}, true, nil
}

// advanceRoom closes out the current media and points the room at the next
// queue candidate, or at nothing when the queue is empty. Callers must hold
// the room row lock.
func (s service) advanceRoom(ctx context.Context, rm domain.Room) (domain.Event, any, PlayerState, error) {
	if rm.CurrentMediaId != nil {
		if err := s.roomRepo.UpdateMediaStatus(ctx, *rm.CurrentMediaId, domain.MediaFinished); err != nil {
			return "", nil, PlayerState{}, fmt.Errorf("failed to finish current media: %w", err)
		}
	}

	var nextMediaId *string
	var payload any

	next, err := s.roomRepo.GetNextMedia(ctx, rm.Id)
	switch {
	case err == nil:
		if err := s.roomRepo.UpdateMediaStatus(ctx, next.Id, domain.MediaPlaying); err != nil {
			return "", nil, PlayerState{}, fmt.Errorf("failed to promote next media: %w", err)
		}
		nextMediaId = &next.Id
		item := mediaItem(next)
		item.Status = string(domain.RoomPausing)
		item.MediaTime = 0
		payload = item
	case errors.Is(err, domain.ErrMediaNotFound):
		// queue is empty, the room idles with no current media
	default:
		return "", nil, PlayerState{}, fmt.Errorf("failed to get next media: %w", err)
	}

	now := s.now().UTC()
	if err := s.roomRepo.SetRoomPlayback(ctx, &room.SetRoomPlaybackParams{
		RoomId:         rm.Id,
		CurrentMediaId: nextMediaId,
		MediaTime:      0,
		Status:         domain.RoomPausing,
		UpdatedAt:      now,
	}); err != nil {
		return "", nil, PlayerState{}, fmt.Errorf("failed to set room playback: %w", err)
	}

	if err := s.roomRepo.SetParticipantsMediaState(ctx, &room.SetParticipantsMediaStateParams{
		RoomId:     rm.Id,
		MediaState: domain.MediaStatePausing,
	}); err != nil {
		return "", nil, PlayerState{}, fmt.Errorf("failed to set participants media state: %w", err)
	}

	player := PlayerState{
		MediaId:   nextMediaId,
		Status:    string(domain.RoomPausing),
		MediaTime: 0,
		UpdatedAt: now,
	}

	return domain.EventProceed, payload, player, nil
}

type CurrentMediaResponse struct {
	Media  *MediaItem
	Player PlayerState
}

// CurrentMedia is a pure read of the authoritative player state. While the
// room is playing the reported offset advances with wall clock time; in any
// other state it is the stored offset verbatim.
func (s service) CurrentMedia(ctx context.Context, roomId string) (CurrentMediaResponse, error) {
	rm, err := s.roomRepo.GetRoom(ctx, roomId)
	if err != nil {
		return CurrentMediaResponse{}, err
	}

	position := rm.Position(s.now())
	player := PlayerState{
		MediaId:   rm.CurrentMediaId,
		Status:    string(rm.Status),
		MediaTime: position,
		UpdatedAt: rm.UpdatedAt,
	}

	if rm.CurrentMediaId == nil {
		return CurrentMediaResponse{Player: player}, nil
	}

	media, err := s.roomRepo.GetMedia(ctx, *rm.CurrentMediaId)
	if err != nil {
		return CurrentMediaResponse{}, fmt.Errorf("failed to get current media: %w", err)
	}

	item := mediaItem(media)
	item.Status = string(rm.Status)
	item.MediaTime = position

	return CurrentMediaResponse{Media: &item, Player: player}, nil
}

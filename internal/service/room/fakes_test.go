package room

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

func participantKey(roomId, userId string) *room.GetParticipantParams {
	return &room.GetParticipantParams{RoomId: roomId, UserId: userId}
}

// fakeRepo is an in-memory stand-in for the postgres repository. Transactions
// are a no-op wrapper since every test exercises a single goroutine.
type fakeRepo struct {
	mu           sync.Mutex
	rooms        map[string]*domain.Room
	participants map[string]map[string]*domain.Participant // roomId -> userId
	media        map[string]*domain.Media
	votes        map[string]map[string]*domain.Vote // mediaId -> userId
	messages     []domain.Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		rooms:        make(map[string]*domain.Room),
		participants: make(map[string]map[string]*domain.Participant),
		media:        make(map[string]*domain.Media),
		votes:        make(map[string]map[string]*domain.Vote),
	}
}

func (f *fakeRepo) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeRepo) CreateRoom(ctx context.Context, params *room.CreateRoomParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms[params.RoomId] = &domain.Room{
		Id:        params.RoomId,
		Name:      params.Name,
		CreatorId: params.CreatorId,
		Status:    domain.RoomActive,
		UpdatedAt: time.Now().UTC(),
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (f *fakeRepo) GetRoom(ctx context.Context, roomId string) (domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.rooms[roomId]
	if !ok || rm.Status == domain.RoomDeleted {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return *rm, nil
}

func (f *fakeRepo) GetRoomForUpdate(ctx context.Context, roomId string) (domain.Room, error) {
	return f.GetRoom(ctx, roomId)
}

func (f *fakeRepo) GetRoomsByUser(ctx context.Context, userId string) ([]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Room
	for roomId, members := range f.participants {
		p, ok := members[userId]
		if !ok || p.Status == domain.ParticipantDeleted {
			continue
		}
		rm, ok := f.rooms[roomId]
		if !ok || rm.Status == domain.RoomDeleted {
			continue
		}
		out = append(out, *rm)
	}
	return out, nil
}

func (f *fakeRepo) SetRoomPlayback(ctx context.Context, params *room.SetRoomPlaybackParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.rooms[params.RoomId]
	if !ok {
		return domain.ErrRoomNotFound
	}
	rm.CurrentMediaId = params.CurrentMediaId
	rm.MediaTime = params.MediaTime
	rm.Status = params.Status
	rm.UpdatedAt = params.UpdatedAt
	return nil
}

func (f *fakeRepo) UpdateRoomStatus(ctx context.Context, roomId string, status domain.RoomStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rm, ok := f.rooms[roomId]
	if !ok {
		return domain.ErrRoomNotFound
	}
	rm.Status = status
	return nil
}

func (f *fakeRepo) CreateParticipant(ctx context.Context, params *room.CreateParticipantParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	members, ok := f.participants[params.RoomId]
	if !ok {
		members = make(map[string]*domain.Participant)
		f.participants[params.RoomId] = members
	}
	members[params.UserId] = &domain.Participant{
		UserId:     params.UserId,
		RoomId:     params.RoomId,
		Status:     params.Status,
		MediaState: params.MediaState,
	}
	return nil
}

func (f *fakeRepo) GetParticipant(ctx context.Context, params *room.GetParticipantParams) (domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[params.RoomId][params.UserId]
	if !ok {
		return domain.Participant{}, domain.ErrParticipantNotFound
	}
	return *p, nil
}

func (f *fakeRepo) GetParticipants(ctx context.Context, roomId string) ([]domain.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Participant
	for _, p := range f.participants[roomId] {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserId < out[j].UserId })
	return out, nil
}

func (f *fakeRepo) UpdateParticipantStatus(ctx context.Context, params *room.UpdateParticipantStatusParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[params.RoomId][params.UserId]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Status = params.Status
	return nil
}

func (f *fakeRepo) UpdateParticipantMediaState(ctx context.Context, params *room.UpdateParticipantMediaStateParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[params.RoomId][params.UserId]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.MediaState = params.MediaState
	return nil
}

func (f *fakeRepo) SetParticipantsMediaState(ctx context.Context, params *room.SetParticipantsMediaStateParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.participants[params.RoomId] {
		if p.Status == domain.ParticipantIn {
			p.MediaState = params.MediaState
		}
	}
	return nil
}

func (f *fakeRepo) CountParticipantsNotInState(ctx context.Context, params *room.CountParticipantsNotInStateParams) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, p := range f.participants[params.RoomId] {
		if p.Status == domain.ParticipantIn && p.MediaState != params.MediaState {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateMedia(ctx context.Context, params *room.CreateMediaParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.media[params.MediaId] = &domain.Media{
		Id:        params.MediaId,
		RoomId:    params.RoomId,
		CreatorId: params.CreatorId,
		URL:       params.URL,
		TotalVote: params.TotalVote,
		Status:    params.Status,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (f *fakeRepo) GetMedia(ctx context.Context, mediaId string) (domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[mediaId]
	if !ok || m.Status == domain.MediaDeleted {
		return domain.Media{}, domain.ErrMediaNotFound
	}
	return *m, nil
}

func (f *fakeRepo) GetMediaForUpdate(ctx context.Context, mediaId string) (domain.Media, error) {
	return f.GetMedia(ctx, mediaId)
}

func (f *fakeRepo) GetNextMedia(ctx context.Context, roomId string) (domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var candidates []*domain.Media
	for _, m := range f.media {
		if m.RoomId == roomId && m.Status == domain.MediaVoting {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return domain.Media{}, domain.ErrMediaNotFound
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.TotalVote != b.TotalVote {
			return a.TotalVote > b.TotalVote
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.Id < b.Id
	})
	return *candidates[0], nil
}

func (f *fakeRepo) GetPlaylist(ctx context.Context, roomId string) ([]domain.Media, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Media
	for _, m := range f.media {
		if m.RoomId == roomId && m.Status == domain.MediaVoting {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalVote != out[j].TotalVote {
			return out[i].TotalVote > out[j].TotalVote
		}
		return out[i].Id < out[j].Id
	})
	return out, nil
}

func (f *fakeRepo) UpdateMediaStatus(ctx context.Context, mediaId string, status domain.MediaStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[mediaId]
	if !ok {
		return domain.ErrMediaNotFound
	}
	m.Status = status
	return nil
}

func (f *fakeRepo) IncrementMediaVote(ctx context.Context, mediaId string, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.media[mediaId]
	if !ok {
		return domain.ErrMediaNotFound
	}
	m.TotalVote += delta
	return nil
}

func (f *fakeRepo) GetVote(ctx context.Context, params *room.GetVoteParams) (domain.Vote, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.votes[params.MediaId][params.UserId]
	if !ok {
		return domain.Vote{}, false, nil
	}
	return *v, true, nil
}

func (f *fakeRepo) CreateVote(ctx context.Context, params *room.CreateVoteParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	votes, ok := f.votes[params.MediaId]
	if !ok {
		votes = make(map[string]*domain.Vote)
		f.votes[params.MediaId] = votes
	}
	votes[params.UserId] = &domain.Vote{
		UserId:    params.UserId,
		MediaId:   params.MediaId,
		Direction: params.Direction,
	}
	return nil
}

func (f *fakeRepo) UpdateVoteDirection(ctx context.Context, params *room.UpdateVoteDirectionParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.votes[params.MediaId][params.UserId]
	if !ok {
		return domain.ErrMediaNotFound
	}
	v.Direction = params.Direction
	return nil
}

func (f *fakeRepo) CreateMessage(ctx context.Context, params *room.CreateMessageParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, domain.Message{
		Id:        params.MessageId,
		RoomId:    params.RoomId,
		UserId:    params.UserId,
		Content:   params.Content,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

func (f *fakeRepo) GetMessages(ctx context.Context, roomId string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Message
	for _, m := range f.messages {
		if m.RoomId == roomId {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[string]domain.User
}

func (f fakeUserRepo) GetUserById(ctx context.Context, userId string) (domain.User, error) {
	u, ok := f.users[userId]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

type broadcastRecord struct {
	RoomId  string
	Event   domain.Event
	Payload any
}

type fakeRelay struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (f *fakeRelay) Broadcast(ctx context.Context, roomId string, event domain.Event, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastRecord{RoomId: roomId, Event: event, Payload: payload})
}

func (f *fakeRelay) lastEvent() (broadcastRecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.events) == 0 {
		return broadcastRecord{}, false
	}
	return f.events[len(f.events)-1], true
}

func (f *fakeRelay) eventsOf(event domain.Event) []broadcastRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []broadcastRecord
	for _, e := range f.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

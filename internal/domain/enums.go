package domain

type UserStatus string

const (
	UserActive  UserStatus = "active"
	UserDeleted UserStatus = "deleted"
)

// RoomStatus carries both the room lifecycle and the authoritative playback
// state. While status is RoomPlaying the stored offset advances with wall
// clock time; in every other state the stored offset is the frozen position.
type RoomStatus string

const (
	RoomActive   RoomStatus = "active"
	RoomDeleted  RoomStatus = "deleted"
	RoomPlaying  RoomStatus = "playing"
	RoomPausing  RoomStatus = "pausing"
	RoomReady    RoomStatus = "ready"
	RoomSeeking  RoomStatus = "seeking"
	RoomFinished RoomStatus = "finished"
)

type ParticipantStatus string

const (
	ParticipantIn      ParticipantStatus = "in"
	ParticipantOut     ParticipantStatus = "out"
	ParticipantDeleted ParticipantStatus = "deleted"
)

// MediaState is what a participant's client has acknowledged locally. It is
// distinct from the room status, which is the authoritative state.
type MediaState string

const (
	MediaStateReady    MediaState = "ready"
	MediaStatePlaying  MediaState = "playing"
	MediaStatePausing  MediaState = "pausing"
	MediaStateSeeking  MediaState = "seeking"
	MediaStateFinished MediaState = "finished"
)

func (s MediaState) Valid() bool {
	switch s {
	case MediaStateReady, MediaStatePlaying, MediaStatePausing, MediaStateSeeking, MediaStateFinished:
		return true
	}
	return false
}

type MediaStatus string

const (
	MediaVoting   MediaStatus = "voting"
	MediaActive   MediaStatus = "active"
	MediaPlaying  MediaStatus = "playing"
	MediaFinished MediaStatus = "finished"
	MediaDeleted  MediaStatus = "deleted"
)

type VoteDirection string

const (
	Upvote   VoteDirection = "upvote"
	Downvote VoteDirection = "downvote"
)

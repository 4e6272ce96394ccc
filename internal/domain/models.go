package domain

import "time"

type User struct {
	Id           string
	Name         string
	Email        string
	PasswordHash string
	PasswordSalt string
	Status       UserStatus
	CreatedAt    time.Time
}

type Room struct {
	Id             string
	Name           string
	CreatorId      string
	Status         RoomStatus
	CurrentMediaId *string
	// MediaTime is the stored playback offset in seconds. It is only the
	// effective position directly when the room is not playing; see
	// Room.Position.
	MediaTime float64
	UpdatedAt time.Time
	CreatedAt time.Time
}

// Position returns the effective playback offset at the given instant.
func (r Room) Position(now time.Time) float64 {
	if r.Status == RoomPlaying {
		return r.MediaTime + now.Sub(r.UpdatedAt).Seconds()
	}
	return r.MediaTime
}

type Participant struct {
	UserId     string
	RoomId     string
	Status     ParticipantStatus
	MediaState MediaState
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Media struct {
	Id        string
	RoomId    string
	CreatorId string
	URL       string
	TotalVote int
	Status    MediaStatus
	CreatedAt time.Time
}

type Vote struct {
	UserId    string
	MediaId   string
	Direction VoteDirection
	UpdatedAt time.Time
}

type Message struct {
	Id        string
	RoomId    string
	UserId    string
	Content   string
	CreatedAt time.Time
}

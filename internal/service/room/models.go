package room

import "time"

type Participant struct {
	UserId     string `json:"user_id"`
	Status     string `json:"status"`
	MediaState string `json:"media_state"`
}

// MediaItem is a playlist entry as exposed to clients. For the currently
// playing item Status mirrors the room status and MediaTime carries the
// effective playback offset.
type MediaItem struct {
	Id        string  `json:"id"`
	RoomId    string  `json:"room_id"`
	CreatorId string  `json:"creator_id"`
	URL       string  `json:"url"`
	TotalVote int     `json:"total_vote"`
	Status    string  `json:"status"`
	MediaTime float64 `json:"media_time"`
}

type PlayerState struct {
	MediaId   *string   `json:"media_id"`
	Status    string    `json:"status"`
	MediaTime float64   `json:"media_time"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	Id        string    `json:"id"`
	RoomId    string    `json:"room_id"`
	UserId    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Room struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	CreatorId string `json:"creator_id"`
	Status    string `json:"status"`
}

type RoomInfo struct {
	Room         Room          `json:"room"`
	Participants []Participant `json:"participants"`
	Playlist     []MediaItem   `json:"playlist"`
	Messages     []Message     `json:"messages"`
	CurrentMedia *MediaItem    `json:"current_media"`
}

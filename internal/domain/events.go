package domain

// Event names delivered through the notification relay. Clients subscribed to
// a room channel receive an envelope of {event, data}.
type Event string

const (
	EventPlay               Event = "play"
	EventPause              Event = "pause"
	EventSeek               Event = "seek"
	EventProceed            Event = "proceed"
	EventNewMedia           Event = "new_media"
	EventMediaUpvoted       Event = "media_upvoted"
	EventMediaDownvoted     Event = "media_downvoted"
	EventNewMessage         Event = "new_message"
	EventParticipantJoined  Event = "participant_joined"
	EventParticipantLeft    Event = "participant_left"
	EventParticipantRemoved Event = "participant_removed"
)

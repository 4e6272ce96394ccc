package domain

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrInvalidCredentials  = errors.New("email or password is incorrect")
	ErrInvalidToken        = errors.New("invalid access token")
	ErrRoomNotFound        = errors.New("room not found")
	ErrMediaNotFound       = errors.New("media not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrNotRoomMember       = errors.New("not a member of this room")
	ErrNotRoomCreator      = errors.New("only the room creator can do that")
	ErrNotMediaCreator     = errors.New("only the media creator can do that")
	ErrAlreadyJoined       = errors.New("already participated in this room")
	ErrParticipantRemoved  = errors.New("participant was removed from this room")
	ErrAlreadyVoted        = errors.New("already voted that direction")
	ErrNoVoteToFlip        = errors.New("you have to upvote first in order to downvote")
	ErrMediaNotVotable     = errors.New("media is not open for voting")
	ErrMediaNotRemovable   = errors.New("media cannot be removed")
)

package models

import (
	"time"
)

// SessionStatus represents the current state of a matchmaking session
type SessionStatus string

const (
	// SessionStatusWaiting indicates a session is waiting for players to join
	SessionStatusWaiting SessionStatus = "waiting"

	// SessionStatusFull indicates a session has reached its target size
	SessionStatusFull SessionStatus = "full"

	// SessionStatusResourceFailed indicates the voice channel could not be
	// provisioned; the roster is kept but no retry happens
	SessionStatusResourceFailed SessionStatus = "resource_failed"

	// SessionStatusEnded indicates a session has been ended
	SessionStatusEnded SessionStatus = "ended"
)

// SessionTTL is how long a session may live before it expires.
const SessionTTL = 20 * time.Minute

// Session represents one matchmaking request and its evolving roster
type Session struct {
	// ID is the unique identifier for the session
	ID string

	// GuildID is the Discord server/guild this session belongs to
	GuildID string

	// ChannelID is the text channel where the session status is posted
	ChannelID string

	// MessageID is the ID of the status message in Discord, if posted
	MessageID string

	// CreatorID is the Discord user ID of the player who opened the session
	CreatorID string

	// Activity is what the party is for
	Activity Activity

	// Mode is the activity mode being played
	Mode Mode

	// TargetSize is how many players the session is looking for
	TargetSize int

	// Note is optional free text from the creator
	Note string

	// Status is the current state of the session
	Status SessionStatus

	// Roster contains the players in join order; the creator is always first
	Roster []*Player

	// VoiceChannelID is the provisioned voice channel, once the session fills
	VoiceChannelID string

	// CategoryID is the per-activity category the voice channel lives under
	CategoryID string

	// CreatedAt is when the session was created
	CreatedAt time.Time

	// UpdatedAt is when the session was last updated
	UpdatedAt time.Time

	// ExpiresAt is when the session expires if still active
	ExpiresAt time.Time
}

// HasPlayer reports whether the given user is on the roster
func (s *Session) HasPlayer(userID string) bool {
	for _, p := range s.Roster {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// RosterIDs returns the user IDs of the roster in join order
func (s *Session) RosterIDs() []string {
	ids := make([]string, 0, len(s.Roster))
	for _, p := range s.Roster {
		ids = append(ids, p.ID)
	}
	return ids
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	dup := *s
	dup.Roster = make([]*Player, len(s.Roster))
	for i, p := range s.Roster {
		player := *p
		dup.Roster[i] = &player
	}
	return &dup
}

// Player represents a member of a session's roster
type Player struct {
	// ID is the Discord user ID of the player
	ID string

	// DisplayName is the display name of the player
	DisplayName string

	// JoinedAt is when the player joined the session
	JoinedAt time.Time
}

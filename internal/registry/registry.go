// Package registry holds the authoritative in-memory view of all active
// matchmaking sessions. Membership changes go through Create, Join, Leave and
// Remove, which keep the user indices and the roster consistent under one
// critical section; other field updates go through Mutate, which serializes
// writers per session. The durable store is only a crash-recovery mirror of
// what lives here.
package registry

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/squadup/squadup/internal/models"
)

var (
	// ErrSessionNotFound is returned when a session is not in the registry
	ErrSessionNotFound = errors.New("session not found in registry")

	// ErrDuplicateSession is returned when a session ID is already registered
	ErrDuplicateSession = errors.New("session already registered")

	// ErrUserBusy is returned when a user is already the creator or a roster
	// member of another active session
	ErrUserBusy = errors.New("user already in an active session")

	// ErrSessionFull is returned when a join finds no roster slot left
	ErrSessionFull = errors.New("session roster is full")

	// ErrNotAMember is returned when a leave finds the user not on the roster
	ErrNotAMember = errors.New("user is not on the session roster")
)

// entry pairs a session with its write lock. The removed flag closes the
// window between a lookup and taking the entry lock: a Mutate that loses the
// race against Remove must not resurrect the session.
type entry struct {
	mu      sync.Mutex
	sess    *models.Session
	removed bool
}

// Registry is the in-memory session store and its user indices
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	creators map[string]string // user ID -> session ID they created
	members  map[string]string // user ID -> session ID they are rostered in
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		creators: make(map[string]string),
		members:  make(map[string]string),
	}
}

// JoinOutcome reports what a Join changed
type JoinOutcome struct {
	Session *models.Session

	// AlreadyJoined indicates the user was already on the roster
	AlreadyJoined bool

	// BecameFull indicates this join filled the roster
	BecameFull bool
}

// LeaveOutcome reports what a Leave changed
type LeaveOutcome struct {
	Session *models.Session

	// CreatorLeft indicates the leaving user created the session; the roster
	// is left untouched so the caller can end the session with it intact
	CreatorLeft bool

	// BecameEmpty indicates the roster drained to zero
	BecameEmpty bool
}

// Create registers a new session and indexes its creator and roster
func (r *Registry) Create(sess *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[sess.ID]; ok {
		return ErrDuplicateSession
	}

	if _, ok := r.creators[sess.CreatorID]; ok {
		return ErrUserBusy
	}

	if _, ok := r.members[sess.CreatorID]; ok {
		return ErrUserBusy
	}

	r.sessions[sess.ID] = &entry{sess: sess}
	r.creators[sess.CreatorID] = sess.ID
	for _, p := range sess.Roster {
		if _, ok := r.members[p.ID]; !ok {
			r.members[p.ID] = sess.ID
		}
	}

	return nil
}

// Join atomically adds a player to a session. The busy check, the roster
// insert and the member index entry commit inside one critical section, so
// two concurrent joins by the same user can never land on two rosters, and
// two joins racing for the last slot can never both win it.
func (r *Registry) Join(sessionID string, player *models.Player, now time.Time) (*JoinOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return nil, ErrSessionNotFound
	}

	sess := e.sess
	if sess.HasPlayer(player.ID) {
		return &JoinOutcome{Session: sess.Clone(), AlreadyJoined: true}, nil
	}

	if _, busy := r.members[player.ID]; busy {
		return nil, ErrUserBusy
	}

	if len(sess.Roster) >= sess.TargetSize {
		return nil, ErrSessionFull
	}

	sess.Roster = append(sess.Roster, player)
	sess.UpdatedAt = now
	r.members[player.ID] = sessionID

	becameFull := false
	if sess.Status == models.SessionStatusWaiting && len(sess.Roster) == sess.TargetSize {
		sess.Status = models.SessionStatusFull
		becameFull = true
	}

	return &JoinOutcome{Session: sess.Clone(), BecameFull: becameFull}, nil
}

// Leave atomically removes a player from a session and frees their member
// index entry, so the user can join elsewhere the moment Leave returns. A
// leaving creator is only flagged; Remove clears the indices when the caller
// ends the session.
func (r *Registry) Leave(sessionID, userID string, now time.Time) (*LeaveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return nil, ErrSessionNotFound
	}

	sess := e.sess
	if !sess.HasPlayer(userID) {
		return nil, ErrNotAMember
	}

	if userID == sess.CreatorID {
		return &LeaveOutcome{Session: sess.Clone(), CreatorLeft: true}, nil
	}

	roster := make([]*models.Player, 0, len(sess.Roster))
	for _, p := range sess.Roster {
		if p.ID != userID {
			roster = append(roster, p)
		}
	}
	sess.Roster = roster
	sess.UpdatedAt = now

	if r.members[userID] == sessionID {
		delete(r.members, userID)
	}

	if len(sess.Roster) == 0 {
		return &LeaveOutcome{Session: sess.Clone(), BecameEmpty: true}, nil
	}

	if sess.Status == models.SessionStatusFull && len(sess.Roster) < sess.TargetSize {
		sess.Status = models.SessionStatusWaiting
	}

	return &LeaveOutcome{Session: sess.Clone()}, nil
}

// Get returns a copy of the session, if present
func (r *Registry) Get(sessionID string) (*models.Session, bool) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return nil, false
	}

	return e.sess.Clone(), true
}

// Mutate runs fn against the session under its lock and returns a copy of
// the result. fn must not change the roster (Join and Leave own the member
// index) and must leave the session unchanged when it returns an error.
func (r *Registry) Mutate(sessionID string, fn func(*models.Session) error) (*models.Session, error) {
	e, ok := r.lookup(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.removed {
		return nil, ErrSessionNotFound
	}

	if err := fn(e.sess); err != nil {
		return e.sess.Clone(), err
	}

	return e.sess.Clone(), nil
}

// Remove deletes the session and its index entries, returning a copy of what
// was removed. Removing an absent session reports ok=false.
func (r *Registry) Remove(sessionID string) (*models.Session, bool) {
	r.mu.Lock()

	e, ok := r.sessions[sessionID]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}

	delete(r.sessions, sessionID)
	delete(r.creators, e.sess.CreatorID)
	for _, p := range e.sess.Roster {
		if r.members[p.ID] == sessionID {
			delete(r.members, p.ID)
		}
	}
	r.mu.Unlock()

	// Serialize with any mutation still in flight
	e.mu.Lock()
	defer e.mu.Unlock()

	e.removed = true

	return e.sess.Clone(), true
}

// ListActive returns copies of all registered sessions, oldest first
func (r *Registry) ListActive() []*models.Session {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	sessions := make([]*models.Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.removed {
			sessions = append(sessions, e.sess.Clone())
		}
		e.mu.Unlock()
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	return sessions
}

// CreatorSession returns the ID of the session the user created, if any
func (r *Registry) CreatorSession(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessionID, ok := r.creators[userID]
	return sessionID, ok
}

// IsUserBusy reports whether the user created or joined any active session
func (r *Registry) IsUserBusy(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.creators[userID]; ok {
		return true
	}

	_, ok := r.members[userID]
	return ok
}

// FindByVoiceChannel returns a copy of the session owning the given voice
// channel, if any
func (r *Registry) FindByVoiceChannel(channelID string) (*models.Session, bool) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.sessions))
	for _, e := range r.sessions {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	for _, e := range entries {
		e.mu.Lock()
		match := !e.removed && e.sess.VoiceChannelID == channelID
		var sess *models.Session
		if match {
			sess = e.sess.Clone()
		}
		e.mu.Unlock()
		if match {
			return sess, true
		}
	}

	return nil, false
}

func (r *Registry) lookup(sessionID string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[sessionID]
	return e, ok
}

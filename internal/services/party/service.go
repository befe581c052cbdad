package party

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/squadup/squadup/internal/common/clock"
	"github.com/squadup/squadup/internal/common/uuid"
	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/presentation"
	"github.com/squadup/squadup/internal/provisioner"
	"github.com/squadup/squadup/internal/registry"
	sessionRepo "github.com/squadup/squadup/internal/repositories/session"
)

const (
	defaultMinPartySize  = 2
	defaultMaxPartySize  = 10
	defaultIdleThreshold = 60 * time.Second
)

// service implements the Service interface
type service struct {
	registry    *registry.Registry
	sessionRepo sessionRepo.Repository
	backend     provisioner.Backend
	presenter   presentation.Service
	clock       clock.Clock
	uuider      uuid.UUID

	sessionTTL    time.Duration
	idleThreshold time.Duration
	maxParties    int
	minPartySize  int
	maxPartySize  int
	activities    map[models.Activity][]models.Mode

	timerMu sync.Mutex
	timers  map[string]*time.Timer

	watchMu sync.Mutex
	watch   map[string]*watchEntry
}

// watchEntry tracks a provisioned voice channel observed with zero occupants
type watchEntry struct {
	guildID    string
	categoryID string
	emptySince time.Time
}

// New creates a new party service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.SessionRepo == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.Provisioner == nil {
		return nil, ErrNilProvisioner
	}

	if cfg.Presenter == nil {
		return nil, ErrNilPresenter
	}

	s := &service{
		registry:      registry.New(),
		sessionRepo:   cfg.SessionRepo,
		backend:       cfg.Provisioner,
		presenter:     cfg.Presenter,
		clock:         cfg.Clock,
		uuider:        cfg.UUIDGenerator,
		sessionTTL:    cfg.SessionTTL,
		idleThreshold: cfg.IdleThreshold,
		maxParties:    cfg.MaxParties,
		minPartySize:  cfg.MinPartySize,
		maxPartySize:  cfg.MaxPartySize,
		activities:    cfg.Activities,
		timers:        make(map[string]*time.Timer),
		watch:         make(map[string]*watchEntry),
	}

	if s.clock == nil {
		s.clock = &clock.DefaultClock{}
	}

	if s.uuider == nil {
		s.uuider = uuid.New()
	}

	if s.sessionTTL <= 0 {
		s.sessionTTL = models.SessionTTL
	}

	if s.idleThreshold <= 0 {
		s.idleThreshold = defaultIdleThreshold
	}

	if s.minPartySize < 2 {
		s.minPartySize = defaultMinPartySize
	}

	if s.maxPartySize <= 0 {
		s.maxPartySize = defaultMaxPartySize
	}

	if s.activities == nil {
		s.activities = models.DefaultActivities
	}

	return s, nil
}

// CreateParty opens a new matchmaking session with the caller as creator
func (s *service) CreateParty(ctx context.Context, input *CreatePartyInput) (*CreatePartyOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if input.TargetSize < s.minPartySize || input.TargetSize > s.maxPartySize {
		return nil, ErrInvalidTargetSize
	}

	if !models.ValidMode(s.activities, input.Activity, input.Mode) {
		return nil, ErrInvalidMode
	}

	if s.registry.IsUserBusy(input.UserID) {
		return nil, ErrAlreadyActive
	}

	if s.maxParties > 0 && len(s.registry.ListActive()) >= s.maxParties {
		return nil, ErrTooManyParties
	}

	if err := s.backend.CheckCapability(ctx, &provisioner.CheckCapabilityInput{
		GuildID: input.GuildID,
	}); err != nil {
		var capErr *provisioner.CapabilityError
		if errors.As(err, &capErr) {
			return nil, fmt.Errorf("%w (%s)", ErrPermissionDenied, capErr)
		}
		return nil, fmt.Errorf("failed to check guild capability: %w", err)
	}

	now := s.clock.Now()
	sess := &models.Session{
		ID:         s.uuider.NewUUID(),
		GuildID:    input.GuildID,
		ChannelID:  input.ChannelID,
		CreatorID:  input.UserID,
		Activity:   input.Activity,
		Mode:       input.Mode,
		TargetSize: input.TargetSize,
		Note:       input.Note,
		Status:     models.SessionStatusWaiting,
		Roster: []*models.Player{
			{
				ID:          input.UserID,
				DisplayName: input.UserName,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.registry.Create(sess); err != nil {
		if errors.Is(err, registry.ErrUserBusy) {
			return nil, ErrAlreadyActive
		}
		return nil, fmt.Errorf("failed to register session: %w", err)
	}

	s.persist(ctx, sess)

	if err := s.sessionRepo.SetUserPointer(ctx, &sessionRepo.SetUserPointerInput{
		UserID:    input.UserID,
		SessionID: sess.ID,
	}); err != nil {
		log.Printf("Failed to set user pointer for %s: %v", input.UserID, err)
	}

	s.armTimer(sess.ID, sess.ExpiresAt.Sub(now))

	out := s.publish(ctx, sess)

	return &CreatePartyOutput{Session: out}, nil
}

// JoinParty adds the caller to an existing party
func (s *service) JoinParty(ctx context.Context, input *JoinPartyInput) (*JoinPartyOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	now := s.clock.Now()

	// The registry decides everything under one critical section: the busy
	// check, the roster insert and the full transition that gates
	// provisioning. Splitting the busy check out here would reopen the
	// two-rosters-at-once race.
	out, err := s.registry.Join(input.SessionID, &models.Player{
		ID:          input.UserID,
		DisplayName: input.UserName,
		JoinedAt:    now,
	}, now)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, registry.ErrUserBusy):
			return nil, ErrAlreadyActive
		case errors.Is(err, registry.ErrSessionFull):
			return nil, ErrSessionFull
		}
		return nil, err
	}

	if out.AlreadyJoined {
		return &JoinPartyOutput{
			Session:       out.Session,
			AlreadyJoined: true,
		}, nil
	}

	updated := out.Session
	s.persist(ctx, updated)

	if out.BecameFull {
		updated = s.provision(ctx, updated)
	}

	updated = s.publish(ctx, updated)

	return &JoinPartyOutput{
		Session:    updated,
		BecameFull: out.BecameFull,
	}, nil
}

// LeaveParty removes the caller from a party; a leaving creator ends it
func (s *service) LeaveParty(ctx context.Context, input *LeavePartyInput) (*LeavePartyOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	now := s.clock.Now()

	out, err := s.registry.Leave(input.SessionID, input.UserID, now)
	if err != nil {
		switch {
		case errors.Is(err, registry.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, registry.ErrNotAMember):
			return nil, ErrNotAMember
		}
		return nil, err
	}

	if out.CreatorLeft {
		s.endSession(ctx, input.SessionID, EndReasonCreatorLeft)
		return &LeavePartyOutput{Ended: true}, nil
	}

	if out.BecameEmpty {
		s.endSession(ctx, input.SessionID, EndReasonEmpty)
		return &LeavePartyOutput{Ended: true}, nil
	}

	updated := out.Session
	s.persist(ctx, updated)
	updated = s.publish(ctx, updated)

	return &LeavePartyOutput{Session: updated}, nil
}

// QuickJoin joins the oldest open party matching the caller's filters
func (s *service) QuickJoin(ctx context.Context, input *QuickJoinInput) (*QuickJoinOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	if s.registry.IsUserBusy(input.UserID) {
		return nil, ErrAlreadyActive
	}

	// ListActive is oldest-first, so the earliest-created party fills first
	for _, sess := range s.registry.ListActive() {
		if sess.GuildID != input.GuildID ||
			sess.Activity != input.Activity ||
			sess.Mode != input.Mode ||
			sess.Status != models.SessionStatusWaiting ||
			len(sess.Roster) >= sess.TargetSize {
			continue
		}

		out, err := s.JoinParty(ctx, &JoinPartyInput{
			SessionID: sess.ID,
			UserID:    input.UserID,
			UserName:  input.UserName,
		})
		if err != nil {
			// The candidate filled or ended between the scan and the join;
			// move on to the next oldest.
			if errors.Is(err, ErrSessionFull) || errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		return &QuickJoinOutput{
			Session:    out.Session,
			BecameFull: out.BecameFull,
		}, nil
	}

	return nil, ErrNoAvailableSession
}

// EndParty ends the party the caller created
func (s *service) EndParty(ctx context.Context, input *EndPartyInput) (*EndPartyOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sessionID, ok := s.registry.CreatorSession(input.UserID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	s.endSession(ctx, sessionID, EndReasonCreator)

	return &EndPartyOutput{}, nil
}

// ListParties returns the active parties in a guild, oldest first
func (s *service) ListParties(ctx context.Context, input *ListPartiesInput) (*ListPartiesOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	sessions := make([]*models.Session, 0)
	for _, sess := range s.registry.ListActive() {
		if sess.GuildID == input.GuildID {
			sessions = append(sessions, sess)
		}
	}

	return &ListPartiesOutput{Sessions: sessions}, nil
}

// endSession tears a session down. It is idempotent: whoever reaches it
// first (user action, expiry timer, or sweep) claims the session off the
// registry and performs the cleanup; later callers find nothing and no-op.
func (s *service) endSession(ctx context.Context, sessionID, reason string) {
	sess, ok := s.registry.Remove(sessionID)
	if !ok {
		return
	}

	s.cancelTimer(sessionID)

	if sess.VoiceChannelID != "" {
		s.unwatch(sess.VoiceChannelID)

		if err := s.backend.DeleteResource(ctx, &provisioner.DeleteResourceInput{
			ResourceID: sess.VoiceChannelID,
		}); err != nil {
			// The channel is abandoned; the idle sweep catches it if it
			// still exists and sits empty.
			log.Printf("Failed to delete voice channel %s for session %s: %v", sess.VoiceChannelID, sessionID, err)
		}

		if sess.CategoryID != "" {
			if err := s.backend.DeleteGroupingIfEmpty(ctx, &provisioner.DeleteGroupingIfEmptyInput{
				GuildID:    sess.GuildID,
				GroupingID: sess.CategoryID,
			}); err != nil {
				log.Printf("Failed to delete category %s: %v", sess.CategoryID, err)
			}
		}
	}

	if err := s.sessionRepo.MarkInactive(ctx, &sessionRepo.MarkInactiveInput{
		SessionID: sessionID,
	}); err != nil {
		log.Printf("Failed to mark session %s inactive: %v", sessionID, err)
	}

	if err := s.sessionRepo.ClearUserPointer(ctx, &sessionRepo.ClearUserPointerInput{
		UserID: sess.CreatorID,
	}); err != nil {
		log.Printf("Failed to clear user pointer for %s: %v", sess.CreatorID, err)
	}

	if err := s.presenter.MarkEnded(ctx, &presentation.MarkEndedInput{
		Session: sess,
		Reason:  reason,
	}); err != nil {
		log.Printf("Failed to mark session %s ended in Discord: %v", sessionID, err)
	}

	log.Printf("Session %s ended: %s", sessionID, reason)
}

// provision creates the voice channel for a freshly filled party and records
// its handle. Runs outside the session lock; the full transition that led
// here was already committed.
func (s *service) provision(ctx context.Context, sess *models.Session) *models.Session {
	if sess.VoiceChannelID != "" {
		// A channel from an earlier fill survived a leave/rejoin cycle
		return sess
	}

	grouping, err := s.backend.EnsureGrouping(ctx, &provisioner.EnsureGroupingInput{
		GuildID:  sess.GuildID,
		Activity: sess.Activity,
	})
	if err != nil {
		log.Printf("Failed to ensure category for session %s: %v", sess.ID, err)
		return s.markProvisionFailed(ctx, sess.ID)
	}

	created, err := s.backend.CreateScopedResource(ctx, &provisioner.CreateScopedResourceInput{
		GuildID:    sess.GuildID,
		GroupingID: grouping.GroupingID,
		Name:       channelName(sess),
		MemberIDs:  sess.RosterIDs(),
	})
	if err != nil {
		log.Printf("Failed to create voice channel for session %s: %v", sess.ID, err)
		return s.markProvisionFailed(ctx, sess.ID)
	}

	updated, err := s.registry.Mutate(sess.ID, func(stored *models.Session) error {
		stored.VoiceChannelID = created.ResourceID
		stored.CategoryID = grouping.GroupingID
		stored.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		// The session ended while the channel was being created; drop the
		// channel rather than orphan it.
		log.Printf("Session %s ended mid-provisioning, deleting channel %s", sess.ID, created.ResourceID)
		if delErr := s.backend.DeleteResource(ctx, &provisioner.DeleteResourceInput{
			ResourceID: created.ResourceID,
		}); delErr != nil {
			log.Printf("Failed to delete orphaned channel %s: %v", created.ResourceID, delErr)
		}
		return sess
	}

	s.persist(ctx, updated)

	return updated
}

// markProvisionFailed records the terminal resource_failed sub-status; the
// roster is kept and no retry happens
func (s *service) markProvisionFailed(ctx context.Context, sessionID string) *models.Session {
	updated, err := s.registry.Mutate(sessionID, func(sess *models.Session) error {
		sess.Status = models.SessionStatusResourceFailed
		sess.UpdatedAt = s.clock.Now()
		return nil
	})
	if err != nil {
		return nil
	}

	s.persist(ctx, updated)

	return updated
}

// persist mirrors the session to the durable store. The in-memory registry
// stays authoritative; a failed write is logged and accepted as a crash-loss
// risk until the next successful write.
func (s *service) persist(ctx context.Context, sess *models.Session) {
	if err := s.sessionRepo.UpsertSession(ctx, &sessionRepo.UpsertSessionInput{
		Session: sess,
	}); err != nil {
		log.Printf("Failed to persist session %s: %v", sess.ID, err)
	}
}

// publish posts or updates the status message and records its handle
func (s *service) publish(ctx context.Context, sess *models.Session) *models.Session {
	out, err := s.presenter.PostOrUpdateStatus(ctx, &presentation.PostOrUpdateStatusInput{
		Session: sess,
	})
	if err != nil {
		log.Printf("Failed to publish status for session %s: %v", sess.ID, err)
		return sess
	}

	if out.MessageID == "" || out.MessageID == sess.MessageID {
		return sess
	}

	updated, err := s.registry.Mutate(sess.ID, func(stored *models.Session) error {
		stored.MessageID = out.MessageID
		return nil
	})
	if err != nil {
		return sess
	}

	s.persist(ctx, updated)

	return updated
}

// channelName builds the voice channel name for a filled party
func channelName(sess *models.Session) string {
	return fmt.Sprintf("%s %s party", sess.Activity, sess.Mode)
}

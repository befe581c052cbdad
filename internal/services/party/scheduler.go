package party

import (
	"context"
	"log"
	"time"

	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/provisioner"
)

// armTimer schedules the expiry of a session. Re-arming replaces any
// existing timer.
func (s *service) armTimer(sessionID string, d time.Duration) {
	if d < 0 {
		d = 0
	}

	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
	}

	s.timers[sessionID] = time.AfterFunc(d, func() {
		s.expireSession(sessionID)
	})
}

// cancelTimer stops a session's expiry timer. Missing a cancellation is
// tolerated because endSession is idempotent, but cancelling eagerly avoids
// the wasted firing.
func (s *service) cancelTimer(sessionID string) {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	if t, ok := s.timers[sessionID]; ok {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// expireSession is the timer callback
func (s *service) expireSession(sessionID string) {
	s.timerMu.Lock()
	delete(s.timers, sessionID)
	s.timerMu.Unlock()

	s.endSession(context.Background(), sessionID, EndReasonExpired)
}

// Stop cancels all outstanding expiry timers
func (s *service) Stop() {
	s.timerMu.Lock()
	defer s.timerMu.Unlock()

	for sessionID, t := range s.timers {
		t.Stop()
		delete(s.timers, sessionID)
	}
}

// Tick runs one maintenance sweep. It backstops the per-session timers
// (a timer can be lost across a restart) and reclaims voice channels that
// have sat empty past the idle threshold.
func (s *service) Tick(ctx context.Context) {
	now := s.clock.Now()

	for _, sess := range s.registry.ListActive() {
		if !sess.ExpiresAt.After(now) {
			s.endSession(ctx, sess.ID, EndReasonExpired)
		}
	}

	s.reclaimIdleChannels(ctx, now)
}

// NotifyChannelOccupancy feeds voice channel occupancy changes into the
// idle-channel watch. Only channels owned by an active session are tracked;
// an entry is cleared the moment anyone joins the channel.
func (s *service) NotifyChannelOccupancy(channelID string, occupants int) {
	if occupants > 0 {
		s.unwatch(channelID)
		return
	}

	sess, ok := s.registry.FindByVoiceChannel(channelID)
	if !ok {
		return
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	if _, ok := s.watch[channelID]; ok {
		return
	}

	s.watch[channelID] = &watchEntry{
		guildID:    sess.GuildID,
		categoryID: sess.CategoryID,
		emptySince: s.clock.Now(),
	}
}

// unwatch drops a channel from the idle watch
func (s *service) unwatch(channelID string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	delete(s.watch, channelID)
}

// reclaimIdleChannels deletes watched channels whose emptiness outlasted the
// idle threshold, and their category if it is then empty
func (s *service) reclaimIdleChannels(ctx context.Context, now time.Time) {
	s.watchMu.Lock()
	due := make(map[string]*watchEntry)
	for channelID, entry := range s.watch {
		if now.Sub(entry.emptySince) >= s.idleThreshold {
			due[channelID] = entry
			delete(s.watch, channelID)
		}
	}
	s.watchMu.Unlock()

	for channelID, entry := range due {
		log.Printf("Reclaiming idle voice channel %s", channelID)

		// Detach the handle from the owning session first so a later end
		// does not delete the channel a second time
		if sess, ok := s.registry.FindByVoiceChannel(channelID); ok {
			updated, err := s.registry.Mutate(sess.ID, func(stored *models.Session) error {
				stored.VoiceChannelID = ""
				stored.CategoryID = ""
				stored.UpdatedAt = now
				return nil
			})
			if err == nil {
				s.persist(ctx, updated)
			}
		}

		if err := s.backend.DeleteResource(ctx, &provisioner.DeleteResourceInput{
			ResourceID: channelID,
		}); err != nil {
			log.Printf("Failed to delete idle voice channel %s: %v", channelID, err)
			continue
		}

		if entry.categoryID != "" {
			if err := s.backend.DeleteGroupingIfEmpty(ctx, &provisioner.DeleteGroupingIfEmptyInput{
				GuildID:    entry.guildID,
				GroupingID: entry.categoryID,
			}); err != nil {
				log.Printf("Failed to delete category %s: %v", entry.categoryID, err)
			}
		}
	}
}

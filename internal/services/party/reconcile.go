package party

import (
	"context"
	"fmt"
	"log"

	"github.com/squadup/squadup/internal/provisioner"
	sessionRepo "github.com/squadup/squadup/internal/repositories/session"
)

// Reconcile rebuilds the registry from the durable store after a process
// restart. Records past their TTL are soft-deleted without side effects;
// the rest come back with their remaining lifetime and, for filled parties,
// their existing voice channel handle. Nothing is re-provisioned and no
// status messages are re-posted.
func (s *service) Reconcile(ctx context.Context) error {
	out, err := s.sessionRepo.ListActive(ctx, &sessionRepo.ListActiveInput{})
	if err != nil {
		return fmt.Errorf("failed to load active sessions: %w", err)
	}

	now := s.clock.Now()
	restored, expired := 0, 0

	for _, record := range out.Records {
		sess := record.Session
		if sess == nil {
			continue
		}

		if !sess.ExpiresAt.After(now) {
			if err := s.sessionRepo.MarkInactive(ctx, &sessionRepo.MarkInactiveInput{
				SessionID: sess.ID,
			}); err != nil {
				log.Printf("Failed to expire stale session %s: %v", sess.ID, err)
			}

			if err := s.sessionRepo.ClearUserPointer(ctx, &sessionRepo.ClearUserPointerInput{
				UserID: sess.CreatorID,
			}); err != nil {
				log.Printf("Failed to clear user pointer for %s: %v", sess.CreatorID, err)
			}

			expired++
			continue
		}

		if err := s.registry.Create(sess); err != nil {
			log.Printf("Failed to restore session %s: %v", sess.ID, err)
			continue
		}

		// Repair the pointer; the session record and the pointer key are
		// written separately and a crash can land between them
		if err := s.sessionRepo.SetUserPointer(ctx, &sessionRepo.SetUserPointerInput{
			UserID:    sess.CreatorID,
			SessionID: sess.ID,
		}); err != nil {
			log.Printf("Failed to restore user pointer for %s: %v", sess.CreatorID, err)
		}

		// Arm for the remaining lifetime, not a fresh TTL
		s.armTimer(sess.ID, sess.ExpiresAt.Sub(now))

		// A channel that emptied while the process was down will never get
		// another voice-state event, so seed the idle watch from a fresh
		// occupancy read
		if sess.VoiceChannelID != "" {
			count, err := s.backend.CurrentOccupantCount(ctx, &provisioner.CurrentOccupantCountInput{
				GuildID:    sess.GuildID,
				ResourceID: sess.VoiceChannelID,
			})
			if err != nil {
				log.Printf("Failed to read occupancy of channel %s: %v", sess.VoiceChannelID, err)
			} else {
				s.NotifyChannelOccupancy(sess.VoiceChannelID, count)
			}
		}

		restored++
	}

	log.Printf("Reconciled %d active sessions (%d expired while down)", restored, expired)

	return nil
}

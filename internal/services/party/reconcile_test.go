package party

import (
	"time"

	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/provisioner"
	sessionRepo "github.com/squadup/squadup/internal/repositories/session"
	"go.uber.org/mock/gomock"
)

func (s *PartyServiceTestSuite) storedSession(id, creatorID string, createdAt time.Time) *models.Session {
	return &models.Session{
		ID:         id,
		GuildID:    s.testGuildID,
		ChannelID:  s.testChannelID,
		MessageID:  s.testMessageID,
		CreatorID:  creatorID,
		Activity:   models.ActivityValorant,
		Mode:       models.ModeCompetitive,
		TargetSize: 2,
		Status:     models.SessionStatusWaiting,
		Roster: []*models.Player{
			{ID: creatorID, DisplayName: "Stored Creator", JoinedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		ExpiresAt: createdAt.Add(20 * time.Minute),
	}
}

// TestReconcileRestoresWithoutReprovisioning is the restart-safety property:
// a stored full session with a channel handle comes back verbatim, and no
// channel creation or status posting happens during reconciliation. Only an
// occupancy read is expected; any provisioning call would fail the test.
func (s *PartyServiceTestSuite) TestReconcileRestoresWithoutReprovisioning() {
	stored := s.storedSession("stored-session-id", s.testCreatorID, s.testTime.Add(-5*time.Minute))
	stored.Status = models.SessionStatusFull
	stored.VoiceChannelID = s.testVoiceID
	stored.CategoryID = s.testCategoryID
	stored.Roster = append(stored.Roster, &models.Player{
		ID:          s.testJoinerID,
		DisplayName: s.testJoinerNm,
		JoinedAt:    s.testTime.Add(-4 * time.Minute),
	})

	s.mockRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(&sessionRepo.ListActiveOutput{
		Records: []*sessionRepo.Record{
			{Session: stored, Active: true},
		},
	}, nil).Times(1)
	s.mockRepo.EXPECT().SetUserPointer(gomock.Any(), &sessionRepo.SetUserPointerInput{
		UserID:    s.testCreatorID,
		SessionID: "stored-session-id",
	}).Return(nil).Times(1)
	s.mockBackend.EXPECT().CurrentOccupantCount(gomock.Any(), &provisioner.CurrentOccupantCountInput{
		GuildID:    s.testGuildID,
		ResourceID: s.testVoiceID,
	}).Return(2, nil).Times(1)

	err := s.partyService.Reconcile(s.ctx)
	s.Require().NoError(err)

	out, err := s.partyService.ListParties(s.ctx, &ListPartiesInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 1)
	s.Equal("stored-session-id", out.Sessions[0].ID)
	s.Equal(models.SessionStatusFull, out.Sessions[0].Status)
	s.Equal(s.testVoiceID, out.Sessions[0].VoiceChannelID)

	// Both indices are back: the creator and the restored member are busy
	_, err = s.partyService.QuickJoin(s.ctx, &QuickJoinInput{
		GuildID:  s.testGuildID,
		UserID:   s.testJoinerID,
		UserName: s.testJoinerNm,
		Activity: models.ActivityValorant,
		Mode:     models.ModeCompetitive,
	})
	s.Require().ErrorIs(err, ErrAlreadyActive)
}

func (s *PartyServiceTestSuite) TestReconcileExpiresStaleRecords() {
	stale := s.storedSession("stale-session-id", "stale-creator-id", s.testTime.Add(-25*time.Minute))
	fresh := s.storedSession("fresh-session-id", s.testCreatorID, s.testTime.Add(-5*time.Minute))

	s.mockRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(&sessionRepo.ListActiveOutput{
		Records: []*sessionRepo.Record{
			{Session: stale, Active: true},
			{Session: fresh, Active: true},
		},
	}, nil).Times(1)

	// The stale record is soft-deleted with no other side effects
	s.mockRepo.EXPECT().MarkInactive(gomock.Any(), &sessionRepo.MarkInactiveInput{
		SessionID: "stale-session-id",
	}).Return(nil).Times(1)
	s.mockRepo.EXPECT().ClearUserPointer(gomock.Any(), &sessionRepo.ClearUserPointerInput{
		UserID: "stale-creator-id",
	}).Return(nil).Times(1)

	s.mockRepo.EXPECT().SetUserPointer(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	err := s.partyService.Reconcile(s.ctx)
	s.Require().NoError(err)

	out, err := s.partyService.ListParties(s.ctx, &ListPartiesInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 1)
	s.Equal("fresh-session-id", out.Sessions[0].ID)
}

// TestReconcileArmsRemainingTTL verifies a restored session expires at its
// original deadline, not a fresh TTL from the restart.
func (s *PartyServiceTestSuite) TestReconcileArmsRemainingTTL() {
	s.expectPersistence()
	reason := s.expectEnd()

	fresh := s.storedSession("fresh-session-id", s.testCreatorID, s.testTime.Add(-15*time.Minute))

	s.mockRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(&sessionRepo.ListActiveOutput{
		Records: []*sessionRepo.Record{
			{Session: fresh, Active: true},
		},
	}, nil).Times(1)

	err := s.partyService.Reconcile(s.ctx)
	s.Require().NoError(err)

	// 6 minutes after the restart the session is 21 minutes old: the sweep
	// must end it even though a fresh TTL would have 14 minutes left
	s.advance(6 * time.Minute)
	s.partyService.Tick(s.ctx)
	s.Equal(EndReasonExpired, *reason)
}

// TestReconcileSeedsIdleWatch covers a channel that emptied while the process
// was down: the occupancy read at restore starts the idle clock, and the
// sweep reclaims the channel once the threshold passes.
func (s *PartyServiceTestSuite) TestReconcileSeedsIdleWatch() {
	stored := s.storedSession("stored-session-id", s.testCreatorID, s.testTime.Add(-5*time.Minute))
	stored.Status = models.SessionStatusFull
	stored.VoiceChannelID = s.testVoiceID
	stored.CategoryID = s.testCategoryID

	s.mockRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).Return(&sessionRepo.ListActiveOutput{
		Records: []*sessionRepo.Record{
			{Session: stored, Active: true},
		},
	}, nil).Times(1)
	// Registered before expectPersistence so the call matches this Times(1)
	// expectation instead of the helper's AnyTimes catch-all
	s.mockRepo.EXPECT().SetUserPointer(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	s.expectPersistence()
	s.mockBackend.EXPECT().CurrentOccupantCount(gomock.Any(), gomock.Any()).Return(0, nil).Times(1)

	s.mockBackend.EXPECT().DeleteResource(gomock.Any(), &provisioner.DeleteResourceInput{
		ResourceID: s.testVoiceID,
	}).Return(nil).Times(1)
	s.mockBackend.EXPECT().DeleteGroupingIfEmpty(gomock.Any(), &provisioner.DeleteGroupingIfEmptyInput{
		GuildID:    s.testGuildID,
		GroupingID: s.testCategoryID,
	}).Return(nil).Times(1)

	err := s.partyService.Reconcile(s.ctx)
	s.Require().NoError(err)

	s.advance(61 * time.Second)
	s.partyService.Tick(s.ctx)

	out, err := s.partyService.ListParties(s.ctx, &ListPartiesInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 1)
	s.Empty(out.Sessions[0].VoiceChannelID)
}

func (s *PartyServiceTestSuite) TestReconcileListFailure() {
	s.mockRepo.EXPECT().ListActive(gomock.Any(), gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound).Times(1)

	err := s.partyService.Reconcile(s.ctx)
	s.Require().Error(err)
}

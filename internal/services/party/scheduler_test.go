package party

import (
	"time"

	"github.com/squadup/squadup/internal/models"
	"github.com/squadup/squadup/internal/provisioner"
	"go.uber.org/mock/gomock"
)

func (s *PartyServiceTestSuite) TestTickExpiresStaleSession() {
	s.expectPersistence()
	s.expectPublish()
	reason := s.expectEnd()

	sess := s.createParty(s.testCreatorID, s.testCreatorNm, 3)

	// Still young: nothing happens
	s.partyService.Tick(s.ctx)

	s.advance(20*time.Minute + time.Second)
	s.partyService.Tick(s.ctx)
	s.Equal(EndReasonExpired, *reason)

	_, err := s.partyService.JoinParty(s.ctx, &JoinPartyInput{
		SessionID: sess.ID,
		UserID:    s.testJoinerID,
		UserName:  s.testJoinerNm,
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)

	// A second sweep finds nothing; the Times(1) constraints in expectEnd
	// prove the teardown did not run twice
	s.partyService.Tick(s.ctx)
}

func (s *PartyServiceTestSuite) TestTickExpiryDeletesChannel() {
	s.expectPersistence()
	s.expectPublish()
	s.expectProvision()
	s.expectEnd()

	s.mockBackend.EXPECT().DeleteResource(gomock.Any(), &provisioner.DeleteResourceInput{
		ResourceID: s.testVoiceID,
	}).Return(nil).Times(1)
	s.mockBackend.EXPECT().DeleteGroupingIfEmpty(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	sess := s.createParty(s.testCreatorID, s.testCreatorNm, 2)
	_, err := s.partyService.JoinParty(s.ctx, &JoinPartyInput{
		SessionID: sess.ID,
		UserID:    s.testJoinerID,
		UserName:  s.testJoinerNm,
	})
	s.Require().NoError(err)

	s.advance(20*time.Minute + time.Second)
	s.partyService.Tick(s.ctx)
}

func (s *PartyServiceTestSuite) fillParty() *models.Session {
	sess := s.createParty(s.testCreatorID, s.testCreatorNm, 2)
	out, err := s.partyService.JoinParty(s.ctx, &JoinPartyInput{
		SessionID: sess.ID,
		UserID:    s.testJoinerID,
		UserName:  s.testJoinerNm,
	})
	s.Require().NoError(err)
	return out.Session
}

func (s *PartyServiceTestSuite) TestIdleChannelReclaimed() {
	s.expectPersistence()
	s.expectPublish()
	s.expectProvision()

	s.mockBackend.EXPECT().DeleteResource(gomock.Any(), &provisioner.DeleteResourceInput{
		ResourceID: s.testVoiceID,
	}).Return(nil).Times(1)
	s.mockBackend.EXPECT().DeleteGroupingIfEmpty(gomock.Any(), &provisioner.DeleteGroupingIfEmptyInput{
		GuildID:    s.testGuildID,
		GroupingID: s.testCategoryID,
	}).Return(nil).Times(1)

	s.fillParty()

	// Everyone drops out of the channel
	s.partyService.NotifyChannelOccupancy(s.testVoiceID, 0)

	// Not idle long enough yet
	s.advance(30 * time.Second)
	s.partyService.Tick(s.ctx)

	s.advance(31 * time.Second)
	s.partyService.Tick(s.ctx)

	// The session survives the reclaim with its handle cleared, so a later
	// end cannot delete the channel again
	out, err := s.partyService.ListParties(s.ctx, &ListPartiesInput{GuildID: s.testGuildID})
	s.Require().NoError(err)
	s.Require().Len(out.Sessions, 1)
	s.Empty(out.Sessions[0].VoiceChannelID)
	s.Equal(models.SessionStatusFull, out.Sessions[0].Status)
}

func (s *PartyServiceTestSuite) TestReoccupiedChannelNotReclaimed() {
	s.expectPersistence()
	s.expectPublish()
	s.expectProvision()

	s.fillParty()

	s.partyService.NotifyChannelOccupancy(s.testVoiceID, 0)

	// Someone comes back before the threshold
	s.advance(30 * time.Second)
	s.partyService.NotifyChannelOccupancy(s.testVoiceID, 2)

	// No DeleteResource expectation is set: any reclaim would fail the test
	s.advance(2 * time.Minute)
	s.partyService.Tick(s.ctx)
}

func (s *PartyServiceTestSuite) TestOccupancyIgnoresUnknownChannels() {
	s.partyService.NotifyChannelOccupancy("somebody-elses-channel-id", 0)

	s.advance(2 * time.Minute)
	s.partyService.Tick(s.ctx)
}

package registry

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/squadup/squadup/internal/models"
	"github.com/stretchr/testify/suite"
)

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
	testNow  time.Time
}

func (s *RegistryTestSuite) SetupTest() {
	s.registry = New()
	s.testNow = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (s *RegistryTestSuite) newSession(id, creatorID string, createdAt time.Time) *models.Session {
	return &models.Session{
		ID:         id,
		GuildID:    "test-guild-id",
		CreatorID:  creatorID,
		Activity:   models.ActivityValorant,
		Mode:       models.ModeCompetitive,
		TargetSize: 3,
		Status:     models.SessionStatusWaiting,
		Roster: []*models.Player{
			{ID: creatorID, DisplayName: "Creator", JoinedAt: createdAt},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		ExpiresAt: createdAt.Add(models.SessionTTL),
	}
}

func (s *RegistryTestSuite) newPlayer(id string) *models.Player {
	return &models.Player{ID: id, DisplayName: "Player " + id, JoinedAt: s.testNow}
}

func (s *RegistryTestSuite) TestCreateAndGet() {
	sess := s.newSession("session-id", "creator-id", s.testNow)

	err := s.registry.Create(sess)
	s.Require().NoError(err)

	got, ok := s.registry.Get("session-id")
	s.Require().True(ok)
	s.Equal("session-id", got.ID)
	s.Equal("creator-id", got.CreatorID)

	// Get hands out a copy, not the registered session
	got.Roster = append(got.Roster, &models.Player{ID: "intruder"})
	again, ok := s.registry.Get("session-id")
	s.Require().True(ok)
	s.Len(again.Roster, 1)
}

func (s *RegistryTestSuite) TestCreateDuplicateSession() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	err = s.registry.Create(s.newSession("session-id", "other-creator-id", s.testNow))
	s.Require().ErrorIs(err, ErrDuplicateSession)
}

func (s *RegistryTestSuite) TestCreateBusyCreator() {
	err := s.registry.Create(s.newSession("session-one", "creator-id", s.testNow))
	s.Require().NoError(err)

	err = s.registry.Create(s.newSession("session-two", "creator-id", s.testNow))
	s.Require().ErrorIs(err, ErrUserBusy)
}

func (s *RegistryTestSuite) TestCreateBusyMember() {
	err := s.registry.Create(s.newSession("session-one", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Join("session-one", s.newPlayer("member-id"), s.testNow)
	s.Require().NoError(err)

	// A roster member cannot open their own session
	err = s.registry.Create(s.newSession("session-two", "member-id", s.testNow))
	s.Require().ErrorIs(err, ErrUserBusy)
}

func (s *RegistryTestSuite) TestJoin() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	joinedAt := s.testNow.Add(time.Minute)
	out, err := s.registry.Join("session-id", &models.Player{
		ID:          "joiner-id",
		DisplayName: "Joiner",
		JoinedAt:    joinedAt,
	}, joinedAt)
	s.Require().NoError(err)
	s.False(out.AlreadyJoined)
	s.False(out.BecameFull)
	s.Require().Len(out.Session.Roster, 2)
	s.Equal("joiner-id", out.Session.Roster[1].ID)
	s.True(out.Session.UpdatedAt.Equal(joinedAt))

	s.True(s.registry.IsUserBusy("joiner-id"))
}

func (s *RegistryTestSuite) TestJoinIdempotent() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	out, err := s.registry.Join("session-id", s.newPlayer("creator-id"), s.testNow)
	s.Require().NoError(err)
	s.True(out.AlreadyJoined)
	s.Len(out.Session.Roster, 1)
}

func (s *RegistryTestSuite) TestJoinBusyElsewhere() {
	err := s.registry.Create(s.newSession("session-one", "creator-a", s.testNow))
	s.Require().NoError(err)
	err = s.registry.Create(s.newSession("session-two", "creator-b", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Join("session-one", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)

	_, err = s.registry.Join("session-two", s.newPlayer("joiner-id"), s.testNow)
	s.Require().ErrorIs(err, ErrUserBusy)
}

func (s *RegistryTestSuite) TestJoinFillsSession() {
	sess := s.newSession("session-id", "creator-id", s.testNow)
	sess.TargetSize = 2
	err := s.registry.Create(sess)
	s.Require().NoError(err)

	out, err := s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)
	s.True(out.BecameFull)
	s.Equal(models.SessionStatusFull, out.Session.Status)

	_, err = s.registry.Join("session-id", s.newPlayer("third-id"), s.testNow)
	s.Require().ErrorIs(err, ErrSessionFull)
}

func (s *RegistryTestSuite) TestJoinNotFound() {
	_, err := s.registry.Join("missing-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RegistryTestSuite) TestLeaveFreesMember() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)

	out, err := s.registry.Leave("session-id", "joiner-id", s.testNow)
	s.Require().NoError(err)
	s.False(out.CreatorLeft)
	s.Len(out.Session.Roster, 1)

	// The member index entry is released with the roster slot
	s.False(s.registry.IsUserBusy("joiner-id"))
	err = s.registry.Create(s.newSession("session-two", "joiner-id", s.testNow))
	s.Require().NoError(err)
}

func (s *RegistryTestSuite) TestLeaveRevertsFullToWaiting() {
	sess := s.newSession("session-id", "creator-id", s.testNow)
	sess.TargetSize = 2
	err := s.registry.Create(sess)
	s.Require().NoError(err)

	_, err = s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)

	out, err := s.registry.Leave("session-id", "joiner-id", s.testNow)
	s.Require().NoError(err)
	s.Equal(models.SessionStatusWaiting, out.Session.Status)
}

func (s *RegistryTestSuite) TestLeaveCreatorFlagsOnly() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)

	out, err := s.registry.Leave("session-id", "creator-id", s.testNow)
	s.Require().NoError(err)
	s.True(out.CreatorLeft)

	// The roster survives for the final status message; Remove cleans up
	s.Len(out.Session.Roster, 2)
	s.True(s.registry.IsUserBusy("creator-id"))
	s.True(s.registry.IsUserBusy("joiner-id"))
}

func (s *RegistryTestSuite) TestLeaveNotAMember() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Leave("session-id", "stranger-id", s.testNow)
	s.Require().ErrorIs(err, ErrNotAMember)
}

func (s *RegistryTestSuite) TestMutate() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	got, err := s.registry.Mutate("session-id", func(sess *models.Session) error {
		sess.VoiceChannelID = "voice-channel-id"
		return nil
	})
	s.Require().NoError(err)
	s.Equal("voice-channel-id", got.VoiceChannelID)

	stored, ok := s.registry.Get("session-id")
	s.Require().True(ok)
	s.Equal("voice-channel-id", stored.VoiceChannelID)
}

func (s *RegistryTestSuite) TestMutateNotFound() {
	_, err := s.registry.Mutate("missing-id", func(sess *models.Session) error {
		return nil
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RegistryTestSuite) TestMutatePropagatesError() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	wantErr := errors.New("nothing to record")
	_, err = s.registry.Mutate("session-id", func(sess *models.Session) error {
		return wantErr
	})
	s.Require().ErrorIs(err, wantErr)
}

func (s *RegistryTestSuite) TestRemove() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, err = s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().NoError(err)

	removed, ok := s.registry.Remove("session-id")
	s.Require().True(ok)
	s.Equal("session-id", removed.ID)

	_, ok = s.registry.Get("session-id")
	s.False(ok)

	// Creator and member are both free again
	s.False(s.registry.IsUserBusy("creator-id"))
	s.False(s.registry.IsUserBusy("joiner-id"))

	// Removing twice is a no-op
	_, ok = s.registry.Remove("session-id")
	s.False(ok)
}

func (s *RegistryTestSuite) TestMutateAfterRemove() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, ok := s.registry.Remove("session-id")
	s.Require().True(ok)

	_, err = s.registry.Mutate("session-id", func(sess *models.Session) error {
		return nil
	})
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RegistryTestSuite) TestJoinAfterRemove() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	_, ok := s.registry.Remove("session-id")
	s.Require().True(ok)

	_, err = s.registry.Join("session-id", s.newPlayer("joiner-id"), s.testNow)
	s.Require().ErrorIs(err, ErrSessionNotFound)
}

func (s *RegistryTestSuite) TestListActiveOrdersByAge() {
	err := s.registry.Create(s.newSession("newer-id", "creator-b", s.testNow.Add(5*time.Minute)))
	s.Require().NoError(err)
	err = s.registry.Create(s.newSession("older-id", "creator-a", s.testNow))
	s.Require().NoError(err)

	sessions := s.registry.ListActive()
	s.Require().Len(sessions, 2)
	s.Equal("older-id", sessions[0].ID)
	s.Equal("newer-id", sessions[1].ID)
}

func (s *RegistryTestSuite) TestIsUserBusy() {
	sess := s.newSession("session-id", "creator-id", s.testNow)
	sess.Roster = append(sess.Roster, &models.Player{
		ID:          "member-id",
		DisplayName: "Member",
		JoinedAt:    s.testNow,
	})
	err := s.registry.Create(sess)
	s.Require().NoError(err)

	s.True(s.registry.IsUserBusy("creator-id"))
	s.True(s.registry.IsUserBusy("member-id"))
	s.False(s.registry.IsUserBusy("stranger-id"))
}

func (s *RegistryTestSuite) TestCreatorSession() {
	err := s.registry.Create(s.newSession("session-id", "creator-id", s.testNow))
	s.Require().NoError(err)

	sessionID, ok := s.registry.CreatorSession("creator-id")
	s.Require().True(ok)
	s.Equal("session-id", sessionID)

	_, ok = s.registry.CreatorSession("stranger-id")
	s.False(ok)
}

func (s *RegistryTestSuite) TestFindByVoiceChannel() {
	sess := s.newSession("session-id", "creator-id", s.testNow)
	sess.VoiceChannelID = "voice-channel-id"
	err := s.registry.Create(sess)
	s.Require().NoError(err)

	found, ok := s.registry.FindByVoiceChannel("voice-channel-id")
	s.Require().True(ok)
	s.Equal("session-id", found.ID)

	_, ok = s.registry.FindByVoiceChannel("unknown-channel-id")
	s.False(ok)
}

// TestConcurrentJoinRosterBound hammers one session with concurrent joins
// and checks that the roster never exceeds the target size.
func (s *RegistryTestSuite) TestConcurrentJoinRosterBound() {
	sess := s.newSession("session-id", "creator-id", s.testNow)
	sess.TargetSize = 5
	err := s.registry.Create(sess)
	s.Require().NoError(err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, _ = s.registry.Join("session-id", s.newPlayer(fmt.Sprintf("player-%d", n)), s.testNow)
		}(i)
	}
	wg.Wait()

	got, ok := s.registry.Get("session-id")
	s.Require().True(ok)
	s.Len(got.Roster, 5)
}

// TestConcurrentJoinSingleMembership races one user joining many sessions at
// once: exactly one join may win, and the user must end up on exactly one
// roster. This is the cross-session counterpart of the roster bound above.
func (s *RegistryTestSuite) TestConcurrentJoinSingleMembership() {
	const sessions = 8

	for i := 0; i < sessions; i++ {
		err := s.registry.Create(s.newSession(
			fmt.Sprintf("session-%d", i),
			fmt.Sprintf("creator-%d", i),
			s.testNow,
		))
		s.Require().NoError(err)
	}

	start := make(chan struct{})
	results := make(chan error, sessions)

	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			<-start
			_, err := s.registry.Join(fmt.Sprintf("session-%d", n), s.newPlayer("racer-id"), s.testNow)
			results <- err
		}(i)
	}
	close(start)
	wg.Wait()
	close(results)

	wins, busies := 0, 0
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrUserBusy):
			busies++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, wins)
	s.Equal(sessions-1, busies)

	memberships := 0
	for _, sess := range s.registry.ListActive() {
		if sess.HasPlayer("racer-id") {
			memberships++
		}
	}
	s.Equal(1, memberships)
}

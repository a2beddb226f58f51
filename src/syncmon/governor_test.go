package syncmon

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

func TestGovernorTestSuite(t *testing.T) {
	suite.Run(t, new(GovernorTestSuite))
}

type GovernorTestSuite struct {
	suite.Suite

	now      time.Time
	governor *Governor
}

func (s *GovernorTestSuite) SetupTest() {
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.governor = NewGovernor(3, 15*time.Second, func() time.Time { return s.now })
}

func (s *GovernorTestSuite) advance(d time.Duration) {
	s.now = s.now.Add(d)
}

func (s *GovernorTestSuite) TestPullEnabledAtStart() {
	s.True(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestStreakDisablesPull() {
	s.False(s.governor.OnPushFetchSuccess())
	s.False(s.governor.OnPushFetchSuccess())
	s.True(s.governor.PullEnabled())

	s.True(s.governor.OnPushFetchSuccess())
	s.False(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestFailureBreaksStreak() {
	s.governor.OnPushFetchSuccess()
	s.governor.OnPushFetchSuccess()
	s.governor.OnPushFetchFailure()
	s.False(s.governor.OnPushFetchSuccess())
	s.False(s.governor.OnPushFetchSuccess())
	s.True(s.governor.PullEnabled())

	s.True(s.governor.OnPushFetchSuccess())
	s.False(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestStalenessRearmsPull() {
	for i := 0; i < 3; i++ {
		s.governor.OnPushFetchSuccess()
	}
	s.False(s.governor.PullEnabled())

	s.governor.OnPush()
	s.advance(14 * time.Second)
	s.False(s.governor.CheckStaleness())
	s.False(s.governor.PullEnabled())

	s.advance(2 * time.Second)
	s.True(s.governor.CheckStaleness())
	s.True(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestRearmResetsStreak() {
	for i := 0; i < 3; i++ {
		s.governor.OnPushFetchSuccess()
	}
	s.advance(16 * time.Second)
	s.True(s.governor.CheckStaleness())

	// A full new streak is needed after the re-arm
	s.False(s.governor.OnPushFetchSuccess())
	s.False(s.governor.OnPushFetchSuccess())
	s.True(s.governor.OnPushFetchSuccess())
	s.False(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestStalenessCheckIdleWhilePullEnabled() {
	s.advance(time.Hour)
	s.False(s.governor.CheckStaleness())
	s.True(s.governor.PullEnabled())
}

func (s *GovernorTestSuite) TestPushRefreshesTimestamp() {
	for i := 0; i < 3; i++ {
		s.governor.OnPushFetchSuccess()
	}

	s.advance(10 * time.Second)
	s.governor.OnPush()
	s.advance(10 * time.Second)

	// 20s since disable, but only 10s since the last push
	s.False(s.governor.CheckStaleness())
	s.False(s.governor.PullEnabled())
}

package deliverable

import (
	"testing"

	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTrackerTestSuite(t *testing.T) {
	suite.Run(t, new(TrackerTestSuite))
}

type TrackerTestSuite struct {
	suite.Suite
}

func (s *TrackerTestSuite) TestFirstSubmissionAllowed() {
	require.True(s.T(), AcceptsProof(model.DeliverableStatusPending))
}

func (s *TrackerTestSuite) TestResubmissionOnlyAfterFailure() {
	require.True(s.T(), AcceptsProof(model.DeliverableStatusFailed))

	require.False(s.T(), AcceptsProof(model.DeliverableStatusSubmitted))
	require.False(s.T(), AcceptsProof(model.DeliverableStatusVerified))
}

func (s *TrackerTestSuite) TestConfirmedIsTerminal() {
	require.False(s.T(), AcceptsProof(model.DeliverableStatusConfirmed))
}

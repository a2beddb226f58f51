package ledger

import (
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestDeriveTestSuite(t *testing.T) {
	suite.Run(t, new(DeriveTestSuite))
}

type DeriveTestSuite struct {
	suite.Suite
}

func event(eventType model.EventType, details map[string]interface{}) model.EscrowEvent {
	packed, _ := model.NewDetails(details)
	return model.EscrowEvent{EventType: eventType, Details: packed}
}

func (s *DeriveTestSuite) TestHappyPath() {
	events := []model.EscrowEvent{
		event(model.EventCreated, nil),
		event(model.EventInitiatorConfirmed, nil),
		event(model.EventParticipantConfirmed, nil),
		event(model.EventCompleted, nil),
	}

	p := Derive(events)
	require.Equal(s.T(), model.EscrowStatusCompleted, p.Status)
	require.Equal(s.T(), model.ConfirmationConfirmed, p.InitiatorConfirmation)
	require.Equal(s.T(), model.ConfirmationConfirmed, p.ParticipantConfirmation)
}

func (s *DeriveTestSuite) TestSingleConfirmation() {
	events := []model.EscrowEvent{
		event(model.EventCreated, nil),
		event(model.EventParticipantConfirmed, nil),
	}

	p := Derive(events)
	require.Equal(s.T(), model.EscrowStatusActive, p.Status)
	require.Equal(s.T(), model.ConfirmationUnconfirmed, p.InitiatorConfirmation)
}

func (s *DeriveTestSuite) TestDisputePath() {
	events := []model.EscrowEvent{
		event(model.EventCreated, nil),
		event(model.EventInitiatorConfirmed, nil),
		event(model.EventArbiterRequested, map[string]interface{}{"requested_by": "participant"}),
		event(model.EventArbiterDecided, map[string]interface{}{"decision": "pending"}),
		event(model.EventArbiterDecided, map[string]interface{}{"decision": "for_initiator"}),
		event(model.EventCompleted, nil),
	}

	p := Derive(events)
	require.Equal(s.T(), model.EscrowStatusCompleted, p.Status)
	require.True(s.T(), p.ArbiterRequested)
	require.Equal(s.T(), model.ConfirmationDisputed, p.ParticipantConfirmation)
}

func (s *DeriveTestSuite) TestArbiterRequiredUpFront() {
	events := []model.EscrowEvent{
		event(model.EventCreated, map[string]interface{}{"arbiter_required": true}),
	}

	p := Derive(events)
	require.Equal(s.T(), model.EscrowStatusArbiterReview, p.Status)
	require.True(s.T(), p.ArbiterRequested)
}

func (s *DeriveTestSuite) TestExpiryDerivesCancelled() {
	events := []model.EscrowEvent{
		event(model.EventCreated, nil),
		event(model.EventExpired, nil),
		event(model.EventCancelled, nil),
	}

	p := Derive(events)
	require.Equal(s.T(), model.EscrowStatusCancelled, p.Status)
}

func (s *DeriveTestSuite) TestProjectionAgreesWithApply() {
	// The same scenarios driven through Apply and through Derive
	// must land on the same state.
	escrow := &model.Escrow{
		ID:                      "esc1",
		Status:                  model.EscrowStatusPending,
		InitiatorConfirmation:   model.ConfirmationUnconfirmed,
		ParticipantConfirmation: model.ConfirmationUnconfirmed,
	}

	var log []model.EscrowEvent
	apply := func(ev Event, details map[string]interface{}) {
		result, err := Apply(escrow, ev, time.Now())
		require.NoError(s.T(), err)
		for i, eventType := range result.Events {
			if i > 0 {
				details = nil
			}
			log = append(log, event(eventType, details))
		}
	}

	apply(Event{Action: ActionConfirm, Party: model.PartyInitiator}, nil)
	apply(Event{Action: ActionDispute, Party: model.PartyParticipant}, map[string]interface{}{"requested_by": "participant"})
	apply(Event{Action: ActionArbiterDecide}, map[string]interface{}{"decision": "pending"})
	apply(Event{Action: ActionArbiterDecide, Decision: model.ArbiterDecisionForParticipant}, map[string]interface{}{"decision": "for_participant"})

	p := Derive(log)
	require.True(s.T(), p.Matches(escrow))

	// Non-status events never disturb the projection
	log = append(log, event(model.EventProofSubmitted, nil), event(model.EventNote, nil))
	require.True(s.T(), Derive(log).Matches(escrow))
}

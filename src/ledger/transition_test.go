package ledger

import (
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTransitionTestSuite(t *testing.T) {
	suite.Run(t, new(TransitionTestSuite))
}

type TransitionTestSuite struct {
	suite.Suite
}

func escrowInStatus(status model.EscrowStatus) *model.Escrow {
	return &model.Escrow{
		ID:                      "esc1",
		InitiatorID:             "alice",
		Status:                  status,
		InitiatorConfirmation:   model.ConfirmationUnconfirmed,
		ParticipantConfirmation: model.ConfirmationUnconfirmed,
	}
}

func (s *TransitionTestSuite) TestFirstConfirmActivates() {
	escrow := escrowInStatus(model.EscrowStatusPending)

	result, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator, Actor: "alice"}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusActive, result.Status)
	require.Equal(s.T(), model.ConfirmationConfirmed, escrow.InitiatorConfirmation)
	require.True(s.T(), escrow.InitiatorConfirmedAt.Valid)
	require.Equal(s.T(), []model.EventType{model.EventInitiatorConfirmed}, result.Events)
	require.False(s.T(), result.Completed)
}

func (s *TransitionTestSuite) TestSecondConfirmAwaits() {
	escrow := escrowInStatus(model.EscrowStatusActive)
	escrow.InitiatorConfirmation = model.ConfirmationConfirmed

	result, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrAlreadyConfirmed)
	require.Empty(s.T(), result.Events)
}

func (s *TransitionTestSuite) TestConfirmWhileActiveAwaitsOtherParty() {
	escrow := escrowInStatus(model.EscrowStatusActive)
	escrow.InitiatorConfirmation = model.ConfirmationConfirmed

	result, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyParticipant}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusCompleted, result.Status)
	require.True(s.T(), result.Completed)
	require.Equal(s.T(), []model.EventType{model.EventParticipantConfirmed, model.EventCompleted}, result.Events)
}

func (s *TransitionTestSuite) TestUnanimityRequired() {
	// A single confirmation never completes the escrow
	escrow := escrowInStatus(model.EscrowStatusActive)

	result, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyParticipant}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusAwaitingConfirm, result.Status)
	require.False(s.T(), result.Completed)
}

func (s *TransitionTestSuite) TestConfirmCompletesFromAwaiting() {
	escrow := escrowInStatus(model.EscrowStatusAwaitingConfirm)
	escrow.ParticipantConfirmation = model.ConfirmationConfirmed

	result, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusCompleted, result.Status)
	require.Equal(s.T(), model.ConfirmationConfirmed, escrow.InitiatorConfirmation)
	require.Equal(s.T(), model.ConfirmationConfirmed, escrow.ParticipantConfirmation)
	require.True(s.T(), result.Completed)
}

func (s *TransitionTestSuite) TestConfirmAfterCompletionRejected() {
	escrow := escrowInStatus(model.EscrowStatusCompleted)

	_, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestDispute() {
	escrow := escrowInStatus(model.EscrowStatusActive)

	result, err := Apply(escrow, Event{Action: ActionDispute, Party: model.PartyParticipant, Actor: "bob"}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusDisputed, result.Status)
	require.True(s.T(), escrow.ArbiterRequested)
	require.Equal(s.T(), model.ConfirmationDisputed, escrow.ParticipantConfirmation)
	require.Equal(s.T(), []model.EventType{model.EventArbiterRequested}, result.Events)
}

func (s *TransitionTestSuite) TestDisputeTwiceRejected() {
	escrow := escrowInStatus(model.EscrowStatusAwaitingConfirm)

	_, err := Apply(escrow, Event{Action: ActionDispute, Party: model.PartyInitiator}, time.Now())
	require.NoError(s.T(), err)

	// Regardless of which party asks the second time
	_, err = Apply(escrow, Event{Action: ActionDispute, Party: model.PartyParticipant}, time.Now())
	require.ErrorIs(s.T(), err, ErrAlreadyDisputed)
}

func (s *TransitionTestSuite) TestDisputeDuringReviewRejected() {
	escrow := escrowInStatus(model.EscrowStatusArbiterReview)
	escrow.ArbiterRequested = true

	_, err := Apply(escrow, Event{Action: ActionDispute, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrAlreadyDisputed)
}

func (s *TransitionTestSuite) TestDisputeFromPendingRejected() {
	escrow := escrowInStatus(model.EscrowStatusPending)

	_, err := Apply(escrow, Event{Action: ActionDispute, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestCancelOnlyWhilePending() {
	escrow := escrowInStatus(model.EscrowStatusPending)

	result, err := Apply(escrow, Event{Action: ActionCancel, Party: model.PartyInitiator}, time.Now())
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.EscrowStatusCancelled, result.Status)

	active := escrowInStatus(model.EscrowStatusActive)
	_, err = Apply(active, Event{Action: ActionCancel, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestCancelByParticipantRejected() {
	escrow := escrowInStatus(model.EscrowStatusPending)

	_, err := Apply(escrow, Event{Action: ActionCancel, Party: model.PartyParticipant}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestArbiterTakesDisputedCase() {
	escrow := escrowInStatus(model.EscrowStatusDisputed)
	escrow.ArbiterRequested = true

	result, err := Apply(escrow, Event{Action: ActionArbiterDecide, Actor: "carol"}, time.Now())
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.EscrowStatusArbiterReview, result.Status)
}

func (s *TransitionTestSuite) TestArbiterResolvesForInitiator() {
	escrow := escrowInStatus(model.EscrowStatusArbiterReview)
	escrow.ArbiterRequested = true

	result, err := Apply(escrow, Event{
		Action:   ActionArbiterDecide,
		Decision: model.ArbiterDecisionForInitiator,
		Actor:    "carol",
	}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusCompleted, result.Status)
	require.Equal(s.T(), string(model.ArbiterDecisionForInitiator), escrow.ArbiterDecision.String)
	require.Equal(s.T(), []model.EventType{model.EventArbiterDecided, model.EventCompleted}, result.Events)
}

func (s *TransitionTestSuite) TestArbiterVoidsEscrow() {
	escrow := escrowInStatus(model.EscrowStatusArbiterReview)
	escrow.ArbiterRequested = true

	result, err := Apply(escrow, Event{
		Action:     ActionArbiterDecide,
		Decision:   model.ArbiterDecisionSplit,
		Settlement: SettlementCancel,
		Actor:      "carol",
	}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusCancelled, result.Status)
	require.Equal(s.T(), []model.EventType{model.EventArbiterDecided, model.EventCancelled}, result.Events)
}

func (s *TransitionTestSuite) TestPendingDecisionCannotResolveReview() {
	escrow := escrowInStatus(model.EscrowStatusArbiterReview)

	_, err := Apply(escrow, Event{Action: ActionArbiterDecide, Decision: model.ArbiterDecisionPending}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestConfirmAfterResolutionRejected() {
	escrow := escrowInStatus(model.EscrowStatusArbiterReview)
	escrow.ArbiterRequested = true

	_, err := Apply(escrow, Event{
		Action:   ActionArbiterDecide,
		Decision: model.ArbiterDecisionForInitiator,
	}, time.Now())
	require.NoError(s.T(), err)

	_, err = Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)

	_, err = Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyParticipant}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestExpireOnlyNeverActivated() {
	escrow := escrowInStatus(model.EscrowStatusPending)

	result, err := Apply(escrow, Event{Action: ActionExpire, Actor: model.ActorExpiry}, time.Now())
	require.NoError(s.T(), err)
	require.Equal(s.T(), model.EscrowStatusCancelled, result.Status)
	require.Equal(s.T(), []model.EventType{model.EventExpired, model.EventCancelled}, result.Events)

	active := escrowInStatus(model.EscrowStatusActive)
	_, err = Apply(active, Event{Action: ActionExpire}, time.Now())
	require.ErrorIs(s.T(), err, ErrInvalidTransition)
}

func (s *TransitionTestSuite) TestCompletedImpliesBothConfirmed() {
	// Walk every path that ends in completed and check both markers
	escrow := escrowInStatus(model.EscrowStatusPending)

	_, err := Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyParticipant}, time.Now())
	require.NoError(s.T(), err)
	_, err = Apply(escrow, Event{Action: ActionConfirm, Party: model.PartyInitiator}, time.Now())
	require.NoError(s.T(), err)

	require.Equal(s.T(), model.EscrowStatusCompleted, escrow.Status)
	require.Equal(s.T(), model.ConfirmationConfirmed, escrow.InitiatorConfirmation)
	require.Equal(s.T(), model.ConfirmationConfirmed, escrow.ParticipantConfirmation)
}

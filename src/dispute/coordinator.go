package dispute

import (
	"context"

	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/sirupsen/logrus"
)

// Coordinator escalates an escrow to arbitration and applies the
// arbiter's resolution, freezing the normal confirmation flow in
// between.
type Coordinator struct {
	log    *logrus.Entry
	ledger *ledger.Ledger
}

func NewCoordinator(ledger *ledger.Ledger) (self *Coordinator) {
	self = new(Coordinator)
	self.log = logger.NewSublogger("dispute-coordinator")
	self.ledger = ledger
	return
}

// RequestArbiter opens a dispute. The reason, details and evidence are
// carried into the event log verbatim, the arbiter needs the raw claim.
func (self *Coordinator) RequestArbiter(ctx context.Context, escrowID string, requester model.Party, requesterID, reason, details string, evidence []string) (escrow *model.Escrow, err error) {
	payload := map[string]interface{}{
		"requested_by": string(requester),
		"reason":       reason,
	}
	if details != "" {
		payload["details"] = details
	}
	if len(evidence) > 0 {
		payload["evidence"] = evidence
	}

	escrow, _, err = self.ledger.Transition(ctx, escrowID, ledger.Event{
		Action:  ledger.ActionDispute,
		Party:   requester,
		Actor:   requesterID,
		Details: payload,
	})
	return
}

// Review moves a disputed escrow under the arbiter's review. The
// decision stays pending until Resolve.
func (self *Coordinator) Review(ctx context.Context, escrowID, arbiterID string) (escrow *model.Escrow, err error) {
	err = self.requireArbiter(ctx, escrowID, arbiterID)
	if err != nil {
		return
	}

	escrow, _, err = self.ledger.Transition(ctx, escrowID, ledger.Event{
		Action:  ledger.ActionArbiterDecide,
		Actor:   arbiterID,
		Details: map[string]interface{}{"decision": string(model.ArbiterDecisionPending)},
	})
	return
}

// Resolve settles an escrow under review. The decision is recorded and
// the settlement picks the terminal status.
func (self *Coordinator) Resolve(ctx context.Context, escrowID, arbiterID string, decision model.ArbiterDecision, settlement ledger.Settlement) (escrow *model.Escrow, err error) {
	err = self.requireArbiter(ctx, escrowID, arbiterID)
	if err != nil {
		return
	}

	escrow, _, err = self.ledger.Transition(ctx, escrowID, ledger.Event{
		Action:     ledger.ActionArbiterDecide,
		Actor:      arbiterID,
		Decision:   decision,
		Settlement: settlement,
		Details: map[string]interface{}{
			"decision":   string(decision),
			"settlement": string(settlement),
		},
	})
	return
}

func (self *Coordinator) requireArbiter(ctx context.Context, escrowID, arbiterID string) (err error) {
	view, err := self.ledger.Get(ctx, escrowID, arbiterID)
	if err != nil {
		return
	}
	if !view.Escrow.IsArbiter(arbiterID) {
		return ledger.ErrForbidden
	}
	return
}

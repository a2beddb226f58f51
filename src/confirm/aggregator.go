package confirm

import (
	"context"

	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/sirupsen/logrus"
)

// Aggregator decides when all required parties have confirmed and
// drives the ledger transition.
type Aggregator struct {
	log     *logrus.Entry
	ledger  *ledger.Ledger
	tracker *deliverable.Tracker
}

func NewAggregator(ledger *ledger.Ledger, tracker *deliverable.Tracker) (self *Aggregator) {
	self = new(Aggregator)
	self.log = logger.NewSublogger("confirm-aggregator")
	self.ledger = ledger
	self.tracker = tracker
	return
}

// Confirm records one party's attestation. Confirming twice surfaces
// ErrAlreadyConfirmed instead of being silently ignored, so
// double-submission bugs show up at the caller.
func (self *Aggregator) Confirm(ctx context.Context, escrowID string, party model.Party, actor, notes string) (escrow *model.Escrow, completed bool, err error) {
	details := map[string]interface{}{}
	if notes != "" {
		details["notes"] = notes
	}

	escrow, result, err := self.ledger.Transition(ctx, escrowID, ledger.Event{
		Action:  ledger.ActionConfirm,
		Party:   party,
		Actor:   actor,
		Details: details,
	})
	if err != nil {
		return
	}

	completed = result.Completed
	if completed {
		// Completion settles every deliverable. Verification remains an
		// advisory signal, unanimity of the parties is what completes.
		err = self.tracker.ConfirmAll(ctx, escrowID)
		if err != nil {
			self.log.WithError(err).
				WithField("escrow_id", escrowID).
				Error("Failed to settle deliverables of a completed escrow")
			err = nil
		}
	}
	return
}

// AutoConfirm is the oracle-driven path. Same effect as Confirm, but
// the event log records the system as the actor for audit purposes.
func (self *Aggregator) AutoConfirm(ctx context.Context, escrowID string, party model.Party) (escrow *model.Escrow, completed bool, err error) {
	details := map[string]interface{}{"auto": true}

	escrow, result, err := self.ledger.Transition(ctx, escrowID, ledger.Event{
		Action:  ledger.ActionConfirm,
		Party:   party,
		Actor:   model.ActorOracle,
		Details: details,
	})
	if err != nil {
		return
	}

	completed = result.Completed
	if completed {
		err = self.tracker.ConfirmAll(ctx, escrowID)
		if err != nil {
			self.log.WithError(err).
				WithField("escrow_id", escrowID).
				Error("Failed to settle deliverables of a completed escrow")
			err = nil
		}
	}
	return
}

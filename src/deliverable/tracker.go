package deliverable

import (
	"context"
	"errors"
	"fmt"

	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("deliverable not found")
	ErrNotResponsible = errors.New("submitter is not responsible for this deliverable")
	ErrNoProof        = errors.New("no proof has been submitted for this deliverable")
)

// Tracker keeps per-deliverable completion state within an escrow
type Tracker struct {
	db     *gorm.DB
	log    *logrus.Entry
	ledger *ledger.Ledger
}

func NewTracker(db *gorm.DB, ledger *ledger.Ledger) (self *Tracker) {
	self = new(Tracker)
	self.db = db
	self.log = logger.NewSublogger("deliverable-tracker")
	self.ledger = ledger
	return
}

func (self *Tracker) Get(ctx context.Context, deliverableID string) (deliverable *model.Deliverable, err error) {
	deliverable = new(model.Deliverable)
	err = self.db.WithContext(ctx).Where("id = ?", deliverableID).First(deliverable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
	}
	return
}

// AcceptsProof reports whether a deliverable in the given status may
// take a new proof. Only the first submission and a resubmission after
// a failed verification are legal, confirmed is terminal.
func AcceptsProof(status model.DeliverableStatus) bool {
	switch status {
	case model.DeliverableStatusPending, model.DeliverableStatusFailed:
		return true
	default:
		return false
	}
}

// RecordProof stores submission evidence and moves the deliverable to
// submitted. The returned proof is the handle the oracle engine
// verifies against. A resubmission after a failed verification creates
// a fresh proof row, it never mutates the previous one.
func (self *Tracker) RecordProof(ctx context.Context, deliverableID, proofHash, description, submitterID string, submitterParty model.Party) (proof *model.Proof, deliverable *model.Deliverable, err error) {
	deliverable, err = self.Get(ctx, deliverableID)
	if err != nil {
		return
	}

	if !deliverable.IsResponsible(submitterParty) {
		err = ErrNotResponsible
		return
	}

	if !AcceptsProof(deliverable.Status) {
		err = fmt.Errorf("%w: deliverable is %s", ledger.ErrInvalidTransition, deliverable.Status)
		return
	}

	proof = &model.Proof{
		ID:            xid.New().String(),
		DeliverableID: deliverableID,
		ProofHash:     proofHash,
		Description:   description,
		SubmitterID:   submitterID,
	}

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		err = tx.Create(proof).Error
		if err != nil {
			return
		}
		return tx.Model(deliverable).
			Update("status", model.DeliverableStatusSubmitted).
			Error
	})
	if err != nil {
		return
	}

	self.ledger.AppendEvent(ctx, deliverable.EscrowID, model.EventProofSubmitted, submitterID, map[string]interface{}{
		"deliverable_id": deliverableID,
		"proof_id":       proof.ID,
		"proof_hash":     proofHash,
	})
	self.ledger.Notify(deliverable.EscrowID, model.EventProofSubmitted)

	return
}

// LatestProof returns the most recent submission for the deliverable
func (self *Tracker) LatestProof(ctx context.Context, deliverableID string) (proof *model.Proof, err error) {
	proof = new(model.Proof)
	err = self.db.WithContext(ctx).
		Where("deliverable_id = ?", deliverableID).
		Order("created_at DESC").
		First(proof).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNoProof
	}
	return
}

// MarkVerified records the oracle verdict on the deliverable.
// Called by the verification engine or a manual override path.
func (self *Tracker) MarkVerified(ctx context.Context, deliverableID string, verified bool) (err error) {
	status := model.DeliverableStatusVerified
	eventType := model.EventOracleVerified
	if !verified {
		status = model.DeliverableStatusFailed
		eventType = model.EventOracleFailed
	}

	deliverable, err := self.Get(ctx, deliverableID)
	if err != nil {
		return
	}

	err = self.db.WithContext(ctx).
		Model(deliverable).
		Update("status", status).
		Error
	if err != nil {
		return
	}

	self.ledger.AppendEvent(ctx, deliverable.EscrowID, eventType, model.ActorOracle, map[string]interface{}{
		"deliverable_id": deliverableID,
	})
	self.ledger.Notify(deliverable.EscrowID, eventType)
	return
}

// AllConfirmed reports whether every deliverable of the escrow reached
// its terminal confirmed status.
func (self *Tracker) AllConfirmed(ctx context.Context, escrowID string) (allConfirmed bool, err error) {
	var pending int64
	err = self.db.WithContext(ctx).
		Model(&model.Deliverable{}).
		Where("escrow_id = ?", escrowID).
		Where("status <> ?", model.DeliverableStatusConfirmed).
		Count(&pending).
		Error
	if err != nil {
		return
	}
	allConfirmed = pending == 0
	return
}

// ConfirmAll moves every deliverable of a completed escrow to the
// terminal confirmed status.
func (self *Tracker) ConfirmAll(ctx context.Context, escrowID string) (err error) {
	return self.db.WithContext(ctx).
		Model(&model.Deliverable{}).
		Where("escrow_id = ?", escrowID).
		Where("status <> ?", model.DeliverableStatusConfirmed).
		Update("status", model.DeliverableStatusConfirmed).
		Error
}

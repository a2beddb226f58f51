package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger owns escrow records and their status transitions.
// It is the single source of truth for escrow state.
type Ledger struct {
	db  *gorm.DB
	log *logrus.Entry

	// Realtime change signals, drained by the publisher
	notifications chan<- *model.EscrowNotification
}

func NewLedger(db *gorm.DB) (self *Ledger) {
	self = new(Ledger)
	self.db = db
	self.log = logger.NewSublogger("ledger")
	return
}

func (self *Ledger) WithNotificationChannel(v chan<- *model.EscrowNotification) *Ledger {
	self.notifications = v
	return self
}

type DeliverableInput struct {
	Title            string
	Description      string
	Type             model.DeliverableType
	ResponsibleParty model.Party
}

type CreateInput struct {
	InitiatorID   string
	ParticipantID string
	Title         string
	Description   string
	Deliverables  []DeliverableInput

	ArbiterRequired bool
	ArbiterID       string

	Lifetime time.Duration
}

// Permissions derived from the caller's role and the current status
type Permissions struct {
	CanConfirm bool `json:"can_confirm"`
	CanDispute bool `json:"can_dispute"`
	CanCancel  bool `json:"can_cancel"`
}

type View struct {
	Escrow       *model.Escrow
	Deliverables []*model.Deliverable
	Events       []*model.EscrowEvent
	Permissions  Permissions
}

func (self *Ledger) Create(ctx context.Context, in CreateInput) (escrow *model.Escrow, deliverables []*model.Deliverable, err error) {
	if in.Title == "" {
		err = fmt.Errorf("%w: title is required", ErrValidation)
		return
	}
	if len(in.Deliverables) == 0 {
		err = fmt.Errorf("%w: at least one deliverable is required", ErrValidation)
		return
	}
	for _, d := range in.Deliverables {
		if !d.Type.Valid() {
			err = fmt.Errorf("%w: unknown deliverable type %q", ErrValidation, d.Type)
			return
		}
	}

	status := model.EscrowStatusPending
	if in.ArbiterRequired {
		status = model.EscrowStatusArbiterReview
	}

	escrow = &model.Escrow{
		ID:                      xid.New().String(),
		Title:                   in.Title,
		Description:             in.Description,
		InitiatorID:             in.InitiatorID,
		Status:                  status,
		InitiatorConfirmation:   model.ConfirmationUnconfirmed,
		ParticipantConfirmation: model.ConfirmationUnconfirmed,
		ArbiterRequested:        in.ArbiterRequired,
		ExpiresAt:               time.Now().Add(in.Lifetime),
	}
	if in.ParticipantID != "" {
		escrow.ParticipantID.String = in.ParticipantID
		escrow.ParticipantID.Valid = true
	}
	if in.ArbiterID != "" {
		escrow.ArbiterID.String = in.ArbiterID
		escrow.ArbiterID.Valid = true
	}

	deliverables = make([]*model.Deliverable, len(in.Deliverables))
	for i, d := range in.Deliverables {
		deliverables[i] = &model.Deliverable{
			ID:               xid.New().String(),
			EscrowID:         escrow.ID,
			Title:            d.Title,
			Description:      d.Description,
			Type:             d.Type,
			ResponsibleParty: d.ResponsibleParty,
			Status:           model.DeliverableStatusPending,
		}
	}

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		err = tx.Create(escrow).Error
		if err != nil {
			return
		}
		return tx.Create(deliverables).Error
	})
	if err != nil {
		return
	}

	self.AppendEvent(ctx, escrow.ID, model.EventCreated, in.InitiatorID, map[string]interface{}{
		"arbiter_required": in.ArbiterRequired,
		"deliverables":     len(deliverables),
	})
	self.Notify(escrow.ID, model.EventCreated)

	return
}

// Transition applies one event atomically. The escrow row is locked for
// the duration of the read-modify-write, so concurrent events on the
// same escrow serialize instead of double-applying.
func (self *Ledger) Transition(ctx context.Context, escrowID string, ev Event) (escrow *model.Escrow, result Result, err error) {
	escrow = new(model.Escrow)

	err = self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) (err error) {
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", escrowID).
			First(escrow).
			Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return
		}

		result, err = Apply(escrow, ev, time.Now())
		if err != nil {
			return
		}

		return tx.Save(escrow).Error
	})
	if err != nil {
		return
	}

	// Event log writes are best effort, the transition is already
	// committed and the log is an audit trail, not the current state.
	for i, eventType := range result.Events {
		details := ev.Details
		if i > 0 {
			details = nil
		}
		self.AppendEvent(ctx, escrowID, eventType, ev.Actor, details)
		self.Notify(escrowID, eventType)
	}

	return
}

func (self *Ledger) Get(ctx context.Context, escrowID, callerID string) (view *View, err error) {
	escrow := new(model.Escrow)
	err = self.db.WithContext(ctx).Where("id = ?", escrowID).First(escrow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
		return
	}
	if err != nil {
		return
	}

	party, isParty := escrow.PartyOf(callerID)
	if !isParty && !escrow.IsArbiter(callerID) {
		err = ErrForbidden
		return
	}

	view = &View{Escrow: escrow}

	err = self.db.WithContext(ctx).
		Where("escrow_id = ?", escrowID).
		Order("created_at ASC").
		Find(&view.Deliverables).
		Error
	if err != nil {
		return
	}

	err = self.db.WithContext(ctx).
		Where("escrow_id = ?", escrowID).
		Order("id ASC").
		Find(&view.Events).
		Error
	if err != nil {
		return
	}

	if isParty {
		view.Permissions = permissionsFor(escrow, party)
	}
	return
}

func permissionsFor(escrow *model.Escrow, party model.Party) (p Permissions) {
	switch escrow.Status {
	case model.EscrowStatusPending:
		p.CanConfirm = escrow.ConfirmationOf(party) != model.ConfirmationConfirmed
		p.CanCancel = party == model.PartyInitiator
	case model.EscrowStatusActive, model.EscrowStatusAwaitingConfirm:
		p.CanConfirm = escrow.ConfirmationOf(party) != model.ConfirmationConfirmed
		p.CanDispute = !escrow.ArbiterRequested
	}
	return
}

// AppendEvent appends to the canonical history. Failures are logged,
// never propagated, consistent with the audit-trail role of the log.
func (self *Ledger) AppendEvent(ctx context.Context, escrowID string, eventType model.EventType, actor string, details map[string]interface{}) {
	packed, err := model.NewDetails(details)
	if err != nil {
		self.log.WithError(err).WithField("escrow_id", escrowID).Error("Failed to pack event details")
		return
	}

	event := &model.EscrowEvent{
		EscrowID:  escrowID,
		EventType: eventType,
		Actor:     actor,
		Details:   packed,
	}

	err = self.db.WithContext(ctx).Create(event).Error
	if err != nil {
		self.log.WithError(err).
			WithField("escrow_id", escrowID).
			WithField("event", eventType).
			Error("Failed to append escrow event")
	}
}

// Notify signals a change on the escrow's channel. Dropping on a full
// queue is acceptable, the database trigger broadcast covers the gap.
func (self *Ledger) Notify(escrowID string, eventType model.EventType) {
	if self.notifications == nil {
		return
	}
	select {
	case self.notifications <- &model.EscrowNotification{EscrowID: escrowID, Event: eventType}:
	default:
		self.log.WithField("escrow_id", escrowID).Warn("Notification queue full, dropping")
	}
}

// Reconcile recomputes the status projection from the event log and
// repairs the cached escrow row if it drifted.
func (self *Ledger) Reconcile(ctx context.Context, escrowID string) (projection Projection, repaired bool, err error) {
	escrow := new(model.Escrow)
	err = self.db.WithContext(ctx).Where("id = ?", escrowID).First(escrow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrNotFound
		return
	}
	if err != nil {
		return
	}

	var events []model.EscrowEvent
	err = self.db.WithContext(ctx).
		Where("escrow_id = ?", escrowID).
		Order("id ASC").
		Find(&events).
		Error
	if err != nil {
		return
	}

	projection = Derive(events)
	if projection.Matches(escrow) {
		return
	}

	self.log.WithField("escrow_id", escrowID).
		WithField("cached", escrow.Status).
		WithField("derived", projection.Status).
		Warn("Escrow status drifted from the event log, repairing")

	err = self.db.WithContext(ctx).
		Model(escrow).
		Updates(map[string]interface{}{
			"status":                   projection.Status,
			"initiator_confirmation":   projection.InitiatorConfirmation,
			"participant_confirmation": projection.ParticipantConfirmation,
			"arbiter_requested":        projection.ArbiterRequested,
		}).
		Error
	if err != nil {
		return
	}

	repaired = true
	return
}

package ledger

import (
	"encoding/json"

	"github.com/safetrade/escrow-engine/src/utils/model"
)

// Projection is the escrow state derivable from the event log alone.
// The status columns on the escrow row must always agree with it.
type Projection struct {
	Status                  model.EscrowStatus
	InitiatorConfirmation   model.Confirmation
	ParticipantConfirmation model.Confirmation
	ArbiterRequested        bool
}

type eventDetails struct {
	ArbiterRequired bool   `json:"arbiter_required"`
	RequestedBy     string `json:"requested_by"`
	Decision        string `json:"decision"`
}

func parseDetails(event *model.EscrowEvent) (out eventDetails) {
	if event.Details.Bytes == nil {
		return
	}
	// Drift detection tolerates malformed details, they only carry hints
	_ = json.Unmarshal(event.Details.Bytes, &out)
	return
}

// Derive replays the event sequence and returns the state it implies.
func Derive(events []model.EscrowEvent) (p Projection) {
	p.Status = model.EscrowStatusPending
	p.InitiatorConfirmation = model.ConfirmationUnconfirmed
	p.ParticipantConfirmation = model.ConfirmationUnconfirmed

	markConfirmed := func(marker *model.Confirmation) {
		*marker = model.ConfirmationConfirmed
		if p.Status == model.EscrowStatusPending {
			p.Status = model.EscrowStatusActive
		} else if p.InitiatorConfirmation == model.ConfirmationConfirmed &&
			p.ParticipantConfirmation == model.ConfirmationConfirmed {
			p.Status = model.EscrowStatusCompleted
		} else {
			p.Status = model.EscrowStatusAwaitingConfirm
		}
	}

	for i := range events {
		event := &events[i]
		switch event.EventType {
		case model.EventCreated:
			if parseDetails(event).ArbiterRequired {
				p.Status = model.EscrowStatusArbiterReview
				p.ArbiterRequested = true
			} else {
				p.Status = model.EscrowStatusPending
			}

		case model.EventInitiatorConfirmed:
			markConfirmed(&p.InitiatorConfirmation)

		case model.EventParticipantConfirmed:
			markConfirmed(&p.ParticipantConfirmation)

		case model.EventArbiterRequested:
			p.ArbiterRequested = true
			if model.Party(parseDetails(event).RequestedBy) == model.PartyParticipant {
				p.ParticipantConfirmation = model.ConfirmationDisputed
			} else {
				p.InitiatorConfirmation = model.ConfirmationDisputed
			}
			p.Status = model.EscrowStatusDisputed

		case model.EventArbiterDecided:
			if p.Status == model.EscrowStatusDisputed {
				p.Status = model.EscrowStatusArbiterReview
			}

		case model.EventCompleted:
			p.Status = model.EscrowStatusCompleted

		case model.EventCancelled, model.EventExpired:
			p.Status = model.EscrowStatusCancelled
		}
	}
	return
}

// Matches reports whether the cached escrow row agrees with the projection
func (p Projection) Matches(escrow *model.Escrow) bool {
	return escrow.Status == p.Status &&
		escrow.InitiatorConfirmation == p.InitiatorConfirmation &&
		escrow.ParticipantConfirmation == p.ParticipantConfirmation &&
		escrow.ArbiterRequested == p.ArbiterRequested
}

package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/model"
)

// Result of applying one event to an escrow
type Result struct {
	Status model.EscrowStatus

	// Event log entries to append, in order
	Events []model.EventType

	Completed bool
}

func confirmationEvent(party model.Party) model.EventType {
	if party == model.PartyInitiator {
		return model.EventInitiatorConfirmed
	}
	return model.EventParticipantConfirmed
}

// Apply validates the event against the state table and mutates the
// escrow accordingly. It is pure with respect to storage, callers run
// it inside a locked read-modify-write.
func Apply(escrow *model.Escrow, ev Event, now time.Time) (result Result, err error) {
	if escrow.Status.IsTerminal() {
		err = fmt.Errorf("%w: escrow is %s", ErrInvalidTransition, escrow.Status)
		return
	}

	switch ev.Action {
	case ActionConfirm:
		return applyConfirm(escrow, ev, now)
	case ActionDispute:
		return applyDispute(escrow, ev)
	case ActionCancel:
		return applyCancel(escrow, ev)
	case ActionArbiterDecide:
		return applyArbiterDecide(escrow, ev)
	case ActionExpire:
		return applyExpire(escrow)
	default:
		err = fmt.Errorf("%w: unknown action %s", ErrInvalidTransition, ev.Action)
		return
	}
}

func applyConfirm(escrow *model.Escrow, ev Event, now time.Time) (result Result, err error) {
	switch escrow.Status {
	case model.EscrowStatusPending, model.EscrowStatusActive, model.EscrowStatusAwaitingConfirm:
		// legal
	default:
		err = fmt.Errorf("%w: cannot confirm while %s", ErrInvalidTransition, escrow.Status)
		return
	}

	if escrow.ConfirmationOf(ev.Party) == model.ConfirmationConfirmed {
		err = ErrAlreadyConfirmed
		return
	}

	marker := sql.NullTime{Time: now, Valid: true}
	if ev.Party == model.PartyInitiator {
		escrow.InitiatorConfirmation = model.ConfirmationConfirmed
		escrow.InitiatorConfirmedAt = marker
	} else {
		escrow.ParticipantConfirmation = model.ConfirmationConfirmed
		escrow.ParticipantConfirmedAt = marker
	}

	result.Events = append(result.Events, confirmationEvent(ev.Party))

	if escrow.Status == model.EscrowStatusPending {
		// First confirm is treated as activation
		escrow.Status = model.EscrowStatusActive
	} else if escrow.InitiatorConfirmation == model.ConfirmationConfirmed &&
		escrow.ParticipantConfirmation == model.ConfirmationConfirmed {
		escrow.Status = model.EscrowStatusCompleted
		result.Events = append(result.Events, model.EventCompleted)
		result.Completed = true
	} else {
		escrow.Status = model.EscrowStatusAwaitingConfirm
	}

	result.Status = escrow.Status
	return
}

func applyDispute(escrow *model.Escrow, ev Event) (result Result, err error) {
	if escrow.ArbiterRequested ||
		escrow.Status == model.EscrowStatusDisputed ||
		escrow.Status == model.EscrowStatusArbiterReview {
		err = ErrAlreadyDisputed
		return
	}

	switch escrow.Status {
	case model.EscrowStatusActive, model.EscrowStatusAwaitingConfirm:
		// legal
	default:
		err = fmt.Errorf("%w: cannot dispute while %s", ErrInvalidTransition, escrow.Status)
		return
	}

	if ev.Party == model.PartyInitiator {
		escrow.InitiatorConfirmation = model.ConfirmationDisputed
	} else {
		escrow.ParticipantConfirmation = model.ConfirmationDisputed
	}

	escrow.ArbiterRequested = true
	escrow.ArbiterDecision = sql.NullString{String: string(model.ArbiterDecisionPending), Valid: true}
	escrow.Status = model.EscrowStatusDisputed

	result.Status = escrow.Status
	result.Events = []model.EventType{model.EventArbiterRequested}
	return
}

func applyCancel(escrow *model.Escrow, ev Event) (result Result, err error) {
	if escrow.Status != model.EscrowStatusPending {
		err = fmt.Errorf("%w: cannot cancel while %s", ErrInvalidTransition, escrow.Status)
		return
	}
	if ev.Party != model.PartyInitiator {
		err = fmt.Errorf("%w: only the initiator may cancel", ErrInvalidTransition)
		return
	}

	escrow.Status = model.EscrowStatusCancelled

	result.Status = escrow.Status
	result.Events = []model.EventType{model.EventCancelled}
	return
}

func applyArbiterDecide(escrow *model.Escrow, ev Event) (result Result, err error) {
	switch escrow.Status {
	case model.EscrowStatusDisputed:
		// Taking the case moves it under review, the decision stays pending
		escrow.Status = model.EscrowStatusArbiterReview
		result.Status = escrow.Status
		result.Events = []model.EventType{model.EventArbiterDecided}
		return

	case model.EscrowStatusArbiterReview:
		switch ev.Decision {
		case model.ArbiterDecisionForInitiator, model.ArbiterDecisionForParticipant, model.ArbiterDecisionSplit:
			// legal
		default:
			err = fmt.Errorf("%w: decision %q cannot resolve a review", ErrInvalidTransition, ev.Decision)
			return
		}

		escrow.ArbiterDecision = sql.NullString{String: string(ev.Decision), Valid: true}

		result.Events = []model.EventType{model.EventArbiterDecided}
		if ev.Settlement == SettlementCancel {
			escrow.Status = model.EscrowStatusCancelled
			result.Events = append(result.Events, model.EventCancelled)
		} else {
			escrow.Status = model.EscrowStatusCompleted
			result.Events = append(result.Events, model.EventCompleted)
			result.Completed = true
		}
		result.Status = escrow.Status
		return

	default:
		err = fmt.Errorf("%w: no arbiter decision expected while %s", ErrInvalidTransition, escrow.Status)
		return
	}
}

func applyExpire(escrow *model.Escrow) (result Result, err error) {
	// Expiry is terminal only for escrows that were never activated
	if escrow.Status != model.EscrowStatusPending {
		err = fmt.Errorf("%w: cannot expire while %s", ErrInvalidTransition, escrow.Status)
		return
	}

	escrow.Status = model.EscrowStatusCancelled

	result.Status = escrow.Status
	result.Events = []model.EventType{model.EventExpired, model.EventCancelled}
	return
}

package ledger

import (
	"github.com/safetrade/escrow-engine/src/utils/model"
)

type Action string

const (
	ActionConfirm       Action = "confirm"
	ActionDispute       Action = "dispute"
	ActionCancel        Action = "cancel"
	ActionArbiterDecide Action = "arbiter_decide"
	ActionExpire        Action = "expire"
)

// Outcome of an arbiter decision, chosen by the arbiter alongside the
// decision itself
type Settlement string

const (
	SettlementComplete Settlement = "completed"
	SettlementCancel   Settlement = "cancelled"
)

// Event is one requested state change, validated against the state
// table before being applied.
type Event struct {
	Action Action

	// Confirming or disputing party
	Party model.Party

	// Identity recorded in the event log; a user id or a system actor
	Actor string

	// Arbiter decision, for ActionArbiterDecide only
	Decision   model.ArbiterDecision
	Settlement Settlement

	// Structured payload carried verbatim into the event log
	Details map[string]interface{}
}

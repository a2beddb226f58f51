package report

import (
	"go.uber.org/atomic"
)

type GatewayErrors struct {
	DbError          atomic.Uint64 `json:"db"`
	BadRequest       atomic.Uint64 `json:"bad_request"`
	Unauthorized     atomic.Uint64 `json:"unauthorized"`
	Forbidden        atomic.Uint64 `json:"forbidden"`
	RateLimited      atomic.Uint64 `json:"rate_limited"`
	EventAppendError atomic.Uint64 `json:"event_append"`
}

type GatewayState struct {
	EscrowsCreated     atomic.Uint64 `json:"escrows_created"`
	EscrowsCompleted   atomic.Uint64 `json:"escrows_completed"`
	EscrowsCancelled   atomic.Uint64 `json:"escrows_cancelled"`
	EscrowsExpired     atomic.Uint64 `json:"escrows_expired"`
	ConfirmationsSaved atomic.Uint64 `json:"confirmations_saved"`
	DisputesOpened     atomic.Uint64 `json:"disputes_opened"`
	DisputesResolved   atomic.Uint64 `json:"disputes_resolved"`
	ProofsSubmitted    atomic.Uint64 `json:"proofs_submitted"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}

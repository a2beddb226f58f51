package model

import (
	"time"

	"github.com/jackc/pgtype"
)

const TableEscrowEvent = "escrow_events"

type EventType string

const (
	EventCreated              EventType = "created"
	EventInitiatorConfirmed   EventType = "initiator_confirmed"
	EventParticipantConfirmed EventType = "participant_confirmed"
	EventArbiterRequested     EventType = "arbiter_requested"
	EventArbiterDecided       EventType = "arbiter_decided"
	EventCompleted            EventType = "completed"
	EventCancelled            EventType = "cancelled"
	EventExpired              EventType = "expired"
	EventProofSubmitted       EventType = "proof_submitted"
	EventOracleVerified       EventType = "oracle_verified"
	EventOracleFailed         EventType = "oracle_failed"
	EventNote                 EventType = "note"
)

// Actor value used when the system, not a user, triggers an event
const ActorOracle = "system:oracle"
const ActorExpiry = "system:expiry"

// EscrowEvent is the canonical append-only history of an escrow.
// Status fields on Escrow are a cached projection of this sequence.
type EscrowEvent struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	EscrowID string

	EventType EventType
	Actor     string
	Details   pgtype.JSONB `gorm:"type:jsonb"`

	CreatedAt time.Time
}

// NewDetails packs arbitrary structured details into a JSONB value
func NewDetails(v map[string]interface{}) (out pgtype.JSONB, err error) {
	if v == nil {
		err = out.Set(map[string]interface{}{})
		return
	}
	err = out.Set(v)
	return
}

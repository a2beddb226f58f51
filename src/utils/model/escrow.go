package model

import (
	"database/sql"
	"time"
)

const TableEscrow = "escrows"

type EscrowStatus string

const (
	EscrowStatusPending         EscrowStatus = "pending"
	EscrowStatusActive          EscrowStatus = "active"
	EscrowStatusAwaitingConfirm EscrowStatus = "awaiting_confirmation"
	EscrowStatusDisputed        EscrowStatus = "disputed"
	EscrowStatusArbiterReview   EscrowStatus = "arbiter_review"
	EscrowStatusCompleted       EscrowStatus = "completed"
	EscrowStatusCancelled       EscrowStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are possible
func (s EscrowStatus) IsTerminal() bool {
	return s == EscrowStatusCompleted || s == EscrowStatusCancelled
}

type Confirmation string

const (
	ConfirmationUnconfirmed Confirmation = "unconfirmed"
	ConfirmationConfirmed   Confirmation = "confirmed"
	ConfirmationDisputed    Confirmation = "disputed"
)

type Party string

const (
	PartyInitiator   Party = "initiator"
	PartyParticipant Party = "participant"
	PartyBoth        Party = "both"
)

type ArbiterDecision string

const (
	ArbiterDecisionPending        ArbiterDecision = "pending"
	ArbiterDecisionForInitiator   ArbiterDecision = "for_initiator"
	ArbiterDecisionForParticipant ArbiterDecision = "for_participant"
	ArbiterDecisionSplit          ArbiterDecision = "split"
)

type Escrow struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string

	// Opaque identity references
	InitiatorID   string
	ParticipantID sql.NullString
	ArbiterID     sql.NullString

	Status EscrowStatus

	// Per-party confirmation markers
	InitiatorConfirmation   Confirmation
	InitiatorConfirmedAt    sql.NullTime
	ParticipantConfirmation Confirmation
	ParticipantConfirmedAt  sql.NullTime

	ArbiterRequested bool
	ArbiterDecision  sql.NullString

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ConfirmationOf returns the marker of the given party
func (self *Escrow) ConfirmationOf(party Party) Confirmation {
	if party == PartyInitiator {
		return self.InitiatorConfirmation
	}
	return self.ParticipantConfirmation
}

// PartyOf maps a caller id to its role within the escrow
func (self *Escrow) PartyOf(callerID string) (Party, bool) {
	switch {
	case callerID == self.InitiatorID:
		return PartyInitiator, true
	case self.ParticipantID.Valid && callerID == self.ParticipantID.String:
		return PartyParticipant, true
	default:
		return "", false
	}
}

func (self *Escrow) IsArbiter(callerID string) bool {
	return self.ArbiterID.Valid && callerID == self.ArbiterID.String
}

package model

import "time"

const TableProof = "proofs"

// Proof is immutable submission evidence. A resubmission inserts
// a new row, never updates an existing one.
type Proof struct {
	ID            string `gorm:"primaryKey"`
	DeliverableID string

	// Opaque content reference into the blob store
	ProofHash string

	Description string
	SubmitterID string

	CreatedAt time.Time
}

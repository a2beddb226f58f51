package model

import "time"

const TableOracleVerification = "oracle_verifications"

type OracleType string

const (
	OracleTypeIpfs   OracleType = "ipfs"
	OracleTypeAi     OracleType = "ai"
	OracleTypeManual OracleType = "manual"
)

// OracleVerification is an append-only audit record,
// exactly one per verification attempt.
type OracleVerification struct {
	ID            string `gorm:"primaryKey"`
	EscrowID      string
	DeliverableID string
	ProofID       string

	OracleType      OracleType
	Verified        bool
	ConfidenceScore int
	Notes           string

	CreatedAt time.Time
}

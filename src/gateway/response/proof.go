package response

import (
	"time"

	"github.com/safetrade/escrow-engine/src/utils/model"
)

type Proof struct {
	ID            string    `json:"id"`
	DeliverableID string    `json:"deliverable_id"`
	ProofHash     string    `json:"proof_hash"`
	Description   string    `json:"description,omitempty"`
	SubmitterID   string    `json:"submitter_id"`
	CreatedAt     time.Time `json:"created_at"`

	// Whether automatic verification was queued for this submission
	OracleTriggered bool   `json:"oracle_triggered"`
	Message         string `json:"message,omitempty"`
}

type Verification struct {
	ID              string    `json:"id"`
	EscrowID        string    `json:"escrow_id"`
	DeliverableID   string    `json:"deliverable_id"`
	ProofID         string    `json:"proof_id"`
	OracleType      string    `json:"oracle_type"`
	Verified        bool      `json:"verified"`
	ConfidenceScore int       `json:"confidence_score"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func ProofOf(in *model.Proof) Proof {
	return Proof{
		ID:            in.ID,
		DeliverableID: in.DeliverableID,
		ProofHash:     in.ProofHash,
		Description:   in.Description,
		SubmitterID:   in.SubmitterID,
		CreatedAt:     in.CreatedAt,
	}
}

func VerificationOf(in *model.OracleVerification) Verification {
	return Verification{
		ID:              in.ID,
		EscrowID:        in.EscrowID,
		DeliverableID:   in.DeliverableID,
		ProofID:         in.ProofID,
		OracleType:      string(in.OracleType),
		Verified:        in.Verified,
		ConfidenceScore: in.ConfidenceScore,
		Notes:           in.Notes,
		CreatedAt:       in.CreatedAt,
	}
}

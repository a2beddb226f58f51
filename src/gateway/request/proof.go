package request

type SubmitProof struct {
	ProofHash   string `json:"proof_hash" binding:"required"`
	Description string `json:"description"`
}

// VerifyDeliverable is the internal oracle trigger, it re-runs
// verification for an already submitted proof
type VerifyDeliverable struct {
	DeliverableID string `json:"deliverable_id" binding:"required"`
}

package request

type Deliverable struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	Type             string `json:"type" binding:"required"`
	ResponsibleParty string `json:"responsible_party" binding:"required"`
}

type CreateEscrow struct {
	Title         string        `json:"title" binding:"required"`
	Description   string        `json:"description"`
	ParticipantID string        `json:"participant_id"`
	Deliverables  []Deliverable `json:"deliverables" binding:"required"`

	ArbiterRequired bool   `json:"arbiter_required"`
	ArbiterID       string `json:"arbiter_id"`
}

type Confirm struct {
	Notes string `json:"notes"`
}

type Dispute struct {
	Reason   string   `json:"reason" binding:"required"`
	Details  string   `json:"details"`
	Evidence []string `json:"evidence"`
}

type Resolve struct {
	Decision   string `json:"decision" binding:"required"`
	Settlement string `json:"settlement"`
}

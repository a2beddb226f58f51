package model

import "time"

const TableDeliverable = "deliverables"

type DeliverableType string

const (
	DeliverableTypeProduct  DeliverableType = "product"
	DeliverableTypeService  DeliverableType = "service"
	DeliverableTypePayment  DeliverableType = "payment"
	DeliverableTypeDocument DeliverableType = "document"
)

func (t DeliverableType) Valid() bool {
	switch t {
	case DeliverableTypeProduct, DeliverableTypeService, DeliverableTypePayment, DeliverableTypeDocument:
		return true
	default:
		return false
	}
}

type DeliverableStatus string

const (
	DeliverableStatusPending   DeliverableStatus = "pending"
	DeliverableStatusSubmitted DeliverableStatus = "submitted"
	DeliverableStatusVerified  DeliverableStatus = "verified"
	DeliverableStatusFailed    DeliverableStatus = "failed"

	// Terminal
	DeliverableStatusConfirmed DeliverableStatus = "confirmed"
)

type Deliverable struct {
	ID       string `gorm:"primaryKey"`
	EscrowID string

	Title       string
	Description string
	Type        DeliverableType

	ResponsibleParty Party

	Status DeliverableStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsResponsible reports whether the party may submit proof for this deliverable
func (self *Deliverable) IsResponsible(party Party) bool {
	return self.ResponsibleParty == PartyBoth || self.ResponsibleParty == party
}

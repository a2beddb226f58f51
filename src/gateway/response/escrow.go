package response

import (
	"encoding/json"
	"time"

	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/model"
)

type Deliverable struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Type             string `json:"type"`
	ResponsibleParty string `json:"responsible_party"`
	Status           string `json:"status"`
}

type Event struct {
	EventType string          `json:"event_type"`
	Actor     string          `json:"actor"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Escrow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	InitiatorID   string `json:"initiator_id"`
	ParticipantID string `json:"participant_id,omitempty"`
	ArbiterID     string `json:"arbiter_id,omitempty"`

	Status string `json:"status"`

	InitiatorConfirmation   string `json:"initiator_confirmation"`
	ParticipantConfirmation string `json:"participant_confirmation"`

	ArbiterRequested bool   `json:"arbiter_requested"`
	ArbiterDecision  string `json:"arbiter_decision,omitempty"`

	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Deliverables []Deliverable       `json:"deliverables,omitempty"`
	Events       []Event             `json:"events,omitempty"`
	Permissions  *ledger.Permissions `json:"permissions,omitempty"`

	// Human readable summary of what just happened, set on mutations
	Message string `json:"message,omitempty"`
}

func DeliverableOf(in *model.Deliverable) Deliverable {
	return Deliverable{
		ID:               in.ID,
		Title:            in.Title,
		Description:      in.Description,
		Type:             string(in.Type),
		ResponsibleParty: string(in.ResponsibleParty),
		Status:           string(in.Status),
	}
}

func EscrowOf(in *model.Escrow) (out Escrow) {
	out = Escrow{
		ID:                      in.ID,
		Title:                   in.Title,
		Description:             in.Description,
		InitiatorID:             in.InitiatorID,
		Status:                  string(in.Status),
		InitiatorConfirmation:   string(in.InitiatorConfirmation),
		ParticipantConfirmation: string(in.ParticipantConfirmation),
		ArbiterRequested:        in.ArbiterRequested,
		ExpiresAt:               in.ExpiresAt,
		CreatedAt:               in.CreatedAt,
		UpdatedAt:               in.UpdatedAt,
	}
	if in.ParticipantID.Valid {
		out.ParticipantID = in.ParticipantID.String
	}
	if in.ArbiterID.Valid {
		out.ArbiterID = in.ArbiterID.String
	}
	if in.ArbiterDecision.Valid {
		out.ArbiterDecision = in.ArbiterDecision.String
	}
	return
}

func ViewOf(in *ledger.View) (out Escrow) {
	out = EscrowOf(in.Escrow)
	out.Permissions = &in.Permissions

	for _, d := range in.Deliverables {
		out.Deliverables = append(out.Deliverables, DeliverableOf(d))
	}
	for _, e := range in.Events {
		event := Event{
			EventType: string(e.EventType),
			Actor:     e.Actor,
			CreatedAt: e.CreatedAt,
		}
		if e.Details.Bytes != nil {
			event.Details = json.RawMessage(e.Details.Bytes)
		}
		out.Events = append(out.Events, event)
	}
	return
}

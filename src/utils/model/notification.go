package model

import (
	"encoding/json"
	"fmt"
)

// EscrowNotification is the realtime message published for every
// ledger, deliverable or event mutation. The payload carries only a
// change signal, consumers re-fetch the full status.
type EscrowNotification struct {
	EscrowID string          `json:"escrow_id"`
	Event    EventType       `json:"event"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

func (self *EscrowNotification) MarshalBinary() (data []byte, err error) {
	return json.Marshal(self)
}

func (self *EscrowNotification) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, self)
}

// Channel returns the per-escrow topic the notification belongs to
func (self *EscrowNotification) Channel() string {
	return EscrowChannel(self.EscrowID)
}

func EscrowChannel(escrowID string) string {
	return fmt.Sprintf("escrow:%s", escrowID)
}

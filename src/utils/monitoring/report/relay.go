package report

import (
	"go.uber.org/atomic"
)

type RelayErrors struct {
	ListenError atomic.Uint64 `json:"listen"`
	ParseError  atomic.Uint64 `json:"parse"`
}

type RelayState struct {
	NotificationsReceived atomic.Uint64 `json:"notifications_received"`
	NotificationsRelayed  atomic.Uint64 `json:"notifications_relayed"`
	LastNotificationTime  atomic.Int64  `json:"last_notification_timestamp"`
}

type RelayReport struct {
	State  RelayState  `json:"state"`
	Errors RelayErrors `json:"errors"`
}

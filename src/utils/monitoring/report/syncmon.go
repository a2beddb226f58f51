package report

import (
	"go.uber.org/atomic"
)

type SyncmonErrors struct {
	FetchError     atomic.Uint64 `json:"fetch"`
	SubscribeError atomic.Uint64 `json:"subscribe"`
}

type SyncmonState struct {
	PushMessagesReceived atomic.Uint64 `json:"push_messages_received"`
	PushFetches          atomic.Uint64 `json:"push_fetches"`
	PullFetches          atomic.Uint64 `json:"pull_fetches"`
	PullRearmed          atomic.Uint64 `json:"pull_rearmed"`
	PullDisabled         atomic.Uint64 `json:"pull_disabled"`
	LastPushTimestamp    atomic.Int64  `json:"last_push_timestamp"`
}

type SyncmonReport struct {
	State  SyncmonState  `json:"state"`
	Errors SyncmonErrors `json:"errors"`
}

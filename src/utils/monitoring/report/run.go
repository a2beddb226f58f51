package report

import (
	"time"

	"go.uber.org/atomic"
)

type RunReport struct {
	StartTimestamp atomic.Int64  `json:"start_timestamp"`
	UpForSeconds   atomic.Uint64 `json:"up_for_seconds"`
}

func (self *RunReport) Fill() {
	self.UpForSeconds.Store(uint64(time.Now().Unix() - self.StartTimestamp.Load()))
}

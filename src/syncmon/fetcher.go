package syncmon

import (
	"context"
	"fmt"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/build_info"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Snapshot is the escrow state as reported by the gateway
type Snapshot struct {
	ID                      string             `json:"id"`
	Status                  model.EscrowStatus `json:"status"`
	InitiatorConfirmation   model.Confirmation `json:"initiator_confirmation"`
	ParticipantConfirmation model.Confirmation `json:"participant_confirmation"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

// Fetcher re-fetches escrow state from the gateway REST API
type Fetcher struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry
}

func NewFetcher(config *config.Config) (self *Fetcher) {
	self = new(Fetcher)
	self.config = config
	self.log = logger.NewSublogger("syncmon-fetcher")

	self.client = resty.New().
		SetBaseURL(config.Syncmon.GatewayUrl).
		SetTimeout(config.Syncmon.FetchTimeout).
		SetHeader("User-Agent", "escrowd/"+build_info.Version)

	if config.Syncmon.AuthToken != "" {
		self.client.SetAuthToken(config.Syncmon.AuthToken)
	}

	return
}

func (self *Fetcher) Fetch(ctx context.Context, escrowID string) (out *Snapshot, err error) {
	out = new(Snapshot)
	resp, err := self.client.R().
		SetContext(ctx).
		SetResult(out).
		Get("/v1/escrow/" + escrowID)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("unexpected status: %s", resp.Status())
		return
	}
	return
}

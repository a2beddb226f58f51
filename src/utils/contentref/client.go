package contentref

import (
	"context"
	"fmt"

	"github.com/safetrade/escrow-engine/src/utils/build_info"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Client resolves opaque content references against the configured
// HTTP gateway of the blob store.
type Client struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("contentref-client")

	self.client = resty.New().
		SetBaseURL(config.Oracle.ContentGatewayUrl).
		SetTimeout(config.Oracle.ResolveTimeout).
		SetHeader("User-Agent", "escrowd/"+build_info.Version)

	return
}

// Resolve checks that the reference is reachable in the blob store.
// The wait is bounded by the client timeout, an expired context or
// timeout comes back as an error which the caller treats as a
// verification failure, not a crash.
func (self *Client) Resolve(ctx context.Context, reference string) (err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		Head("/" + reference)
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		return fmt.Errorf("unexpected status: %s", resp.Status())
	}
	return nil
}

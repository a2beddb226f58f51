package evaluator

import (
	"context"
	"fmt"

	"github.com/safetrade/escrow-engine/src/utils/build_info"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/logger"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Verdict is the evaluator's judgement on submitted work.
type Verdict struct {
	Verified   bool   `json:"verified"`
	Confidence int    `json:"confidence"`
	Notes      string `json:"notes"`
}

// Client talks to the external quality evaluation service.
type Client struct {
	client *resty.Client
	config *config.Config
	log    *logrus.Entry
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("evaluator-client")

	self.client = resty.New().
		SetBaseURL(config.Oracle.EvaluatorUrl).
		SetTimeout(config.Oracle.ResolveTimeout).
		SetHeader("User-Agent", "escrowd/"+build_info.Version)

	return
}

// Evaluate asks the service to judge the submitted proof against the
// deliverable description.
func (self *Client) Evaluate(ctx context.Context, description, proofHash string) (out Verdict, err error) {
	resp, err := self.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"description": description,
			"proof_hash":  proofHash,
		}).
		SetResult(&out).
		Post("/evaluate")
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("unexpected status: %s", resp.Status())
		return
	}
	return
}

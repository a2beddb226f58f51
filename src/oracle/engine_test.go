package oracle

import (
	"context"
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/evaluator"
	"github.com/safetrade/escrow-engine/src/utils/model"
	monitor_gateway "github.com/safetrade/escrow-engine/src/utils/monitoring/gateway"

	"github.com/stretchr/testify/suite"
)

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

type EngineTestSuite struct {
	suite.Suite

	config  *config.Config
	monitor *monitor_gateway.Monitor
	engine  *Engine
}

type fakeResolver struct {
	err   error
	block bool
}

func (self *fakeResolver) Resolve(ctx context.Context, reference string) error {
	if self.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return self.err
}

type fakeEvaluator struct {
	verdict evaluator.Verdict
	err     error
}

func (self *fakeEvaluator) Evaluate(ctx context.Context, description, proofHash string) (evaluator.Verdict, error) {
	return self.verdict, self.err
}

func (s *EngineTestSuite) SetupTest() {
	s.config = config.Default()
	s.monitor = monitor_gateway.NewMonitor()
	s.engine = NewEngine(s.config).WithMonitor(s.monitor)
}

func (s *EngineTestSuite) request(t model.DeliverableType) Request {
	return Request{
		EscrowID:         "esc1",
		DeliverableID:    "del1",
		ProofID:          "prf1",
		ProofHash:        "QmHash",
		Description:      "deliver the package",
		Type:             t,
		ResponsibleParty: model.PartyInitiator,
	}
}

func (s *EngineTestSuite) TestResolveSuccess() {
	s.engine.WithResolver(&fakeResolver{})

	verification := new(model.OracleVerification)
	s.engine.resolve(context.Background(), s.request(model.DeliverableTypeProduct), verification)

	s.Equal(model.OracleTypeIpfs, verification.OracleType)
	s.True(verification.Verified)
	s.Equal(100, verification.ConfidenceScore)
}

func (s *EngineTestSuite) TestResolveTimeoutIsAFailedVerification() {
	s.config.Oracle.ResolveTimeout = 20 * time.Millisecond
	s.engine.WithResolver(&fakeResolver{block: true})

	verification := new(model.OracleVerification)
	s.engine.resolve(context.Background(), s.request(model.DeliverableTypeDocument), verification)

	s.False(verification.Verified)
	s.Contains(verification.Notes, "exceeded")
	s.EqualValues(1, s.monitor.GetReport().Oracle.Errors.ResolveTimeout.Load())
}

func (s *EngineTestSuite) TestResolveFailure() {
	s.engine.WithResolver(&fakeResolver{err: context.Canceled})

	verification := new(model.OracleVerification)
	s.engine.resolve(context.Background(), s.request(model.DeliverableTypeProduct), verification)

	s.False(verification.Verified)
	s.Contains(verification.Notes, "content resolution failed")
}

func (s *EngineTestSuite) TestEvaluatePassesAtFloor() {
	s.engine.WithEvaluator(&fakeEvaluator{
		verdict: evaluator.Verdict{Verified: true, Confidence: 80, Notes: "looks complete"},
	})

	verification := new(model.OracleVerification)
	s.engine.evaluate(context.Background(), s.request(model.DeliverableTypeService), verification)

	s.Equal(model.OracleTypeAi, verification.OracleType)
	s.True(verification.Verified)
	s.Equal(80, verification.ConfidenceScore)
	s.Equal("looks complete", verification.Notes)
}

func (s *EngineTestSuite) TestEvaluateBelowFloorIsOverridden() {
	s.engine.WithEvaluator(&fakeEvaluator{
		verdict: evaluator.Verdict{Verified: true, Confidence: 79, Notes: "probably fine"},
	})

	verification := new(model.OracleVerification)
	s.engine.evaluate(context.Background(), s.request(model.DeliverableTypeService), verification)

	s.False(verification.Verified)
	s.Equal(79, verification.ConfidenceScore)
	s.Contains(verification.Notes, "confidence 79 below floor 80")
	s.EqualValues(1, s.monitor.GetReport().Oracle.Errors.ConfidenceTooLow.Load())
}

func (s *EngineTestSuite) TestEvaluateNegativeVerdictKeptBelowFloor() {
	s.engine.WithEvaluator(&fakeEvaluator{
		verdict: evaluator.Verdict{Verified: false, Confidence: 95, Notes: "work does not match description"},
	})

	verification := new(model.OracleVerification)
	s.engine.evaluate(context.Background(), s.request(model.DeliverableTypeService), verification)

	s.False(verification.Verified)
	s.Equal("work does not match description", verification.Notes)
	s.EqualValues(0, s.monitor.GetReport().Oracle.Errors.ConfidenceTooLow.Load())
}

func (s *EngineTestSuite) TestEvaluatorErrorIsAFailedVerification() {
	s.engine.WithEvaluator(&fakeEvaluator{err: context.DeadlineExceeded})

	verification := new(model.OracleVerification)
	s.engine.evaluate(context.Background(), s.request(model.DeliverableTypeService), verification)

	s.False(verification.Verified)
	s.Contains(verification.Notes, "evaluation failed")
	s.EqualValues(1, s.monitor.GetReport().Oracle.Errors.EvaluatorError.Load())
}

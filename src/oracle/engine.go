package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/safetrade/escrow-engine/src/confirm"
	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/evaluator"
	"github.com/safetrade/escrow-engine/src/utils/model"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/rs/xid"
	"github.com/teivah/onecontext"
	"gorm.io/gorm"
)

// Resolver checks that a content reference is reachable
type Resolver interface {
	Resolve(ctx context.Context, reference string) error
}

// Evaluator judges submitted proof against the deliverable description
type Evaluator interface {
	Evaluate(ctx context.Context, description, proofHash string) (evaluator.Verdict, error)
}

// Request is one verification job for a submitted proof
type Request struct {
	EscrowID      string
	DeliverableID string
	ProofID       string
	ProofHash     string
	Description   string

	Type             model.DeliverableType
	ResponsibleParty model.Party
}

// Engine runs oracle verifications on a worker pool. Verification
// outcomes are encoded in the persisted record, a failed check is a
// result, not an error. Only persistence problems surface to the
// caller.
type Engine struct {
	*task.Task

	db         *gorm.DB
	resolver   Resolver
	evaluator  Evaluator
	tracker    *deliverable.Tracker
	aggregator *confirm.Aggregator
	monitor    monitoring.Monitor

	input chan Request
}

func NewEngine(config *config.Config) (self *Engine) {
	self = new(Engine)

	self.input = make(chan Request, config.Oracle.QueueSize)

	self.Task = task.NewTask(config, "oracle-engine").
		WithSubtaskFunc(self.run).
		WithWorkerPool(config.Oracle.WorkerPoolSize)

	return
}

func (self *Engine) WithDB(db *gorm.DB) *Engine {
	self.db = db
	return self
}

func (self *Engine) WithResolver(resolver Resolver) *Engine {
	self.resolver = resolver
	return self
}

func (self *Engine) WithEvaluator(evaluator Evaluator) *Engine {
	self.evaluator = evaluator
	return self
}

func (self *Engine) WithTracker(tracker *deliverable.Tracker) *Engine {
	self.tracker = tracker
	return self
}

func (self *Engine) WithAggregator(aggregator *confirm.Aggregator) *Engine {
	self.aggregator = aggregator
	return self
}

func (self *Engine) WithMonitor(monitor monitoring.Monitor) *Engine {
	self.monitor = monitor
	return self
}

// Submit queues a verification. Blocks when the queue is full so
// submission backpressure reaches the caller instead of dropping jobs.
func (self *Engine) Submit(req Request) {
	select {
	case self.input <- req:
	case <-self.Ctx.Done():
	}
}

func (self *Engine) run() (err error) {
	for {
		select {
		case <-self.Ctx.Done():
			return nil
		case req := <-self.input:
			self.SubmitToWorker(func() {
				_, err := self.Process(self.Ctx, req)
				if err != nil {
					self.Log.WithError(err).
						WithField("deliverable_id", req.DeliverableID).
						Error("Failed to process verification")
				}
			})
		}
	}
}

// Process runs one verification synchronously and persists exactly one
// audit record regardless of the outcome.
func (self *Engine) Process(ctx context.Context, req Request) (verification *model.OracleVerification, err error) {
	self.monitor.GetReport().Oracle.State.VerificationsRun.Inc()

	verification = &model.OracleVerification{
		ID:            xid.New().String(),
		EscrowID:      req.EscrowID,
		DeliverableID: req.DeliverableID,
		ProofID:       req.ProofID,
	}

	switch req.Type {
	case model.DeliverableTypeProduct, model.DeliverableTypeDocument:
		self.resolve(ctx, req, verification)
	case model.DeliverableTypeService:
		self.evaluate(ctx, req, verification)
	case model.DeliverableTypePayment:
		// Payments are confirmed by the parties themselves, the oracle
		// only records that it stood aside.
		verification.OracleType = model.OracleTypeManual
		verification.Notes = "payment deliverables require explicit party confirmation"
		self.monitor.GetReport().Oracle.State.ManualPathDeliverable.Inc()
	default:
		verification.OracleType = model.OracleTypeManual
		verification.Notes = fmt.Sprintf("unsupported deliverable type: %s", req.Type)
		self.monitor.GetReport().Oracle.Errors.UnknownDeliverable.Inc()
	}

	err = self.db.WithContext(ctx).Create(verification).Error
	if err != nil {
		self.monitor.GetReport().Oracle.Errors.PersistenceError.Inc()
		return
	}

	if verification.OracleType == model.OracleTypeManual {
		return
	}

	self.settle(ctx, req, verification)
	return
}

// resolve checks content accessibility for product and document
// deliverables. The wait is hard bounded by the configured timeout.
func (self *Engine) resolve(ctx context.Context, req Request, verification *model.OracleVerification) {
	verification.OracleType = model.OracleTypeIpfs

	mergedCtx, cancelMerged := onecontext.Merge(ctx, self.Ctx)
	defer cancelMerged()

	boundedCtx, cancel := context.WithTimeout(mergedCtx, self.Config.Oracle.ResolveTimeout)
	defer cancel()

	err := self.resolver.Resolve(boundedCtx, req.ProofHash)
	if err == nil {
		verification.Verified = true
		verification.ConfidenceScore = 100
		verification.Notes = "content reference resolved"
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		self.monitor.GetReport().Oracle.Errors.ResolveTimeout.Inc()
		verification.Notes = fmt.Sprintf("content resolution exceeded %s", self.Config.Oracle.ResolveTimeout)
		return
	}

	verification.Notes = fmt.Sprintf("content resolution failed: %s", err)
}

// evaluate asks the quality evaluator to judge a service deliverable.
// Verdicts below the confidence floor are overridden to failed.
func (self *Engine) evaluate(ctx context.Context, req Request, verification *model.OracleVerification) {
	verification.OracleType = model.OracleTypeAi

	mergedCtx, cancelMerged := onecontext.Merge(ctx, self.Ctx)
	defer cancelMerged()

	boundedCtx, cancel := context.WithTimeout(mergedCtx, self.Config.Oracle.EvaluatorTimeout)
	defer cancel()

	verdict, err := self.evaluator.Evaluate(boundedCtx, req.Description, req.ProofHash)
	if err != nil {
		self.monitor.GetReport().Oracle.Errors.EvaluatorError.Inc()
		verification.Notes = fmt.Sprintf("evaluation failed: %s", err)
		return
	}

	verification.Verified = verdict.Verified
	verification.ConfidenceScore = verdict.Confidence
	verification.Notes = verdict.Notes

	if verdict.Verified && verdict.Confidence < self.Config.Oracle.ConfidenceFloor {
		self.monitor.GetReport().Oracle.Errors.ConfidenceTooLow.Inc()
		verification.Verified = false
		verification.Notes = fmt.Sprintf("confidence %d below floor %d: %s",
			verdict.Confidence, self.Config.Oracle.ConfidenceFloor, verdict.Notes)
	}
}

// settle records the verdict on the deliverable and auto-confirms the
// responsible party on success. Downstream failures are logged, never
// propagated past the engine.
func (self *Engine) settle(ctx context.Context, req Request, verification *model.OracleVerification) {
	err := self.tracker.MarkVerified(ctx, req.DeliverableID, verification.Verified)
	if err != nil {
		self.monitor.GetReport().Oracle.Errors.PersistenceError.Inc()
		self.Log.WithError(err).
			WithField("deliverable_id", req.DeliverableID).
			Error("Failed to record oracle verdict on the deliverable")
	}

	if !verification.Verified {
		self.monitor.GetReport().Oracle.State.VerificationsFailed.Inc()
		return
	}
	self.monitor.GetReport().Oracle.State.VerificationsPassed.Inc()

	if req.ResponsibleParty == model.PartyBoth {
		// No single party to credit, both still confirm by hand
		return
	}

	_, _, err = self.aggregator.AutoConfirm(ctx, req.EscrowID, req.ResponsibleParty)
	switch {
	case err == nil:
		self.monitor.GetReport().Oracle.State.PartiesAutoConfirmed.Inc()
	case errors.Is(err, ledger.ErrAlreadyConfirmed):
		self.Log.WithField("escrow_id", req.EscrowID).
			Debug("Party already confirmed, auto-confirmation skipped")
	default:
		self.monitor.GetReport().Oracle.Errors.AutoConfirmError.Inc()
		self.Log.WithError(err).
			WithField("escrow_id", req.EscrowID).
			Error("Failed to auto-confirm the responsible party")
	}
}

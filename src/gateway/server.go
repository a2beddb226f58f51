package gateway

import (
	"context"
	"net/http"

	"github.com/safetrade/escrow-engine/src/confirm"
	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/dispute"
	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/oracle"
	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/monitoring"
	"github.com/safetrade/escrow-engine/src/utils/task"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// Public REST API of the escrow platform
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	ledger      *ledger.Ledger
	tracker     *deliverable.Tracker
	aggregator  *confirm.Aggregator
	coordinator *dispute.Coordinator
	engine      *oracle.Engine
	limiters    LimiterStore
	monitor     monitoring.Monitor
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "server").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()
	self.Router.Use(gin.Recovery())

	self.httpServer = &http.Server{
		Addr:        self.Config.Gateway.ListenAddress,
		Handler:     self.Router,
		ReadTimeout: self.Config.Gateway.ServerRequestTimeout,
	}

	return
}

func (self *Server) WithLedger(ledger *ledger.Ledger) *Server {
	self.ledger = ledger
	return self
}

func (self *Server) WithTracker(tracker *deliverable.Tracker) *Server {
	self.tracker = tracker
	return self
}

func (self *Server) WithAggregator(aggregator *confirm.Aggregator) *Server {
	self.aggregator = aggregator
	return self
}

func (self *Server) WithCoordinator(coordinator *dispute.Coordinator) *Server {
	self.coordinator = coordinator
	return self
}

func (self *Server) WithOracleEngine(engine *oracle.Engine) *Server {
	self.engine = engine
	return self
}

func (self *Server) WithLimiterStore(limiters LimiterStore) *Server {
	self.limiters = limiters
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor
	return self
}

func (self *Server) run() (err error) {
	if self.Config.Profiler.Enabled {
		pprof.Register(self.Router)
	}

	v1 := self.Router.Group("v1")
	v1.Use(AuthBearer(self.Config.Gateway.AuthSecret))
	v1.Use(RateLimit(self.limiters))
	{
		v1.POST("escrow", self.onCreateEscrow)
		v1.GET("escrow/:id", self.onGetEscrow)
		v1.POST("escrow/:id/confirm", self.onConfirm)
		v1.POST("escrow/:id/dispute", self.onDispute)
		v1.POST("escrow/:id/cancel", self.onCancel)
		v1.POST("escrow/:id/review", self.onReview)
		v1.POST("escrow/:id/resolve", self.onResolve)

		v1.POST("escrow/:id/deliverable/:did/proof", self.onSubmitProof)

		// Internal maintenance endpoints
		v1.POST("oracle/verify", self.onVerifyDeliverable)
		v1.POST("escrow/:id/reconcile", self.onReconcile)
	}

	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

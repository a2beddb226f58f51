package config

import (
	"time"

	"github.com/spf13/viper"
)

type Oracle struct {
	// Verification worker pool
	WorkerPoolSize int

	// Buffered requests waiting for a worker
	QueueSize int

	// HTTP gateway used to resolve proof content references
	ContentGatewayUrl string

	// Hard bound on a single content reference resolution.
	// Exceeding it is a verification failure, not an error.
	ResolveTimeout time.Duration

	// Quality evaluator endpoint for service deliverables
	EvaluatorUrl     string
	EvaluatorTimeout time.Duration

	// Verdicts below this confidence are overridden to failed
	ConfidenceFloor int
}

func setOracleDefaults() {
	viper.SetDefault("Oracle.WorkerPoolSize", "8")
	viper.SetDefault("Oracle.QueueSize", "64")
	viper.SetDefault("Oracle.ContentGatewayUrl", "https://ipfs.io/ipfs")
	viper.SetDefault("Oracle.ResolveTimeout", "10s")
	viper.SetDefault("Oracle.EvaluatorUrl", "http://127.0.0.1:9010")
	viper.SetDefault("Oracle.EvaluatorTimeout", "30s")
	viper.SetDefault("Oracle.ConfidenceFloor", "80")
}

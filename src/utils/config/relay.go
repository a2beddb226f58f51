package config

import (
	"time"

	"github.com/spf13/viper"
)

type Relay struct {
	// Buffered notifications between the database listener and the publisher
	QueueSize int

	// Reconnect backoff after the LISTEN connection drops
	BackoffMaxElapsedTime time.Duration
	BackoffMaxInterval    time.Duration
}

func setRelayDefaults() {
	viper.SetDefault("Relay.QueueSize", "100")
	viper.SetDefault("Relay.BackoffMaxElapsedTime", "0")
	viper.SetDefault("Relay.BackoffMaxInterval", "30s")
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

type Syncmon struct {
	// Base URL of the gateway used for status re-fetches
	GatewayUrl string

	// Bearer token presented to the gateway
	AuthToken string

	FetchTimeout time.Duration

	// Pull fallback interval, active whenever push isn't trusted
	PollInterval time.Duration

	// How often push staleness is checked
	StalenessInterval time.Duration

	// Time since the last push message after which push is no longer trusted
	BroadcastTimeout time.Duration

	// Consecutive successful push-triggered fetches needed to trust push
	BroadcastSuccessThreshold int
}

func setSyncmonDefaults() {
	viper.SetDefault("Syncmon.GatewayUrl", "http://127.0.0.1:8080")
	viper.SetDefault("Syncmon.AuthToken", "")
	viper.SetDefault("Syncmon.FetchTimeout", "10s")
	viper.SetDefault("Syncmon.PollInterval", "5s")
	viper.SetDefault("Syncmon.StalenessInterval", "10s")
	viper.SetDefault("Syncmon.BroadcastTimeout", "15s")
	viper.SetDefault("Syncmon.BroadcastSuccessThreshold", "3")
}

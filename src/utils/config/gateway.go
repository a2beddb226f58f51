package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// Address the public REST API binds to
	ListenAddress string

	ServerRequestTimeout time.Duration

	// HS256 secret used to verify caller bearer tokens
	AuthSecret string

	// Per-caller request rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
	RateLimitWindow    time.Duration

	// Default escrow lifetime
	EscrowLifetime time.Duration

	// Cron spec for the expiry sweeper
	ExpirySchedule string
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.ListenAddress", ":8080")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.AuthSecret", "")
	viper.SetDefault("Gateway.RateLimitPerSecond", "10")
	viper.SetDefault("Gateway.RateLimitBurst", "20")
	viper.SetDefault("Gateway.RateLimitWindow", "1m")
	viper.SetDefault("Gateway.EscrowLifetime", "720h")
	viper.SetDefault("Gateway.ExpirySchedule", "@every 10m")
}

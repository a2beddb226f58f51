package gateway

import (
	"errors"
	"net/http"

	"github.com/safetrade/escrow-engine/src/utils/config"
	. "github.com/safetrade/escrow-engine/src/utils/logger"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("too many requests")

// LimiterStore hands out the per-caller limiter
type LimiterStore interface {
	Get(callerID string) *rate.Limiter
}

// Caches limiters per caller, idle callers expire with the window
type cachedLimiterStore struct {
	cache *cache.Cache
	rate  rate.Limit
	burst int
}

func NewLimiterStore(config *config.Config) LimiterStore {
	return &cachedLimiterStore{
		cache: cache.New(config.Gateway.RateLimitWindow, 2*config.Gateway.RateLimitWindow),
		rate:  rate.Limit(config.Gateway.RateLimitPerSecond),
		burst: config.Gateway.RateLimitBurst,
	}
}

func (self *cachedLimiterStore) Get(callerID string) *rate.Limiter {
	cached, ok := self.cache.Get(callerID)
	if ok {
		return cached.(*rate.Limiter)
	}

	limiter := rate.NewLimiter(self.rate, self.burst)
	self.cache.SetDefault(callerID, limiter)
	return limiter
}

// RateLimit throttles per caller, keyed by the authenticated identity
func RateLimit(store LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !store.Get(callerID(c)).Allow() {
			LOGE(c, ErrRateLimited, http.StatusTooManyRequests).
				WithField("caller_id", callerID(c)).
				Debug("Request throttled")
			return
		}
		c.Next()
	}
}

package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}

type RateLimitTestSuite struct {
	suite.Suite

	config *config.Config
	router *gin.Engine
}

func (s *RateLimitTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *RateLimitTestSuite) SetupTest() {
	s.config = config.Default()
	s.config.Gateway.RateLimitPerSecond = 1
	s.config.Gateway.RateLimitBurst = 3
	s.config.Gateway.RateLimitWindow = time.Minute

	s.router = gin.New()
	s.router.Use(func(c *gin.Context) {
		c.Set(ContextCallerID, c.GetHeader("X-Caller"))
	})
	s.router.Use(RateLimit(NewLimiterStore(s.config)))
	s.router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
}

func (s *RateLimitTestSuite) request(caller string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Caller", caller)
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder.Code
}

func (s *RateLimitTestSuite) TestBurstThenThrottle() {
	for i := 0; i < 3; i++ {
		s.Equal(http.StatusOK, s.request("alice"))
	}
	s.Equal(http.StatusTooManyRequests, s.request("alice"))
}

func (s *RateLimitTestSuite) TestCallersAreIndependent() {
	for i := 0; i < 3; i++ {
		s.Equal(http.StatusOK, s.request("alice"))
	}
	s.Equal(http.StatusTooManyRequests, s.request("alice"))
	s.Equal(http.StatusOK, s.request("bob"))
}

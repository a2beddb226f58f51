package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
	"github.com/stretchr/testify/suite"
)

func TestAuthTestSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}

type AuthTestSuite struct {
	suite.Suite

	router *gin.Engine
}

const testSecret = "test-secret"

func (s *AuthTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *AuthTestSuite) SetupTest() {
	s.router = gin.New()
	s.router.Use(AuthBearer(testSecret))
	s.router.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, callerID(c))
	})
}

func (s *AuthTestSuite) sign(subject, secret string, expiration time.Time) string {
	token := jwt.New()
	s.NoError(token.Set(jwt.SubjectKey, subject))
	s.NoError(token.Set(jwt.ExpirationKey, expiration))

	signed, err := jwt.Sign(token, jwa.HS256, []byte(secret))
	s.NoError(err)
	return string(signed)
}

func (s *AuthTestSuite) request(authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, req)
	return recorder
}

func (s *AuthTestSuite) TestValidToken() {
	token := s.sign("alice", testSecret, time.Now().Add(time.Hour))
	resp := s.request("Bearer " + token)

	s.Equal(http.StatusOK, resp.Code)
	s.Equal("alice", resp.Body.String())
}

func (s *AuthTestSuite) TestMissingToken() {
	resp := s.request("")
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *AuthTestSuite) TestWrongSecret() {
	token := s.sign("alice", "other-secret", time.Now().Add(time.Hour))
	resp := s.request("Bearer " + token)
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *AuthTestSuite) TestExpiredToken() {
	token := s.sign("alice", testSecret, time.Now().Add(-time.Hour))
	resp := s.request("Bearer " + token)
	s.Equal(http.StatusUnauthorized, resp.Code)
}

func (s *AuthTestSuite) TestMissingSubject() {
	token := jwt.New()
	s.NoError(token.Set(jwt.ExpirationKey, time.Now().Add(time.Hour)))
	signed, err := jwt.Sign(token, jwa.HS256, []byte(testSecret))
	s.NoError(err)

	resp := s.request("Bearer " + string(signed))
	s.Equal(http.StatusUnauthorized, resp.Code)
}

package gateway

import (
	"errors"
	"net/http"
	"strings"

	. "github.com/safetrade/escrow-engine/src/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/jwa"
	"github.com/lestrrat-go/jwx/jwt"
)

// Caller id is carried in the token subject
const ContextCallerID = "caller_id"

var (
	ErrMissingToken  = errors.New("missing bearer token")
	ErrMissingCaller = errors.New("token has no subject")
)

// AuthBearer verifies the HS256 bearer token and stores the caller id
// in the request context. Identity management is external, the token
// subject is treated as an opaque caller reference.
func AuthBearer(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			LOGE(c, ErrMissingToken, http.StatusUnauthorized).Debug("Auth failed")
			return
		}

		token, err := jwt.Parse([]byte(raw),
			jwt.WithVerify(jwa.HS256, key),
			jwt.WithValidate(true))
		if err != nil {
			LOGE(c, err, http.StatusUnauthorized).Debug("Auth failed")
			return
		}

		if token.Subject() == "" {
			LOGE(c, ErrMissingCaller, http.StatusUnauthorized).Debug("Auth failed")
			return
		}

		c.Set(ContextCallerID, token.Subject())
		c.Next()
	}
}

func callerID(c *gin.Context) string {
	return c.GetString(ContextCallerID)
}

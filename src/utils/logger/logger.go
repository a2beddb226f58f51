package logger

import (
	"net/http"
	"os"

	"github.com/safetrade/escrow-engine/src/utils/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
}

func Init(config *config.Config) (err error) {
	level, err := logrus.ParseLevel(config.LogLevel)
	if err != nil {
		return
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)

	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logger.SetFormatter(formatter)

	return nil
}

func NewSublogger(tag string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{"module": "escrowd." + tag})
}

// LOG returns a request-scoped log entry for gin handlers
func LOG(c *gin.Context) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"module": "escrowd.gateway",
		"path":   c.FullPath(),
	})
}

// LOGE writes the error response and returns an entry for logging the cause.
// Used in handlers as: LOGE(c, err, http.StatusBadRequest).Error("...")
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	message := http.StatusText(status)
	if err != nil {
		message = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})

	entry := LOG(c)
	if err != nil {
		entry = entry.WithError(err)
	}
	return entry
}

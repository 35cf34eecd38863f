package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorLogWriter struct {
	gin.ResponseWriter
	log logrus.FieldLogger
	gc  *gin.Context
}

func (w errorLogWriter) Write(b []byte) (int, error) {
	status := w.gc.Writer.Status()
	if status >= 400 {
		w.log.WithFields(logrus.Fields{
			"status": status,
			"path":   w.gc.Request.URL.Path,
		}).Debugf("error body: %s", string(b))
	}
	return w.ResponseWriter.Write(b)
}

// ErrorLogMiddleware logs the body of error responses. It doesn't work with GZIP, so it is only
// installed in debug mode where compression is off.
func ErrorLogMiddleware(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer = &errorLogWriter{gc: c, log: log, ResponseWriter: c.Writer}
		c.Next()
	}
}

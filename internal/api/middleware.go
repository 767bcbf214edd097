package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/todos/internal/metrics"
)

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"route", metrics.Route(c),
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) recovered(c *gin.Context, v any) {
	s.logger.Error("panic serving request", "path", c.Request.URL.Path, "panic", fmt.Sprint(v))
	c.AbortWithStatusJSON(http.StatusInternalServerError, internalError())
}

func (s *Server) noRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorBody{
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path),
		Error:      http.StatusText(http.StatusNotFound),
	})
}

// Package httpapi exposes the tracker over HTTP. Handlers stay thin:
// they bind and validate transport input, call a service, and map the
// error taxonomy to status codes.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"classtrack/internal/apperr"
	"classtrack/internal/attendance"
	"classtrack/internal/auth"
	"classtrack/internal/metrics"
	"classtrack/internal/observability"
	"classtrack/internal/roster"
)

// Server holds the services the handlers dispatch to.
type Server struct {
	roster *roster.Service
	att    *attendance.Service
	log    *zap.Logger

	jwtIssuer  string
	jwtKey     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// New creates a server.
func New(rosterSvc *roster.Service, attSvc *attendance.Service, log *zap.Logger, jwtIssuer, jwtKey string, accessTTL, refreshTTL time.Duration) *Server {
	return &Server{
		roster:     rosterSvc,
		att:        attSvc,
		log:        log,
		jwtIssuer:  jwtIssuer,
		jwtKey:     jwtKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register mounts the public login route and the authenticated v1 API.
// The rate limiter runs after authentication so the bucket key is the
// teacher id; on the public login route it falls back to client IP.
func (s *Server) Register(r *gin.Engine, limit gin.HandlerFunc) {
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	r.POST("/v1/teachers/login", limit, s.login)

	v1 := r.Group("/v1", auth.TeacherAuth(s.jwtKey, s.jwtIssuer), limit)
	v1.POST("/classrooms", s.createClassroom)
	v1.GET("/classrooms", s.listClassrooms)
	v1.GET("/classrooms/:id", s.getClassroom)
	v1.DELETE("/classrooms/:id", s.deleteClassroom)
	v1.POST("/students", s.addStudent)
	v1.DELETE("/students/:id", s.deleteStudent)
	v1.POST("/students/copy", s.copyRoster)
	v1.POST("/attendance", s.submitAttendance)
	v1.GET("/attendance", s.listAttendance)
	v1.GET("/attendance/export", s.exportAttendance)
}

// fail maps a domain error to its HTTP shape. Internal causes go to logs
// and Sentry, never to the response body.
func (s *Server) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	metrics.HandlerErrors.WithLabelValues(kind.String()).Inc()

	status := http.StatusInternalServerError
	switch kind {
	case apperr.Unauthorized:
		status = http.StatusUnauthorized
	case apperr.Forbidden:
		status = http.StatusForbidden
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.InvalidInput:
		status = http.StatusBadRequest
	case apperr.Conflict:
		status = http.StatusConflict
	}

	if kind == apperr.Internal {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		observability.CaptureErr(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	msg := err.Error()
	var ae *apperr.Error
	if errors.As(err, &ae) {
		msg = ae.Msg
	}
	c.JSON(status, gin.H{"error": msg})
}

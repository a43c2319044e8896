package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/pathwise/internal/tutor"
)

// kindRateLimited marks responses rejected by the rate limiter.
const kindRateLimited tutor.Kind = "rate_limited"

// Envelope is the body of every API response.
type Envelope struct {
	Success        bool       `json:"success"`
	Response       any        `json:"response,omitempty"`
	UpdatedProfile any        `json:"updatedProfile,omitempty"`
	Message        string     `json:"message,omitempty"`
	Kind           tutor.Kind `json:"kind,omitempty"`
}

func respond(c *gin.Context, status int, v any) {
	c.JSON(status, Envelope{Success: true, Response: v})
}

func respondProfile(c *gin.Context, v any) {
	c.JSON(http.StatusOK, Envelope{Success: true, UpdatedProfile: v})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(k tutor.Kind) int {
	switch k {
	case tutor.KindInvalidRequest, tutor.KindValidation:
		return http.StatusBadRequest
	case tutor.KindNotFound:
		return http.StatusNotFound
	case tutor.KindMalformedGeneration:
		return http.StatusBadGateway
	case tutor.KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	case kindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// fail writes the error envelope for err. Internal errors are logged and
// their message is not exposed.
func (s *Server) fail(c *gin.Context, err error) {
	kind := tutor.KindOf(err)
	msg := err.Error()
	if kind == tutor.KindInternal {
		s.logger.Error("internal error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		msg = "internal error"
	}
	s.abort(c, kind, msg)
}

// badRequest rejects a body that could not be decoded.
func (s *Server) badRequest(c *gin.Context, err error) {
	s.abort(c, tutor.KindInvalidRequest, "malformed request body: "+err.Error())
}

func (s *Server) abort(c *gin.Context, kind tutor.Kind, msg string) {
	s.metrics.errors.WithLabelValues(string(kind)).Inc()
	c.AbortWithStatusJSON(statusFor(kind), Envelope{Message: msg, Kind: kind})
}

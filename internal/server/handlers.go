package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/alkime/writeablog/internal/blog"
	"github.com/alkime/writeablog/internal/premium"
	"github.com/alkime/writeablog/internal/render"
	"github.com/alkime/writeablog/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	formatMarkdown = "markdown"
	formatHTML     = "html"

	msgGenerationFailed = "generation failed, please retry"
)

type generateRequest struct {
	blog.Request
	Format string `json:"format"`
}

type generateResponse struct {
	blog.Result
	HTML string `json:"html,omitempty"`
}

type optionsResponse struct {
	Tones            []string `json:"tones"`
	WordCounts       []int    `json:"wordCounts"`
	DefaultWordCount int      `json:"defaultWordCount"`
	Premium          bool     `json:"premium"`
}

func (s *Server) handleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, optionsResponse{
		Tones:            blog.Tones,
		WordCounts:       blog.WordCounts,
		DefaultWordCount: blog.DefaultWordCount,
		Premium:          s.premium != nil,
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var body generateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	format := strings.ToLower(strings.TrimSpace(body.Format))
	if format == "" {
		format = formatMarkdown
	}
	if format != formatMarkdown && format != formatHTML {
		abortWithError(c, http.StatusBadRequest, "format must be markdown or html")
		return
	}

	req := body.Request.Normalize()
	if err := req.Validate(); err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.checkPremium(c, req); err != nil {
		s.logger.Info("Premium feature refused", "session_id", sessionID(c), "error", err)
		abortWithError(c, http.StatusPaymentRequired, premium.ErrPremiumRequired.Error())
		return
	}

	if s.generator == nil {
		abortWithError(c, http.StatusServiceUnavailable, "generator not configured")
		return
	}

	release, err := s.locker.Acquire(c.Request.Context(), sessionID(c))
	if err != nil {
		if errors.Is(err, session.ErrInFlight) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		s.logger.Error("Failed to acquire session lock", "session_id", sessionID(c), "error", err)
		abortWithError(c, http.StatusServiceUnavailable, "session store unavailable")
		return
	}
	defer release()

	res, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		s.logger.Error("Blog generation failed",
			"session_id", sessionID(c),
			"status", status,
			"error", err,
		)
		abortWithError(c, status, publicMessage(status, err))
		return
	}

	resp := generateResponse{Result: res}
	if format == formatHTML {
		html, err := render.ToHTML(res.Body)
		if err != nil {
			s.logger.Error("Failed to render markdown", "error", err)
			abortWithError(c, http.StatusInternalServerError, "failed to render post")
			return
		}
		resp.HTML = html
	}

	c.JSON(http.StatusOK, resp)
}

// checkPremium verifies the bearer token when req asks for a premium feature.
func (s *Server) checkPremium(c *gin.Context, req blog.Request) error {
	if s.premium == nil || (!req.IncludeImages && !req.IncludeResearch) {
		return nil
	}

	token, ok := premium.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		return premium.ErrPremiumRequired
	}

	claims, err := s.premium.Verify(token)
	if err != nil {
		return err
	}

	s.logger.Debug("Premium token accepted", "subject", claims.Subject)
	return nil
}

// statusForError maps generator errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, blog.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, blog.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage keeps validation details for 400s and hides upstream errors
// behind a fixed message; the full chain is only logged.
func publicMessage(status int, err error) string {
	if status == http.StatusBadRequest {
		return err.Error()
	}
	return msgGenerationFailed
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

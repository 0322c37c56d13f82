package server

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/webhook"
)

const maxWebhookBody = 1 << 20

type identityEvent struct {
	Type string                  `json:"type"`
	Data userdomain.IdentityUser `json:"data"`
}

// IdentityWebhook ingests signed user lifecycle events from the
// identity provider. Unverifiable deliveries are rejected before the
// payload is even parsed.
func (s *Server) IdentityWebhook(c *gin.Context) {
	if s.webhookVerifier == nil {
		AbortWithError(c, webhook.ErrInvalidSignature)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err = s.webhookVerifier.Verify(
		c.GetHeader("svix-id"),
		c.GetHeader("svix-timestamp"),
		c.GetHeader("svix-signature"),
		payload,
		s.clock.Now(),
	)
	if err != nil {
		s.recordWebhookEvent(c, "unknown", "rejected")
		AbortWithError(c, err)
		return
	}

	var event identityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	switch event.Type {
	case "user.created", "user.updated":
		if _, err := s.userSvc.Sync(ctx, event.Data); err != nil {
			s.recordWebhookEvent(c, event.Type, "error")
			AbortWithError(c, err)
			return
		}
	case "user.deleted":
		err := s.userSvc.Delete(ctx, event.Data.ExternalID)
		// Deleting an unknown user is a no-op, not a retryable failure.
		if err != nil && !errors.Is(err, userdomain.ErrNotFound) {
			s.recordWebhookEvent(c, event.Type, "error")
			AbortWithError(c, err)
			return
		}
	default:
		// Providers add event types; unknown ones are acknowledged so
		// they stop retrying.
		s.log.Debug("ignoring identity event", zap.String("type", event.Type))
	}

	s.recordWebhookEvent(c, event.Type, "processed")
	respondOK(c, gin.H{"received": true})
}

func (s *Server) recordWebhookEvent(c *gin.Context, eventType, status string) {
	if s.obsMetrics == nil {
		return
	}
	s.obsMetrics.RecordWebhookEvent(c.Request.Context(), eventType, status)
}

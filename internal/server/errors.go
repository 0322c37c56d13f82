package server

import (
	"errors"
	"net/http"

	analysisdomain "github.com/DevVaradPatil/resume-analyzer/internal/analysis/domain"
	paymentdomain "github.com/DevVaradPatil/resume-analyzer/internal/payment/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/pdf"
	resumedomain "github.com/DevVaradPatil/resume-analyzer/internal/resume/domain"
	subscriptiondomain "github.com/DevVaradPatil/resume-analyzer/internal/subscription/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/tier"
	usagedomain "github.com/DevVaradPatil/resume-analyzer/internal/usage/domain"
	userdomain "github.com/DevVaradPatil/resume-analyzer/internal/user/domain"
	"github.com/DevVaradPatil/resume-analyzer/internal/user/webhook"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate_limited")
	ErrUpstream     = errors.New("upstream_error")
)

// respondOK wraps successful payloads in the envelope the clients
// expect.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) {
		return vErr
	}
	return nil
}

// validationErrs maps domain sentinels that mean "the caller sent bad
// input" to the field a client should highlight.
var validationErrs = map[error]string{
	subscriptiondomain.ErrInvalidUserID:   "user_id",
	usagedomain.ErrInvalidUserID:          "user_id",
	resumedomain.ErrInvalidUserID:         "user_id",
	userdomain.ErrInvalidExternalID:       "user_id",
	userdomain.ErrInvalidEmail:            "email",
	usagedomain.ErrInvalidPeriodKey:       "period",
	tier.ErrInvalidTier:                   "tier",
	tier.ErrInvalidFeature:                "feature",
	analysisdomain.ErrEmptyResumeText:     "resume",
	analysisdomain.ErrEmptyJobDescription: "job_description",
	analysisdomain.ErrEmptySectionText:    "original_text",
	paymentdomain.ErrFreeTierOrder:        "tier",
	paymentdomain.ErrInvalidSignature:     "razorpay_signature",
	pdf.ErrInvalidPDF:                     "resume",
	pdf.ErrNoText:                         "resume",
	webhook.ErrMissingHeaders:             "headers",
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	for sentinel, field := range validationErrs {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: "validation error",
				Errors: []ValidationError{
					{Field: field, Code: sentinel.Error(), Message: sentinel.Error()},
				},
			}
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, webhook.ErrInvalidSignature),
		errors.Is(err, webhook.ErrStaleTimestamp):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, resumedomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many requests",
		}
	case errors.Is(err, ErrUpstream),
		errors.Is(err, analysisdomain.ErrMalformedResponse):
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_error",
			Message: "analysis provider error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

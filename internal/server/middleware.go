package server

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/DevVaradPatil/resume-analyzer/internal/userctx"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "_session"

type sessionClaims struct {
	Subject   string `json:"sub"`
	ExpiresAt int64  `json:"exp"`
}

// AuthMiddleware authenticates the caller from a bearer token or the
// session cookie the identity provider sets. The token is a compact
// HS256 JWT whose subject is the external user id.
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		userID, err := verifySessionToken(token, s.cfg.AuthJWTSecret, s.clock.Now())
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Set("user_id", userID)
		c.Request = c.Request.WithContext(userctx.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func verifySessionToken(token, secret string, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrUnauthorized
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", ErrUnauthorized
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(parts[0] + "." + parts[1]))
	expected := mac.Sum(nil)

	got, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil || !hmac.Equal(got, expected) {
		return "", ErrUnauthorized
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrUnauthorized
	}
	var claims sessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return "", ErrUnauthorized
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", ErrUnauthorized
	}
	if claims.ExpiresAt != 0 && now.Unix() >= claims.ExpiresAt {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}

func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

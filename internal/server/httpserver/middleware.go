package httpserver

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	ctxKeyProfile = "auth.profile"
	ctxKeyToken   = "auth.token"
)

func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.metrics.ObserveHTTP(c.Request.Method, path, status, elapsed)
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", elapsed.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		s.logger.Error(c.Request.Context(), "panic recovered", "panic", rec, "path", c.Request.URL.Path)
		abortWithError(c, http.StatusInternalServerError, codeInternal, msgInternal)
	})
}

// bearerToken extracts the credential from an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme := strings.TrimSpace(common.BearerScheme)
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// requireAuth resolves the bearer token to a profile. Missing, invalid,
// revoked and expired tokens all get the same 401 body.
func (s *HTTPServer) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(common.AuthorizationHeaderName))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, codeUnauthorized, msgUnauthorized)
			return
		}

		v := s.users.VerifyAndIdentify(c.Request.Context(), token)
		if v.Status != services.StatusOK || v.Profile == nil {
			s.logger.Debug(c.Request.Context(), "token rejected", "status", v.Status.String())
			abortWithError(c, http.StatusUnauthorized, codeUnauthorized, msgUnauthorized)
			return
		}

		c.Set(ctxKeyProfile, v.Profile)
		c.Set(ctxKeyToken, token)
		c.Next()
	}
}

func profileFrom(c *gin.Context) *models.Profile {
	p, _ := c.Get(ctxKeyProfile)
	profile, _ := p.(*models.Profile)
	return profile
}

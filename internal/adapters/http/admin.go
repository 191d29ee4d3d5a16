package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/dkeye/spotlight/internal/adapters/signal"
	"github.com/dkeye/spotlight/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const sessionAdmin = "admin"

// AdminSessionMiddleware marks the request as admin when no key is configured
// or the session cookie says so.
func AdminSessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok := cfg.AdminKey == ""
		if !ok {
			v, _ := sessions.Default(c).Get(sessionAdmin).(bool)
			ok = v
		}
		c.Set(signal.AdminKey, ok)
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(signal.AdminKey) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type loginRequest struct {
	Key string `json:"key"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
		return
	}
	if h.cfg.AdminKey != "" && subtle.ConstantTimeCompare([]byte(req.Key), []byte(h.cfg.AdminKey)) != 1 {
		log.Warn().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("admin login refused")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	s := sessions.Default(c)
	s.Set(sessionAdmin, true)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session"})
		return
	}
	log.Info().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("admin logged in")
	c.JSON(http.StatusOK, gin.H{"admin": true})
}

func (h *handlers) logout(c *gin.Context) {
	s := sessions.Default(c)
	s.Delete(sessionAdmin)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
	}
	c.JSON(http.StatusOK, gin.H{"admin": false})
}

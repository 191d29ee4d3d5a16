package http

import (
	"context"

	"github.com/dkeye/spotlight/internal/adapters/signal"
	"github.com/dkeye/spotlight/internal/app/orch"
	"github.com/dkeye/spotlight/internal/config"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

// SetupRouter wires the signaling socket, the JSON API and static pages.
// j may be nil when the journal is disabled.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, j JournalReader) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 12, HttpOnly: true})
	r.Use(sessions.Sessions("SpotlightSessions", store))
	r.Use(ClientTokenMiddleware())
	r.Use(AdminSessionMiddleware(cfg))

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})
	r.GET("/admin", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/admin.html")
	})
	r.GET(audiencePath, func(c *gin.Context) {
		c.File(cfg.StaticPath + "/audience.html")
	})
	r.GET("/healthz", handleHealth)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	h := &handlers{cfg: cfg, orch: o, journal: j}
	ctrl := signal.NewSignalWSController(o, cfg)

	api := r.Group("/api")
	api.GET("/ws/signal", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("client", c.GetString("client_token")).Msg("ws signal endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})
	api.GET("/rtc-config", h.rtcConfig)
	api.GET("/join-qr.png", h.joinQR)
	api.POST("/admin/login", h.login)
	api.POST("/admin/logout", h.logout)

	admin := api.Group("", RequireAdmin())
	admin.GET("/state", h.state)
	admin.GET("/stats", h.stats)
	admin.GET("/journal", h.journalEntries)

	return r
}

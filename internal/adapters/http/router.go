package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/modaverse/presence/internal/adapters/signal"
	"github.com/modaverse/presence/internal/app"
	"github.com/modaverse/presence/internal/config"
	"github.com/modaverse/presence/internal/domain"
)

func SetupRouter(ctx context.Context, cfg *config.Config, hub *app.Hub) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	ctrl := signal.NewController(cfg, hub)

	api := r.Group("/api")

	api.GET("/ws", func(c *gin.Context) {
		ctrl.HandleWS(ctx, c)
	})

	// Read-only presence surface for the upstream app: render "who's online"
	// without holding a socket.
	api.GET("/communities", func(c *gin.Context) {
		c.JSON(http.StatusOK, hub.Communities())
	})
	api.GET("/communities/:id/members", func(c *gin.Context) {
		cid := domain.CommunityID(c.Param("id"))
		c.JSON(http.StatusOK, gin.H{
			"communityId": cid,
			"members":     hub.Members(cid),
		})
	})

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}

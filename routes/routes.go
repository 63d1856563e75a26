package routes

import (
	"rightssphere/controllers"
	"rightssphere/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Log       *zap.Logger
	JWTSecret string

	Alerts     *controllers.AlertController
	Guides     *controllers.GuideController
	Recordings *controllers.RecordingController
	Cards      *controllers.RightsCardController
	Scripts    *controllers.ScriptController
	Contacts   *controllers.ContactController
	Health     *controllers.HealthController
	Realtime   *controllers.RealtimeController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger(d.Log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/health", d.Health.Health)
	r.GET("/api/catalog", controllers.GetCatalog)

	// Authenticates with ?token= itself.
	r.GET("/api/alerts/ws", d.Realtime.AlertsWS)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(d.JWTSecret))
	{
		api.POST("/alerts/send", d.Alerts.Send)
		api.GET("/alerts", d.Alerts.List)

		api.POST("/legal-guides/generate", d.Guides.Generate)
		api.GET("/legal-guides", d.Guides.Get)

		api.POST("/recordings/upload", d.Recordings.Upload)
		api.GET("/recordings", d.Recordings.List)

		api.POST("/share/rights-card", d.Cards.Create)
		api.GET("/share/rights-card", d.Cards.Get)

		api.POST("/scripts/generate", d.Scripts.Generate)
		api.GET("/scripts", d.Scripts.List)

		api.GET("/contacts/farcaster/search", d.Contacts.SearchFarcaster)
		api.GET("/contacts/farcaster/:fid", d.Contacts.FarcasterProfile)
		api.GET("/farcaster/casts/:hash", d.Contacts.FarcasterCast)
	}

	return r
}

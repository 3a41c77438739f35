package routes

import (
	"Bundespredict/internal/handlers"

	"github.com/gin-gonic/gin"
)

func PublicRoutes(r *gin.Engine, handler *handlers.Handler) {
	// Public routes
	r.GET("/ping", handler.PingHandler)

	// Landing page with rules and scoreboard
	r.GET("/", handler.GetLanding)

	// Submit username to start a session and set cookie
	r.POST("/game/start", handler.StartGame)

	// Scoreboard
	r.GET("/scoreboard", handler.GetScoreboard)
	r.GET("/api/scoreboard", handler.GetScoreboardJSON)
	r.GET("/ws/scoreboard", handler.WsScoreboard)

	// Admin reset checks its own bearer token
	if handler.AdminToken != "" {
		r.POST("/admin/scoreboard/reset", handler.ResetScoreboard)
	}
}

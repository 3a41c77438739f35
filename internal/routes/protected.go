package routes

import (
	"Bundespredict/internal/auth"
	"Bundespredict/internal/handlers"

	"github.com/gin-gonic/gin"
)

func ProtectedRoutes(r *gin.Engine, handler *handlers.Handler) {
	// Routes that need a running game session
	game := r.Group("/game").Use(auth.JwtAuthMiddleware(handler.Secret))

	game.GET("", handler.GetGame)
	game.GET("/radar", handler.GetRadar)
	game.POST("/predict", handler.Predict)
	game.POST("/next", handler.NextMatch)
	game.POST("/new", handler.NewGame)
}

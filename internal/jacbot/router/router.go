// Package router wires the chatbot routes onto a gin engine.
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/jac-chandigarh/jacbot/internal/jacbot/handler"
)

// New builds the gin engine with CORS open to any origin, matching the
// public-facing frontend deployments.
func New(chatHandler *handler.ChatHandler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	engine.GET("/chatbot", chatHandler.NewSession)
	engine.POST("/ask", chatHandler.Ask)
	engine.GET("/inspect/:name", chatHandler.Inspect)
	engine.GET("/health", chatHandler.Health)

	logger.Info("HTTP routes registered")
	return engine
}

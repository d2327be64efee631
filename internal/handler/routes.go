package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Register mounts the gateway routes on router.
func (g *ChatGateway) Register(router *gin.Engine) {
	router.GET("/ws/chat", g.HandleChat)

	api := router.Group("/api")
	{
		api.GET("/history", g.GetConversationHistory)
		api.GET("/plans", g.GetPlanHistory)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

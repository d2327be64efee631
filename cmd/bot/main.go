package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"FouserBot/internal/config"
	"FouserBot/internal/handler"
	"FouserBot/internal/llm"
	"FouserBot/internal/middleware"
	"FouserBot/internal/orchestrator"
	"FouserBot/internal/storage"
	"FouserBot/internal/transport/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("main(): invalid configuration: ", err)
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("main(): failed to open database: ", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("main(): failed to configure Gemini client: ", err)
	}

	orch := orchestrator.New(model, store, store, store)

	bot, err := telegram.New(cfg.TelegramToken, orch)
	if err != nil {
		log.Fatal("main(): failed to start telegram bot: ", err)
	}
	go bot.Run(ctx)

	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	router.Use(cors.New(corsConfig))
	router.Use(middleware.RateLimitMiddleware())

	handler.NewChatGateway(orch, store).Register(router)

	log.Fatal(router.Run(cfg.HTTPAddr))
}

// Package telegram is the primary chat transport: long polling, command
// routing and typing indicators. All conversation logic lives in the
// orchestrator; per-user ordering is enforced there too, so every update
// can be handled on its own goroutine.
package telegram

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"FouserBot/internal/orchestrator"
)

type Bot struct {
	api  *tgbotapi.BotAPI
	orch *orchestrator.Orchestrator
}

func New(token string, orch *orchestrator.Orchestrator) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram: failed to connect: %w", err)
	}
	return &Bot{api: api, orch: orch}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)
	log.Printf("Run(): telegram bot @%s is polling", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			log.Printf("Run(): telegram bot stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID
	log.Printf("handleMessage(): user %d message: %s", userID, msg.Text)

	var reply string
	if msg.IsCommand() && msg.Command() == "reset" {
		reply = b.orch.Reset(userID)
	} else {
		// Typing indicator before the model round-trip; /start goes through
		// the normal flow so it triggers the bootstrap like any first message.
		if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
			log.Printf("handleMessage(): failed to send typing action to chat %d: %v", chatID, err)
		}
		reply = b.orch.HandleMessage(ctx, userID, msg.Text)
	}

	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
		log.Printf("handleMessage(): failed to send reply to chat %d: %v", chatID, err)
	}
}

package services

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// botSender is the part of tgbotapi.BotAPI used here.
type botSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type TelegramService struct {
	bot botSender
}

// NewTelegramService connects to the Bot API. An empty token yields a
// service that silently skips every message.
func NewTelegramService(botToken string) (*TelegramService, error) {
	if botToken == "" {
		return &TelegramService{}, nil
	}
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	log.Printf("[tg][init] authorized as @%s", bot.Self.UserName)
	return &TelegramService{bot: bot}, nil
}

func (t *TelegramService) Enabled() bool {
	return t != nil && t.bot != nil
}

func (t *TelegramService) SendMessage(chatID int64, text string) error {
	if !t.Enabled() || chatID == 0 {
		log.Printf("[tg][skip] bot disabled or chatID empty (chatID=%d)", chatID)
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		log.Printf("[tg][send][err] chatID=%d: %v", chatID, err)
		return fmt.Errorf("telegram sendMessage failed: %w", err)
	}
	log.Printf("[tg][send][ok] chatID=%d", chatID)
	return nil
}

package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/telegram"
)

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	welcomeText := `💐 *Welcome to the florist back office!*

I keep an eye on your bookings and tell you what needs attention: upcoming events, incomplete teams, florists who have not answered, unpaid invoices and clients to follow up.

Use /reminders to see what is due and /help for every command.`

	if err := send(bot, message.Chat.ID, welcomeText); err != nil {
		return fmt.Errorf("failed to send start message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
	}).Info("Sent start message")

	return nil
}

package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/telegram"
)

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(_ context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	helpText := `📚 *Help*

*Reminders:*
• /reminders - Unread reminders
• /reminders all - Include reminders already read
• /reminders urgent - Only urgent ones (also high, medium, low)
• /read <id> - Mark a reminder as read
• /dismiss <id> - Hide a reminder for good

*Bookings:*
• /board - Events per board column
• /upcoming [days] - Events in the next days (default 7)

_Reminder ids are shown under each reminder._`

	if err := send(bot, message.Chat.ID, helpText); err != nil {
		return fmt.Errorf("failed to send help message: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
	}).Info("Sent help message")

	return nil
}

package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/reminders"
	"github.com/Kerhoff/floristbot/internal/service"
	"github.com/Kerhoff/floristbot/internal/telegram"
)

// Callback data prefixes of the reminder keyboard
const (
	CallbackRead    = "read"
	CallbackDismiss = "dismiss"
)

const maxListedReminders = 10

// RemindersHandler handles the /reminders command
type RemindersHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewRemindersHandler(svc *service.Service, logger *logrus.Logger) *RemindersHandler {
	return &RemindersHandler{svc: svc, logger: logger}
}

func (h *RemindersHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	unreadOnly := true
	minPriority := models.ReminderPriorityLow
	for _, arg := range args {
		arg = strings.ToLower(arg)
		if arg == "all" {
			unreadOnly = false
			continue
		}
		p := models.ReminderPriority(arg)
		if p.Rank() > models.ReminderPriorityLow.Rank() {
			return send(bot, message.Chat.ID, "Usage: /reminders [all] [urgent|high|medium|low]")
		}
		minPriority = p
	}

	rs, err := h.svc.Reminders(ctx)
	if err != nil {
		return fmt.Errorf("evaluate reminders: %w", err)
	}
	rs = reminders.Filter(rs, minPriority, unreadOnly)

	if len(rs) == 0 {
		return send(bot, message.Chat.ID, "🎉 Nothing needs your attention.")
	}

	shown := rs
	if len(shown) > maxListedReminders {
		shown = shown[:maxListedReminders]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔔 *Reminders* (%d)\n", len(rs))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(shown))
	for i, r := range shown {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, FormatReminder(r))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("👁 Read %d", i+1), CallbackRead+":"+r.ID),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✖ Dismiss %d", i+1), CallbackDismiss+":"+r.ID),
		))
	}
	if extra := len(rs) - len(shown); extra > 0 {
		fmt.Fprintf(&b, "\n_…and %d more_", extra)
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, b.String())
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminders: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": message.Chat.ID,
		"count":   len(rs),
	}).Info("Sent reminders")
	return nil
}

// ReminderStateHandler serves /read and /dismiss and the matching keyboard
// buttons.
type ReminderStateHandler struct {
	svc    *service.Service
	logger *logrus.Logger
	kind   models.ReminderStateKind
}

func NewReadHandler(svc *service.Service, logger *logrus.Logger) *ReminderStateHandler {
	return &ReminderStateHandler{svc: svc, logger: logger, kind: models.ReminderStateRead}
}

func NewDismissHandler(svc *service.Service, logger *logrus.Logger) *ReminderStateHandler {
	return &ReminderStateHandler{svc: svc, logger: logger, kind: models.ReminderStateDismissed}
}

func (h *ReminderStateHandler) apply(ctx context.Context, id string) error {
	if h.kind == models.ReminderStateDismissed {
		return h.svc.DismissReminder(ctx, id)
	}
	return h.svc.MarkReminderRead(ctx, id)
}

func (h *ReminderStateHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return send(bot, message.Chat.ID, fmt.Sprintf("Usage: /%s <reminder id>", h.command()))
	}

	if err := h.apply(ctx, args[0]); err != nil {
		return fmt.Errorf("%s reminder: %w", h.command(), err)
	}
	return send(bot, message.Chat.ID, fmt.Sprintf("✅ Reminder %s %s", code(args[0]), h.kind))
}

func (h *ReminderStateHandler) HandleCallback(ctx context.Context, bot telegram.Sender, query *tgbotapi.CallbackQuery, payload string) error {
	if err := h.apply(ctx, payload); err != nil {
		return fmt.Errorf("%s reminder: %w", h.command(), err)
	}

	if _, err := bot.Request(tgbotapi.NewCallback(query.ID, "Reminder "+string(h.kind))); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

func (h *ReminderStateHandler) command() string {
	if h.kind == models.ReminderStateDismissed {
		return CallbackDismiss
	}
	return CallbackRead
}

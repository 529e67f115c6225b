package handlers

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Kerhoff/floristbot/internal/models"
	"github.com/Kerhoff/floristbot/internal/telegram"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

// code wraps s in a Markdown code span. Backticks cannot be escaped inside
// one, so they are replaced.
func code(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "'") + "`"
}

func priorityIcon(p models.ReminderPriority) string {
	switch p {
	case models.ReminderPriorityUrgent:
		return "🔴"
	case models.ReminderPriorityHigh:
		return "🟠"
	case models.ReminderPriorityMedium:
		return "🟡"
	default:
		return "⚪"
	}
}

var statusLabels = map[models.EventStatus]string{
	models.EventStatusDraft:      "📝 Draft",
	models.EventStatusPlanning:   "🗂 Planning",
	models.EventStatusConfirmed:  "✅ Confirmed",
	models.EventStatusInProgress: "🌸 In progress",
	models.EventStatusCompleted:  "🏁 Completed",
	models.EventStatusInvoiced:   "🧾 Invoiced",
	models.EventStatusPaid:       "💶 Paid",
	models.EventStatusCancelled:  "🚫 Cancelled",
}

func statusLabel(s models.EventStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// FormatReminder renders one reminder as a Markdown chat message
func FormatReminder(r models.Reminder) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s *%s*\n%s", priorityIcon(r.Priority), escape(r.Title), escape(r.Description))
	if r.ActionType != models.ActionNavigate && r.ActionData != "" {
		fmt.Fprintf(&b, "\n📞 %s: %s", r.ActionType, escape(r.ActionData))
	}
	b.WriteString("\n" + code(r.ID))
	return b.String()
}

func formatEventLine(e *models.Event) string {
	line := fmt.Sprintf("• %s · %s", escape(e.Date), escape(e.Title))
	if e.Venue != "" {
		line += " @ " + escape(e.Venue)
	}
	if e.FloristsRequired > 0 {
		line += fmt.Sprintf(" (%d/%d 💐)", e.ConfirmedCount(), e.FloristsRequired)
	}
	return line
}

func send(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

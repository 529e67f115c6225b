package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/service"
	"github.com/Kerhoff/floristbot/internal/telegram"
)

const (
	maxEventsPerColumn  = 5
	defaultUpcomingDays = 7
	maxUpcomingDays     = 90
)

// BoardHandler handles the /board command
type BoardHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewBoardHandler(svc *service.Service, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{svc: svc, logger: logger}
}

func (h *BoardHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, _ []string) error {
	b, err := h.svc.Board(ctx)
	if err != nil {
		return fmt.Errorf("build board: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("📋 *Board*\n")
	empty := true
	for _, col := range b.Columns {
		if len(col.Events) == 0 {
			continue
		}
		empty = false
		fmt.Fprintf(&sb, "\n*%s* (%d)\n", statusLabel(col.Status), len(col.Events))
		for i, e := range col.Events {
			if i == maxEventsPerColumn {
				fmt.Fprintf(&sb, "_…and %d more_\n", len(col.Events)-maxEventsPerColumn)
				break
			}
			sb.WriteString(formatEventLine(e) + "\n")
		}
	}
	if empty {
		sb.WriteString("\nNo events yet.")
	}

	return send(bot, message.Chat.ID, sb.String())
}

// UpcomingHandler handles the /upcoming command
type UpcomingHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

func NewUpcomingHandler(svc *service.Service, logger *logrus.Logger) *UpcomingHandler {
	return &UpcomingHandler{svc: svc, logger: logger}
}

func (h *UpcomingHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	days := defaultUpcomingDays
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 || n > maxUpcomingDays {
			return send(bot, message.Chat.ID, fmt.Sprintf("Usage: /upcoming [days], at most %d", maxUpcomingDays))
		}
		days = n
	}

	events, err := h.svc.Upcoming(ctx, days)
	if err != nil {
		return fmt.Errorf("list upcoming events: %w", err)
	}

	if len(events) == 0 {
		return send(bot, message.Chat.ID, fmt.Sprintf("📅 No events in the next %d days.", days))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 *Next %d days*\n\n", days)
	for _, e := range events {
		sb.WriteString(formatEventLine(e) + "\n")
	}
	return send(bot, message.Chat.ID, sb.String())
}

package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of *tgbotapi.BotAPI handlers need
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles inline keyboard presses. Callback data has the form
// "<prefix>:<payload>"; only the payload is passed on.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery, payload string) error
}

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
	admins    map[int64]struct{}
}

// NewRouter creates a new message router. Only the given chats may use the
// bot.
func NewRouter(logger *logrus.Logger, adminChats []int64) *Router {
	admins := make(map[int64]struct{}, len(adminChats))
	for _, id := range adminChats {
		admins[id] = struct{}{}
	}
	return &Router{
		logger:    logger,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
		admins:    admins,
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a handler for callback data starting with prefix
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
	r.logger.Debugf("Registered callback: %s", prefix)
}

// IsAllowed reports whether chatID is an admin chat
func (r *Router) IsAllowed(chatID int64) bool {
	_, ok := r.admins[chatID]
	return ok
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(ctx context.Context, bot Sender, message *tgbotapi.Message) {
	if message.Chat == nil {
		return
	}

	fields := logrus.Fields{
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}

	// Only commands are processed
	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())
	fields["command"] = command
	r.logger.WithFields(fields).Info("Received command")

	if !r.IsAllowed(message.Chat.ID) {
		r.logger.WithFields(fields).Warn("Command from unauthorized chat")
		r.reply(bot, message.Chat.ID, fmt.Sprintf("🚫 This chat (id %d) is not allowed to use this bot.", message.Chat.ID))
		return
	}

	handler, exists := r.handlers[command]
	if !exists {
		r.logger.WithFields(fields).Warn("Unknown command")
		r.reply(bot, message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		return
	}

	if err := handler.Handle(ctx, bot, message, args); err != nil {
		fields["error"] = err
		r.logger.WithFields(fields).Error("Command handler failed")
		r.reply(bot, message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery) {
	fields := logrus.Fields{
		"callback_id": query.ID,
		"data":        query.Data,
	}
	if query.From != nil {
		fields["user_id"] = query.From.ID
	}
	r.logger.WithFields(fields).Info("Received callback query")

	message := query.Message
	if message == nil || message.Chat == nil || !r.IsAllowed(message.Chat.ID) {
		r.answer(bot, query.ID, "Not allowed")
		return
	}

	prefix, payload, _ := strings.Cut(query.Data, ":")
	handler, exists := r.callbacks[prefix]
	if !exists {
		r.logger.WithFields(fields).Warn("Unknown callback")
		r.answer(bot, query.ID, "")
		return
	}

	if err := handler.HandleCallback(ctx, bot, query, payload); err != nil {
		fields["error"] = err
		r.logger.WithFields(fields).Error("Callback handler failed")
		r.answer(bot, query.ID, "Something went wrong")
	}
}

func (r *Router) reply(bot Sender, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.Errorf("Failed to send message: %v", err)
	}
}

func (r *Router) answer(bot Sender, callbackID, text string) {
	if _, err := bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		r.logger.Errorf("Failed to answer callback: %v", err)
	}
}

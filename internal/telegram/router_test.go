package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/floristbot/pkg/logger"
)

type recordingSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *recordingSender) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.sent)
	msg, ok := s.sent[len(s.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	return msg.Text
}

type stubHandler struct {
	args    []string
	payload string
	err     error
}

func (h *stubHandler) Handle(_ context.Context, _ Sender, _ *tgbotapi.Message, args []string) error {
	h.args = args
	return h.err
}

func (h *stubHandler) HandleCallback(_ context.Context, _ Sender, _ *tgbotapi.CallbackQuery, payload string) error {
	h.payload = payload
	return h.err
}

func command(chatID int64, text string) *tgbotapi.Message {
	end := len(text)
	for i, c := range text {
		if c == ' ' {
			end = i
			break
		}
	}
	return &tgbotapi.Message{
		MessageID: 1,
		Chat:      &tgbotapi.Chat{ID: chatID},
		From:      &tgbotapi.User{ID: 7, UserName: "owner"},
		Text:      text,
		Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}},
	}
}

func TestRouterDispatchesCommandsFromAdminChats(t *testing.T) {
	r := NewRouter(logger.Discard(), []int64{100})
	h := &stubHandler{}
	r.RegisterCommand("dismiss", h)
	bot := &recordingSender{}

	r.HandleMessage(context.Background(), bot, command(100, "/dismiss today-e1"))

	require.Equal(t, []string{"today-e1"}, h.args)
	require.Empty(t, bot.sent)
}

func TestRouterRejectsOtherChats(t *testing.T) {
	r := NewRouter(logger.Discard(), []int64{100})
	h := &stubHandler{}
	r.RegisterCommand("board", h)
	bot := &recordingSender{}

	r.HandleMessage(context.Background(), bot, command(200, "/board"))

	require.Nil(t, h.args)
	require.Contains(t, bot.lastText(t), "200")
}

func TestRouterUnknownCommandAndFailures(t *testing.T) {
	r := NewRouter(logger.Discard(), []int64{100})
	r.RegisterCommand("board", &stubHandler{err: errors.New("db down")})
	bot := &recordingSender{}

	r.HandleMessage(context.Background(), bot, command(100, "/nope"))
	require.Contains(t, bot.lastText(t), "Unknown command")

	r.HandleMessage(context.Background(), bot, command(100, "/board"))
	require.Contains(t, bot.lastText(t), "error occurred")

	r.HandleMessage(context.Background(), bot, &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}, Text: "hello"})
	require.Len(t, bot.sent, 2)
}

func TestRouterCallbacks(t *testing.T) {
	r := NewRouter(logger.Discard(), []int64{100})
	h := &stubHandler{}
	r.RegisterCallback("read", h)
	bot := &recordingSender{}

	query := &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 7},
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
		Data:    "read:team-incomplete-e1",
	}
	r.HandleCallbackQuery(context.Background(), bot, query)
	require.Equal(t, "team-incomplete-e1", h.payload)

	query.Message.Chat.ID = 200
	query.Data = "read:other"
	r.HandleCallbackQuery(context.Background(), bot, query)
	require.Equal(t, "team-incomplete-e1", h.payload)
	require.Len(t, bot.requests, 1)
}

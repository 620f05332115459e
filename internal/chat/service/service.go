package service

import (
	"context"

	"github.com/blogchat/backend/internal/chat/domain"
	"github.com/blogchat/backend/internal/common/clock"
	"github.com/blogchat/backend/internal/common/logger"
	"github.com/blogchat/backend/internal/observability/metrics"
	"github.com/blogchat/backend/internal/realtime"
	userdomain "github.com/blogchat/backend/internal/user/domain"
)

type EventPublisher interface {
	Publish(event string, payload any)
}

type ChatService struct {
	messages  *MessageLog
	publisher EventPublisher
	clock     clock.Clock
	log       *logger.Logger
}

func NewChatService(messages *MessageLog, publisher EventPublisher, clock clock.Clock, log *logger.Logger) *ChatService {
	return &ChatService{
		messages:  messages,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

type SendInput struct {
	Text       string
	AuthorID   userdomain.ID
	AuthorName string
}

func (s *ChatService) Send(ctx context.Context, input SendInput) domain.Message {
	msg := domain.Message{
		Text:       input.Text,
		AuthorID:   input.AuthorID,
		AuthorName: input.AuthorName,
		Timestamp:  s.clock.Now(),
	}

	s.messages.Append(msg)

	metrics.ChatMessagesCreated.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"author": string(msg.AuthorID),
		"action": "chat_message_sent",
	}).Info("chat message sent")

	s.publisher.Publish(realtime.EventNewMessage, NewMessageEvent(msg))

	return msg
}

func (s *ChatService) History(ctx context.Context) []domain.Message {
	_ = ctx
	return s.messages.List()
}

// MessageEvent is the projection broadcast on each new chat message.
type MessageEvent struct {
	Text      string `json:"text"`
	AuthorID  string `json:"authorId"`
	Name      string `json:"name"`
	Timestamp string `json:"timestamp"`
}

func NewMessageEvent(msg domain.Message) MessageEvent {
	return MessageEvent{
		Text:      msg.Text,
		AuthorID:  string(msg.AuthorID),
		Name:      msg.AuthorName,
		Timestamp: msg.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	}
}

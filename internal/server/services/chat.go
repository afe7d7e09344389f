package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/corechat/internal/common"
	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/dmitrijs2005/corechat/internal/server/completion"
	"github.com/dmitrijs2005/corechat/internal/server/models"
)

// EmptyReplyFallback replaces a blank model reply so that no empty assistant
// turn is stored.
const EmptyReplyFallback = "I apologize, but I couldn't generate a response."

// Exchange is the pair of messages stored for one submitted turn.
type Exchange struct {
	UserMessage      *models.Message `json:"userMessage"`
	AssistantMessage *models.Message `json:"assistantMessage"`
}

// ChatService runs one user turn through the model: it stores the user
// message, sends the whole history behind the system preamble, then stores
// the reply.
type ChatService struct {
	store        *ConversationStore
	client       completion.Client
	systemPrompt string
	logger       logging.Logger
}

func NewChatService(store *ConversationStore, client completion.Client, systemPrompt string, logger logging.Logger) *ChatService {
	return &ChatService{
		store:        store,
		client:       client,
		systemPrompt: systemPrompt,
		logger:       logger.With("module", "chat"),
	}
}

// Submit handles one inbound turn. If the model call fails the user message
// stays stored, no assistant message is written and the returned error wraps
// both common.ErrCompletionFailure and the provider error.
func (s *ChatService) Submit(ctx context.Context, role models.Role, content string) (*Exchange, error) {

	if role != models.RoleUser {
		return nil, fmt.Errorf("%w: role must be %q", common.ErrInvalidInput, models.RoleUser)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", common.ErrInvalidInput)
	}

	userMsg, err := s.store.Append(ctx, models.RoleUser, content)
	if err != nil {
		return nil, err
	}

	history, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	turns := make([]completion.Turn, 0, len(history)+1)
	turns = append(turns, completion.Turn{Role: completion.RoleSystem, Content: s.systemPrompt})
	for _, m := range history {
		turns = append(turns, completion.Turn{Role: string(m.Role), Content: m.Content})
	}

	reply, err := s.client.Complete(ctx, turns)
	if err != nil {
		s.logger.Warn(ctx, "completion failed, user message kept", "message_id", userMsg.ID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrCompletionFailure, err)
	}

	if strings.TrimSpace(reply) == "" {
		reply = EmptyReplyFallback
	}

	assistantMsg, err := s.store.Append(ctx, models.RoleAssistant, reply)
	if err != nil {
		return nil, err
	}

	return &Exchange{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// History returns the stored conversation, oldest first.
func (s *ChatService) History(ctx context.Context) ([]models.Message, error) {
	return s.store.List(ctx)
}

// Clear wipes the conversation.
func (s *ChatService) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "conversation cleared")
	return nil
}

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/RichardoC/padchat/internal/db"
	"github.com/RichardoC/padchat/internal/llm"
	"github.com/RichardoC/padchat/internal/models"
	"go.uber.org/zap"
)

// DefaultMaxImageBase64Bytes is the encoded size of a 5 MiB image.
const DefaultMaxImageBase64Bytes = 7 * 1024 * 1024

// PlaceholderTitle names a conversation until its title is generated.
const PlaceholderTitle = llm.DefaultTitle

// ImageTooLargeMessage is returned when an attached image exceeds the limit.
const ImageTooLargeMessage = "حجم الصورة كبير جداً. الحد الأقصى 5 ميجابايت"

const (
	msgEmptyTurn    = "الرسالة أو الصورة مطلوبة"
	msgInvalidImage = "صيغة الصورة غير صالحة"
	msgEmptyTitle   = "العنوان مطلوب"
)

// Inference generates replies and titles.
type Inference interface {
	Complete(ctx context.Context, history []llm.Turn, image string) (string, error)
	SummarizeTitle(ctx context.Context, text string) (string, error)
}

type TurnRequest struct {
	ConversationID string
	Message        string
	ImageBase64    string
}

type TurnResult struct {
	ConversationID string
	Response       string
}

type Service struct {
	store         db.Store
	inference     Inference
	logger        *zap.Logger
	maxImageBytes int

	titles sync.WaitGroup
}

type Option func(*Service)

// WithMaxImageBytes limits the encoded length of an attached image.
func WithMaxImageBytes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxImageBytes = n
		}
	}
}

func NewService(store db.Store, inference Inference, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:         store,
		inference:     inference,
		logger:        logger,
		maxImageBytes: DefaultMaxImageBase64Bytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HandleChatTurn persists the user's message, generates the assistant reply
// and persists it. A new conversation is created when req.ConversationID is
// empty; its title is generated in the background.
//
// If inference fails the user message stays stored and the error is
// returned.
func (s *Service) HandleChatTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Message)
	image := strings.TrimSpace(req.ImageBase64)

	if text == "" && image == "" {
		return nil, invalid(msgEmptyTurn)
	}
	if len(image) > s.maxImageBytes {
		return nil, invalid(ImageTooLargeMessage)
	}
	if image != "" {
		normalized, err := llm.NormalizeImage(image)
		if err != nil {
			return nil, invalid(msgInvalidImage)
		}
		image = normalized
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conv, err := s.store.CreateConversation(ctx, PlaceholderTitle)
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		conversationID = conv.ID

		titleInput := text
		if image != "" {
			titleInput = imageTitlePrefix + text
		}
		s.generateTitle(context.WithoutCancel(ctx), conversationID, titleInput)
	} else if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}

	content := text
	if image != "" {
		content = withImageMarker(text)
	}
	if _, err := s.store.CreateMessage(ctx, models.NewMessage{
		ConversationID: conversationID,
		Role:           models.RoleUser,
		Content:        content,
	}); err != nil {
		return nil, fmt.Errorf("save user message: %w", err)
	}

	history, err := s.store.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	reply, err := s.inference.Complete(ctx, toTurns(history), image)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	if _, err := s.store.CreateMessage(ctx, models.NewMessage{
		ConversationID: conversationID,
		Role:           models.RoleAssistant,
		Content:        reply,
	}); err != nil {
		return nil, fmt.Errorf("save assistant message: %w", err)
	}

	return &TurnResult{ConversationID: conversationID, Response: reply}, nil
}

func toTurns(history []models.Message) []llm.Turn {
	turns := make([]llm.Turn, len(history))
	for i, m := range history {
		turns[i] = llm.Turn{Role: string(m.Role), Content: StripImageMarker(m.Content)}
	}
	return turns
}

// generateTitle summarizes text into the conversation title without
// blocking the caller. Failures are logged and dropped.
func (s *Service) generateTitle(ctx context.Context, conversationID, text string) {
	s.titles.Add(1)
	go func() {
		defer s.titles.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("title generation panicked",
					zap.String("conversationID", conversationID),
					zap.Any("panic", r))
			}
		}()

		title, err := s.inference.SummarizeTitle(ctx, text)
		if err != nil {
			s.logger.Error("failed to generate conversation title",
				zap.String("conversationID", conversationID),
				zap.Error(err))
			return
		}

		if err := s.store.UpdateConversationTitle(ctx, conversationID, title); err != nil {
			s.logger.Warn("failed to update conversation title",
				zap.String("conversationID", conversationID),
				zap.Error(err))
			return
		}
		s.logger.Debug("conversation titled",
			zap.String("conversationID", conversationID),
			zap.String("title", title))
	}()
}

// Wait blocks until in-flight title jobs finish or ctx is done.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.titles.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) ListConversations(ctx context.Context) ([]models.Conversation, error) {
	return s.store.GetConversations(ctx)
}

func (s *Service) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

// ListMessages returns ErrNotFound when the conversation does not exist.
func (s *Service) ListMessages(ctx context.Context, conversationID string) ([]models.Message, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.store.GetMessages(ctx, conversationID)
}

// DeleteConversation removes the conversation and its messages. Deleting an
// unknown id succeeds.
func (s *Service) DeleteConversation(ctx context.Context, id string) error {
	return s.store.DeleteConversation(ctx, id)
}

func (s *Service) RenameConversation(ctx context.Context, id, title string) (*models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid(msgEmptyTitle)
	}
	if err := s.store.UpdateConversationTitle(ctx, id, title); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rename conversation: %w", err)
	}
	return s.store.GetConversation(ctx, id)
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"news_hub/internal/domain"
)

// ChatContextLimit is the number of stored articles placed in a chat prompt.
const ChatContextLimit = 20

// ChatService answers questions about stored news through the assistant,
// keeping a rolling per-session history.
type ChatService struct {
	articles      ArticleReader
	assistant     Assistant
	conversations ConversationStore
	historyLimit  int
	logger        *slog.Logger
}

func NewChatService(
	articles ArticleReader,
	assistant Assistant,
	conversations ConversationStore,
	historyLimit int,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		articles:      articles,
		assistant:     assistant,
		conversations: conversations,
		historyLimit:  historyLimit,
		logger:        logger.With("component", "chat"),
	}
}

// Reply answers req.Message using the articles of req.Date, narrowed to
// req.Category when set, and records the exchange in the session history.
func (s *ChatService) Reply(ctx context.Context, req domain.ChatRequest) (string, error) {
	if s.assistant == nil {
		return "", fmt.Errorf("%w: assistant", ErrUnavailable)
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	if req.Category != "" && !req.Category.Valid() {
		return "", fmt.Errorf("%w: unknown category %q", ErrInvalidRequest, req.Category)
	}

	articles, err := s.contextArticles(ctx, req)
	if err != nil {
		return "", err
	}

	conversation := s.conversations.Load(req.SessionID)
	prompt := buildPrompt(articles, conversation.History, message)

	reply, err := s.assistant.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("assistant request failed", "session_id", req.SessionID, "error", err)
		return "", fmt.Errorf("complete chat: %w", err)
	}

	conversation.SessionID = req.SessionID
	conversation.Append(message, reply, s.historyLimit)
	s.conversations.Save(conversation)

	s.logger.Debug("chat reply",
		"session_id", req.SessionID,
		"date", req.Date.Format(domain.DateLayout),
		"category", req.Category,
		"context_articles", len(articles),
	)
	return reply, nil
}

func (s *ChatService) contextArticles(ctx context.Context, req domain.ChatRequest) ([]domain.Article, error) {
	var (
		articles []domain.Article
		err      error
	)
	if req.Category != "" {
		articles, err = s.articles.ListByCategoryAndDate(ctx, req.Category, req.Date, ChatContextLimit)
	} else {
		articles, err = s.articles.ListByDate(ctx, req.Date, ChatContextLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("load chat context: %w", err)
	}
	return articles, nil
}

func buildPrompt(articles []domain.Article, history, message string) string {
	var b strings.Builder

	b.WriteString("You are a news assistant. Answer using the news articles below.\n\n")
	b.WriteString("News articles:\n")
	if len(articles) == 0 {
		b.WriteString("(no articles stored for this date)\n")
	}
	for _, a := range articles {
		fmt.Fprintf(&b, "- [%s] %s", a.Category, a.Title)
		if a.Description != nil && *a.Description != "" {
			fmt.Fprintf(&b, ": %s", *a.Description)
		}
		fmt.Fprintf(&b, " (%s)\n", a.URL)
	}

	if history != "" {
		b.WriteString("\nConversation so far:\n")
		b.WriteString(history)
	}

	fmt.Fprintf(&b, "\nUser: %s\nAI:", message)
	return b.String()
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
	"librarium/internal/llm"
)

// Completer is the slice of the LLM client these features need.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// chatFallback is returned whenever the model call fails; the chatbot
// endpoint never surfaces an error status.
const chatFallback = "Sorry, I'm having trouble answering right now. Please try again in a moment."

const maxRecommendations = 3

const chatSystemPrompt = "You are a helpful assistant for a library. " +
	"Answer questions about books, authors and reading suggestions concisely. " +
	"If asked about anything unrelated to books or the library, politely decline."

type RecommendService interface {
	// Chat answers a single-turn question. It never fails: any model
	// problem yields the canned fallback reply.
	Chat(ctx context.Context, message string) string
	// Recommend suggests up to three catalog books similar to the given
	// one, falling back to same-category picks when the model is no help.
	Recommend(ctx context.Context, bookID int64) ([]models.Book, error)
}

type recommendService struct {
	bookRepo  repository.BookRepository
	completer Completer
	logger    *slog.Logger
}

func NewRecommendService(bookRepo repository.BookRepository, completer Completer, logger *slog.Logger) RecommendService {
	return &recommendService{bookRepo: bookRepo, completer: completer, logger: logger}
}

func (s *recommendService) Chat(ctx context.Context, message string) string {
	reply, err := s.completer.Complete(ctx, []llm.Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: message},
	})
	if err != nil {
		s.logger.Warn("chatbot completion failed", "error", err)
		return chatFallback
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return chatFallback
	}
	return reply
}

func (s *recommendService) Recommend(ctx context.Context, bookID int64) ([]models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if titles := s.suggestedTitles(ctx, book); len(titles) > 0 {
		matches, err := s.bookRepo.FindByTitles(ctx, titles, book.ID, maxRecommendations)
		if err != nil {
			s.logger.Warn("failed to resolve suggested titles", "error", err)
		} else if len(matches) > 0 {
			return matches, nil
		}
	}

	return s.sameCategoryFallback(ctx, book)
}

// suggestedTitles asks the model for titles from our own catalog. Anything
// that fails to parse is treated as no suggestion at all.
func (s *recommendService) suggestedTitles(ctx context.Context, book *models.Book) []string {
	prompt := fmt.Sprintf(
		"Suggest up to %d books similar to '%s' by %s. "+
			"Respond with ONLY a JSON array of title strings, nothing else.",
		maxRecommendations, book.Title, book.Author)

	raw, err := s.completer.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		s.logger.Warn("recommendation completion failed", "error", err, "book_id", book.ID)
		return nil
	}

	// Models pad JSON with prose; keep just the array.
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil
	}
	var titles []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &titles); err != nil {
		s.logger.Warn("unparsable recommendation payload", "error", err, "book_id", book.ID)
		return nil
	}
	if len(titles) > maxRecommendations {
		titles = titles[:maxRecommendations]
	}
	return titles
}

func (s *recommendService) sameCategoryFallback(ctx context.Context, book *models.Book) ([]models.Book, error) {
	if book.CategoryID == nil {
		return []models.Book{}, nil
	}
	books, err := s.bookRepo.SameCategory(ctx, *book.CategoryID, book.ID, maxRecommendations)
	if err != nil {
		return nil, err
	}
	return books, nil
}

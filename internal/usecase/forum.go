package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

// ThreadInput is the validated input for a new forum thread.
type ThreadInput struct {
	Title      string
	AuthorName string
	Content    string
	Language   domain.Language
}

// ReplyInput is the validated input for a thread reply.
type ReplyInput struct {
	ThreadID   string
	AuthorName string
	Content    string
}

// ForumUsecase manages community threads and keeps their AI summaries
// refreshed. Summaries are best-effort: a provider failure leaves the
// previous summary in place.
type ForumUsecase struct {
	repo        ForumRepository
	translation *TranslationUsecase
}

func NewForumUsecase(repo ForumRepository, translation *TranslationUsecase) *ForumUsecase {
	return &ForumUsecase{repo: repo, translation: translation}
}

func (uc *ForumUsecase) CreateThread(ctx context.Context, input ThreadInput) (domain.ForumThread, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.ForumThread{}, domain.ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(input.AuthorName) == "" {
		return domain.ForumThread{}, domain.ValidationError{Field: "author_name", Reason: "required"}
	}
	if strings.TrimSpace(input.Content) == "" {
		return domain.ForumThread{}, domain.ValidationError{Field: "content", Reason: "required"}
	}
	if _, ok := domain.ParseLanguage(string(input.Language)); !ok {
		return domain.ForumThread{}, domain.ValidationError{Field: "language", Reason: "unsupported language"}
	}

	thread, err := uc.repo.CreateThread(ctx, domain.ForumThread{
		Title:      input.Title,
		AuthorName: input.AuthorName,
		Content:    input.Content,
		Language:   input.Language,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return domain.ForumThread{}, errors.Wrap(err, "failed to create thread")
	}

	if summary := uc.translation.Summarize(ctx, thread.Content, nil); summary != "" {
		if err := uc.repo.UpdateSummary(ctx, thread.ID, summary); err != nil {
			slog.WarnContext(ctx, "failed to store thread summary",
				slog.String("error", err.Error()),
				slog.String("module", "forum"),
			)
		} else {
			thread.AISummary = summary
		}
	}

	return thread, nil
}

func (uc *ForumUsecase) AddReply(ctx context.Context, input ReplyInput) (domain.ForumReply, error) {
	if strings.TrimSpace(input.AuthorName) == "" {
		return domain.ForumReply{}, domain.ValidationError{Field: "author_name", Reason: "required"}
	}
	if strings.TrimSpace(input.Content) == "" {
		return domain.ForumReply{}, domain.ValidationError{Field: "content", Reason: "required"}
	}

	thread, err := uc.repo.GetThread(ctx, input.ThreadID)
	if err != nil {
		return domain.ForumReply{}, err
	}

	reply, err := uc.repo.AddReply(ctx, domain.ForumReply{
		ThreadID:   thread.ID,
		AuthorName: input.AuthorName,
		Content:    input.Content,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return domain.ForumReply{}, errors.Wrap(err, "failed to add reply")
	}

	replies := make([]string, 0, len(thread.Replies)+1)
	for _, r := range thread.Replies {
		replies = append(replies, r.Content)
	}
	replies = append(replies, reply.Content)

	if summary := uc.translation.Summarize(ctx, thread.Content, replies); summary != "" {
		if err := uc.repo.UpdateSummary(ctx, thread.ID, summary); err != nil {
			slog.WarnContext(ctx, "failed to refresh thread summary",
				slog.String("error", err.Error()),
				slog.String("module", "forum"),
			)
		}
	}

	return reply, nil
}

func (uc *ForumUsecase) ListThreads(ctx context.Context) ([]domain.ForumThread, error) {
	return uc.repo.ListThreads(ctx)
}

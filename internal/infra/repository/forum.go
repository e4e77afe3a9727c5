package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

type ForumRepository struct {
	db *gorm.DB
}

func NewForumRepository(db *gorm.DB) *ForumRepository {
	return &ForumRepository{db: db}
}

func threadToDomain(m models.ForumThread) domain.ForumThread {
	replies := make([]domain.ForumReply, 0, len(m.Replies))
	for _, reply := range m.Replies {
		replies = append(replies, domain.ForumReply{
			ID:         reply.ID,
			ThreadID:   reply.ThreadID,
			AuthorName: reply.AuthorName,
			Content:    reply.Content,
			CreatedAt:  reply.CreatedAt,
		})
	}
	return domain.ForumThread{
		ID:         m.ID,
		Title:      m.Title,
		AuthorName: m.AuthorName,
		Content:    m.Content,
		AISummary:  m.AISummary,
		Language:   domain.Language(m.Language),
		Replies:    replies,
		CreatedAt:  m.CreatedAt,
	}
}

func (r *ForumRepository) CreateThread(ctx context.Context, thread domain.ForumThread) (domain.ForumThread, error) {
	thread.ID = uuid.New().String()
	m := models.ForumThread{
		ID:         thread.ID,
		Title:      thread.Title,
		AuthorName: thread.AuthorName,
		Content:    thread.Content,
		AISummary:  thread.AISummary,
		Language:   string(thread.Language),
		CreatedAt:  thread.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ForumThread{}, err
	}
	return thread, nil
}

func (r *ForumRepository) AddReply(ctx context.Context, reply domain.ForumReply) (domain.ForumReply, error) {
	reply.ID = uuid.New().String()
	m := models.ForumReply{
		ID:         reply.ID,
		ThreadID:   reply.ThreadID,
		AuthorName: reply.AuthorName,
		Content:    reply.Content,
		CreatedAt:  reply.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.ForumReply{}, err
	}
	return reply, nil
}

func (r *ForumRepository) GetThread(ctx context.Context, id string) (domain.ForumThread, error) {
	var thread models.ForumThread
	err := r.db.WithContext(ctx).Preload("Replies").Where("id = ?", id).Take(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ForumThread{}, domain.NotFoundError{Resource: "thread"}
		}
		return domain.ForumThread{}, err
	}
	return threadToDomain(thread), nil
}

func (r *ForumRepository) ListThreads(ctx context.Context) ([]domain.ForumThread, error) {
	var threads []models.ForumThread
	err := r.db.WithContext(ctx).Preload("Replies").Order("created_at DESC").Find(&threads).Error
	if err != nil {
		return nil, err
	}
	result := make([]domain.ForumThread, 0, len(threads))
	for _, thread := range threads {
		result = append(result, threadToDomain(thread))
	}
	return result, nil
}

func (r *ForumRepository) UpdateSummary(ctx context.Context, threadID, summary string) error {
	return r.db.WithContext(ctx).
		Model(&models.ForumThread{}).
		Where("id = ?", threadID).
		Update("ai_summary", summary).Error
}

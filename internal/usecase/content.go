package usecase

import (
	"context"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
)

// ContentUsecase serves keyed bilingual site content blocks.
type ContentUsecase struct {
	repo ContentRepository
}

func NewContentUsecase(repo ContentRepository) *ContentUsecase {
	return &ContentUsecase{repo: repo}
}

func (uc *ContentUsecase) Get(ctx context.Context, key string) (domain.SiteContent, error) {
	return uc.repo.Get(ctx, key)
}

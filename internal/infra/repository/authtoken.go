package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

type AuthTokenRepository struct {
	db *gorm.DB
}

func NewAuthTokenRepository(db *gorm.DB) *AuthTokenRepository {
	return &AuthTokenRepository{db: db}
}

func tokenToDomain(m models.AuthToken) domain.AuthToken {
	return domain.AuthToken{
		ID:        m.ID,
		Email:     m.Email,
		Code:      m.Code,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		CreatedAt: m.CreatedAt,
	}
}

func (r *AuthTokenRepository) Create(ctx context.Context, token domain.AuthToken) (domain.AuthToken, error) {
	token.ID = uuid.New().String()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	m := models.AuthToken{
		ID:        token.ID,
		Email:     token.Email,
		Code:      token.Code,
		ExpiresAt: token.ExpiresAt,
		Used:      token.Used,
		CreatedAt: token.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.AuthToken{}, err
	}
	return token, nil
}

// FindValid returns any unused, unexpired token matching the email and code.
// With several outstanding tokens any match is accepted; there is no
// preference ordering between them.
func (r *AuthTokenRepository) FindValid(ctx context.Context, email, code string, now time.Time) (domain.AuthToken, error) {
	var token models.AuthToken
	err := r.db.WithContext(ctx).
		Where("email = ? AND code = ? AND used = ? AND expires_at > ?", email, code, false, now).
		Take(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthToken{}, domain.NotFoundError{Resource: "auth token"}
		}
		return domain.AuthToken{}, err
	}
	return tokenToDomain(token), nil
}

func (r *AuthTokenRepository) MarkUsed(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.AuthToken{}).
		Where("id = ?", id).
		Update("used", true).Error
}

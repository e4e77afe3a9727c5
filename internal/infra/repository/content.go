package repository

import (
	"context"
	"encoding/json"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/blackberry-uk/fulhambilingual/internal/domain"
	"github.com/blackberry-uk/fulhambilingual/internal/infra/database/models"
)

const contentCacheTTL = 300 // seconds

// ContentRepository reads keyed bilingual site content, with memcache in
// front of the table when a client is configured.
type ContentRepository struct {
	db *gorm.DB
	mc *memcache.Client
}

func NewContentRepository(db *gorm.DB, mc *memcache.Client) *ContentRepository {
	return &ContentRepository{db: db, mc: mc}
}

func (r *ContentRepository) Get(ctx context.Context, key string) (domain.SiteContent, error) {
	cacheKey := "site_content:" + key

	if r.mc != nil {
		if item, err := r.mc.Get(cacheKey); err == nil {
			var content domain.SiteContent
			if err := json.Unmarshal(item.Value, &content); err == nil {
				return content, nil
			}
		}
	}

	var m models.SiteContent
	err := r.db.WithContext(ctx).Where("key = ?", key).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SiteContent{}, domain.NotFoundError{Resource: "site content"}
		}
		return domain.SiteContent{}, err
	}

	content := domain.SiteContent{Key: m.Key, EN: m.ENContent, FR: m.FRContent}

	if r.mc != nil {
		if value, err := json.Marshal(content); err == nil {
			r.mc.Set(&memcache.Item{Key: cacheKey, Value: value, Expiration: contentCacheTTL})
		}
	}

	return content, nil
}

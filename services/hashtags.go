package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/utils"
)

const hashtagsCacheKey = "hashtags:all"

// HashtagStore manages free-form tags.
type HashtagStore struct {
	db *gorm.DB
}

// NewHashtagStore creates a new HashtagStore instance.
func NewHashtagStore(db *gorm.DB) *HashtagStore {
	return &HashtagStore{db: db}
}

// List returns all hashtags ordered by name.
func (s *HashtagStore) List(ctx context.Context, actor Actor) ([]models.Hashtag, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	tags := []models.Hashtag{}
	if utils.CacheGetJSON(ctx, hashtagsCacheKey, &tags) {
		return tags, nil
	}
	if err := s.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	utils.CacheSetJSON(ctx, hashtagsCacheKey, tags, 0)
	return tags, nil
}

// Create stores a new hashtag. Names may repeat.
func (s *HashtagStore) Create(ctx context.Context, actor Actor, name string) (*models.Hashtag, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	name = strings.TrimPrefix(strings.TrimSpace(utils.SanitizeText(name)), "#")
	if name == "" {
		return nil, validationf("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, validationf("name must be at most 100 characters")
	}
	tag := models.Hashtag{Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	utils.CacheDelete(ctx, hashtagsCacheKey)
	return &tag, nil
}

// Delete removes a hashtag and unlinks it from posts. Administrators only.
func (s *HashtagStore) Delete(ctx context.Context, actor Actor, id uint) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Hashtag
		if err := tx.First(&tag, id).Error; err != nil {
			return mapNotFound(err, "hashtag")
		}
		if err := tx.Exec("DELETE FROM post_hashtags WHERE hashtag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
	if err != nil {
		return err
	}
	utils.CacheDelete(ctx, hashtagsCacheKey)
	return nil
}

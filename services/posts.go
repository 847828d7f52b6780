package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/utils"
)

const maxTitleLength = 200

// PostInput carries the fields of a new post. The author always comes from the actor.
type PostInput struct {
	Title      string
	Content    string
	HashtagIDs []uint
}

// PostUpdate is a partial post update; nil fields are left untouched.
type PostUpdate struct {
	Title      *string
	Content    *string
	HashtagIDs *[]uint
}

// PostFilter narrows a post listing. Every non-empty field must match.
type PostFilter struct {
	AuthorUsername string     // case-insensitive substring of the author's username
	Title          string     // case-insensitive substring of the title
	DatePosted     *time.Time // UTC calendar day of creation
	Hashtags       []string   // post carries at least one hashtag with one of these names
}

// ContentStore manages posts.
type ContentStore struct {
	db *gorm.DB
}

// NewContentStore creates a new ContentStore instance.
func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

// Create stores a post authored by the actor.
func (s *ContentStore) Create(ctx context.Context, actor Actor, in PostInput) (*models.Post, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	content, err := cleanBody(in.Content)
	if err != nil {
		return nil, err
	}

	post := models.Post{UserID: actor.UserID, Title: title, Content: content}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveHashtags(tx, in.HashtagIDs)
		if err != nil {
			return err
		}
		post.Hashtags = tags
		return tx.Omit("Hashtags.*").Create(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, post.ID)
}

// Update edits a post owned by the actor.
func (s *ContentStore) Update(ctx context.Context, actor Actor, postID uint, in PostUpdate) (*models.Post, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return mapNotFound(err, "post")
		}
		if err := RequireOwner(actor, post.UserID); err != nil {
			return err
		}

		changes := map[string]interface{}{}
		if in.Title != nil {
			title, err := cleanTitle(*in.Title)
			if err != nil {
				return err
			}
			changes["title"] = title
		}
		if in.Content != nil {
			content, err := cleanBody(*in.Content)
			if err != nil {
				return err
			}
			changes["content"] = content
		}
		if len(changes) > 0 {
			if err := tx.Model(&post).Updates(changes).Error; err != nil {
				return err
			}
		}

		if in.HashtagIDs != nil {
			tags, err := resolveHashtags(tx, *in.HashtagIDs)
			if err != nil {
				return err
			}
			if len(tags) == 0 {
				return tx.Model(&post).Association("Hashtags").Clear()
			}
			return tx.Model(&post).Association("Hashtags").Replace(tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, postID)
}

// Delete removes a post owned by the actor with its comments, reactions and
// hashtag links. It returns the photo path so the caller can drop the file.
func (s *ContentStore) Delete(ctx context.Context, actor Actor, postID uint) (string, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return "", err
	}

	var photo string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return mapNotFound(err, "post")
		}
		if err := RequireOwner(actor, post.UserID); err != nil {
			return err
		}
		photo = post.Photo
		return purgePosts(tx, []uint{post.ID})
	})
	return photo, err
}

// SetPhoto attaches a stored photo to a post owned by the actor and returns
// the path it replaced.
func (s *ContentStore) SetPhoto(ctx context.Context, actor Actor, postID uint, path string) (string, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return "", err
	}

	var previous string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			return mapNotFound(err, "post")
		}
		if err := RequireOwner(actor, post.UserID); err != nil {
			return err
		}
		previous = post.Photo
		return tx.Model(&post).Update("photo", path).Error
	})
	return previous, err
}

// Get loads a post with its author and hashtags.
func (s *ContentStore) Get(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Hashtags").First(&post, postID).Error
	if err != nil {
		return nil, mapNotFound(err, "post")
	}
	return &post, nil
}

// GetByAuthor loads a post only when it belongs to authorID.
func (s *ContentStore) GetByAuthor(ctx context.Context, authorID, postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).Preload("User").Preload("Hashtags").
		Where("user_id = ?", authorID).First(&post, postID).Error
	if err != nil {
		return nil, mapNotFound(err, "post")
	}
	return &post, nil
}

// List returns posts matching every criterion in f, newest first.
func (s *ContentStore) List(ctx context.Context, f PostFilter, page Page) ([]models.Post, int64, error) {
	query := func() *gorm.DB {
		return s.filtered(s.db.WithContext(ctx).Model(&models.Post{}), f)
	}
	return findPosts(query, page)
}

// ListByAuthor returns the posts written by authorID, newest first.
func (s *ContentStore) ListByAuthor(ctx context.Context, authorID uint, page Page) ([]models.Post, int64, error) {
	query := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.Post{}).Where("posts.user_id = ?", authorID)
	}
	return findPosts(query, page)
}

func (s *ContentStore) filtered(q *gorm.DB, f PostFilter) *gorm.DB {
	if name := strings.TrimSpace(f.AuthorUsername); name != "" {
		authors := s.db.Model(&models.User{}).Select("users.id").
			Where(ilike("users.username"), containsPattern(name))
		q = q.Where("posts.user_id IN (?)", authors)
	}
	if title := strings.TrimSpace(f.Title); title != "" {
		q = q.Where(ilike("posts.title"), containsPattern(title))
	}
	if f.DatePosted != nil {
		start, end := dayRange(*f.DatePosted)
		q = q.Where("posts.created_at >= ? AND posts.created_at < ?", start, end)
	}
	names := lo.Uniq(lo.Compact(lo.Map(f.Hashtags, func(n string, _ int) string { return strings.TrimSpace(n) })))
	if len(names) > 0 {
		tagged := s.db.Table("post_hashtags").Select("post_hashtags.post_id").
			Joins("JOIN hashtags ON hashtags.id = post_hashtags.hashtag_id").
			Where("hashtags.name IN ?", names)
		q = q.Where("posts.id IN (?)", tagged)
	}
	return q
}

// findPosts counts and loads one page of posts. query must return a fresh chain on every call.
func findPosts(query func() *gorm.DB, page Page) ([]models.Post, int64, error) {
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	posts := []models.Post{}
	err := query().Preload("User").Preload("Hashtags").
		Scopes(newestFirst("posts"), paginate(page)).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func resolveHashtags(tx *gorm.DB, ids []uint) ([]models.Hashtag, error) {
	ids = lo.Uniq(ids)
	if len(ids) == 0 {
		return []models.Hashtag{}, nil
	}
	var tags []models.Hashtag
	if err := tx.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, validationf("unknown hashtag")
	}
	return tags, nil
}

func cleanTitle(raw string) (string, error) {
	title := strings.TrimSpace(utils.SanitizeText(raw))
	if title == "" {
		return "", validationf("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", validationf("title must be at most %d characters", maxTitleLength)
	}
	return title, nil
}

func cleanBody(raw string) (string, error) {
	body := utils.Sanitize(raw)
	if strings.TrimSpace(body) == "" {
		return "", validationf("content cannot be empty")
	}
	return body, nil
}

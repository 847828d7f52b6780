package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
)

// CommentFilter narrows a comment listing. Every non-empty field must match.
type CommentFilter struct {
	Username  string     // case-insensitive substring of the commenter's username
	PostTitle string     // case-insensitive substring of the commented post's title
	CreatedAt *time.Time // UTC calendar day of creation
}

// CommentStore manages comments on posts.
type CommentStore struct {
	db *gorm.DB
}

// NewCommentStore creates a new CommentStore instance.
func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create adds a comment by the actor to an existing post.
func (s *CommentStore) Create(ctx context.Context, actor Actor, postID uint, content string) (*models.Comment, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	body, err := cleanBody(content)
	if err != nil {
		return nil, err
	}
	if err := requirePost(s.db.WithContext(ctx), postID); err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: postID, UserID: actor.UserID, Content: body}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, comment.ID)
}

// Update replaces the content of a comment written by the actor.
func (s *CommentStore) Update(ctx context.Context, actor Actor, commentID uint, content string) (*models.Comment, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	body, err := cleanBody(content)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return mapNotFound(err, "comment")
		}
		if err := RequireOwner(actor, comment.UserID); err != nil {
			return err
		}
		return tx.Model(&comment).Update("content", body).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, commentID)
}

// Delete removes a comment written by the actor.
func (s *CommentStore) Delete(ctx context.Context, actor Actor, commentID uint) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			return mapNotFound(err, "comment")
		}
		if err := RequireOwner(actor, comment.UserID); err != nil {
			return err
		}
		return tx.Delete(&comment).Error
	})
}

// Get loads a comment with its author and post.
func (s *CommentStore) Get(ctx context.Context, commentID uint) (*models.Comment, error) {
	var comment models.Comment
	err := s.db.WithContext(ctx).Preload("User").Preload("Post").First(&comment, commentID).Error
	if err != nil {
		return nil, mapNotFound(err, "comment")
	}
	return &comment, nil
}

// List returns comments matching every criterion in f, newest first.
func (s *CommentStore) List(ctx context.Context, f CommentFilter, page Page) ([]models.Comment, int64, error) {
	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&models.Comment{})
		if name := strings.TrimSpace(f.Username); name != "" {
			authors := s.db.Model(&models.User{}).Select("users.id").
				Where(ilike("users.username"), containsPattern(name))
			q = q.Where("comments.user_id IN (?)", authors)
		}
		if title := strings.TrimSpace(f.PostTitle); title != "" {
			posts := s.db.Model(&models.Post{}).Select("posts.id").
				Where(ilike("posts.title"), containsPattern(title))
			q = q.Where("comments.post_id IN (?)", posts)
		}
		if f.CreatedAt != nil {
			start, end := dayRange(*f.CreatedAt)
			q = q.Where("comments.created_at >= ? AND comments.created_at < ?", start, end)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	comments := []models.Comment{}
	err := query().Preload("User").Preload("Post").
		Scopes(newestFirst("comments"), paginate(page)).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// ListForPost returns every comment on a post, newest first.
func (s *CommentStore) ListForPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.WithContext(ctx).Preload("User").
		Where("post_id = ?", postID).
		Scopes(newestFirst("comments")).
		Find(&comments).Error
	return comments, err
}

// requirePost reports ErrValidation when the referenced post does not exist.
func requirePost(db *gorm.DB, postID uint) error {
	var count int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return validationf("post %d does not exist", postID)
	}
	return nil
}

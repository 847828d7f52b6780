package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
)

// ReactionFilter narrows a like or dislike listing. Every non-empty field must match.
type ReactionFilter struct {
	Username  string // case-insensitive substring of the reacting user's username
	PostTitle string // case-insensitive substring of the post title
}

type reaction interface {
	models.Like | models.Dislike
	OwnerID() uint
}

// ReactionLedger records likes and dislikes. The two kinds live in separate
// tables and are not mutually exclusive.
type ReactionLedger struct {
	db *gorm.DB
}

// NewReactionLedger creates a new ReactionLedger instance.
func NewReactionLedger(db *gorm.DB) *ReactionLedger {
	return &ReactionLedger{db: db}
}

// AddLike records a like by the actor. A second like on the same post fails with ErrDuplicateReaction.
func (l *ReactionLedger) AddLike(ctx context.Context, actor Actor, postID uint) (*models.Like, error) {
	like := models.Like{UserID: actor.UserID, PostID: postID}
	if err := l.add(ctx, actor, postID, &like, "like"); err != nil {
		return nil, err
	}
	return &like, nil
}

// AddDislike records a dislike by the actor. A second dislike on the same post fails with ErrDuplicateReaction.
func (l *ReactionLedger) AddDislike(ctx context.Context, actor Actor, postID uint) (*models.Dislike, error) {
	dislike := models.Dislike{UserID: actor.UserID, PostID: postID}
	if err := l.add(ctx, actor, postID, &dislike, "dislike"); err != nil {
		return nil, err
	}
	return &dislike, nil
}

// RemoveLike deletes a like placed by the actor.
func (l *ReactionLedger) RemoveLike(ctx context.Context, actor Actor, likeID uint) error {
	return removeReaction[models.Like](ctx, l.db, actor, likeID)
}

// RemoveDislike deletes a dislike placed by the actor.
func (l *ReactionLedger) RemoveDislike(ctx context.Context, actor Actor, dislikeID uint) error {
	return removeReaction[models.Dislike](ctx, l.db, actor, dislikeID)
}

// GetLike loads a like with its user and post.
func (l *ReactionLedger) GetLike(ctx context.Context, likeID uint) (*models.Like, error) {
	return getReaction[models.Like](ctx, l.db, likeID)
}

// GetDislike loads a dislike with its user and post.
func (l *ReactionLedger) GetDislike(ctx context.Context, dislikeID uint) (*models.Dislike, error) {
	return getReaction[models.Dislike](ctx, l.db, dislikeID)
}

// ListLikes returns likes matching f.
func (l *ReactionLedger) ListLikes(ctx context.Context, f ReactionFilter, page Page) ([]models.Like, int64, error) {
	return listReactions[models.Like](ctx, l.db, "likes", f, page)
}

// ListDislikes returns dislikes matching f.
func (l *ReactionLedger) ListDislikes(ctx context.Context, f ReactionFilter, page Page) ([]models.Dislike, int64, error) {
	return listReactions[models.Dislike](ctx, l.db, "dislikes", f, page)
}

// LikesCount counts likes on a post.
func (l *ReactionLedger) LikesCount(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// DislikesCount counts dislikes on a post.
func (l *ReactionLedger) DislikesCount(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := l.db.WithContext(ctx).Model(&models.Dislike{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

// add inserts row and lets the (user, post) unique index reject duplicates,
// so concurrent requests cannot both succeed.
func (l *ReactionLedger) add(ctx context.Context, actor Actor, postID uint, row interface{}, kind string) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if err := requirePost(l.db.WithContext(ctx), postID); err != nil {
		return err
	}
	err := l.db.WithContext(ctx).Create(row).Error
	recordInteraction(kind, "add", err)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateReaction
		}
		return err
	}
	return nil
}

func removeReaction[T reaction](ctx context.Context, db *gorm.DB, actor Actor, id uint) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row T
		if err := tx.First(&row, id).Error; err != nil {
			return mapNotFound(err, "reaction")
		}
		if err := RequireOwner(actor, row.OwnerID()); err != nil {
			return err
		}
		return tx.Delete(&row).Error
	})
}

func getReaction[T reaction](ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	var row T
	err := db.WithContext(ctx).
		Preload("User").Preload("Post").Preload("Post.Hashtags").
		First(&row, id).Error
	if err != nil {
		return nil, mapNotFound(err, "reaction")
	}
	return &row, nil
}

func listReactions[T reaction](ctx context.Context, db *gorm.DB, table string, f ReactionFilter, page Page) ([]T, int64, error) {
	query := func() *gorm.DB {
		q := db.WithContext(ctx).Model(new(T))
		if name := strings.TrimSpace(f.Username); name != "" {
			users := db.Model(&models.User{}).Select("users.id").
				Where(ilike("users.username"), containsPattern(name))
			q = q.Where(table+".user_id IN (?)", users)
		}
		if title := strings.TrimSpace(f.PostTitle); title != "" {
			posts := db.Model(&models.Post{}).Select("posts.id").
				Where(ilike("posts.title"), containsPattern(title))
			q = q.Where(table+".post_id IN (?)", posts)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []T{}
	err := query().Preload("User").Preload("Post").
		Scopes(newestFirst(table), paginate(page)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/socialhub/socialhub/models"
)

// PostDetail is a post with its derived reaction counts and comments.
type PostDetail struct {
	Post          models.Post
	LikesCount    int64
	DislikesCount int64
	Comments      []models.Comment
}

// PostStats holds per-post counters, recomputed on every call.
type PostStats struct {
	Likes    int64 `json:"likes_count"`
	Dislikes int64 `json:"dislikes_count"`
	Comments int64 `json:"comments_count"`
}

// FeedAssembler derives post views from subscriptions and reactions.
type FeedAssembler struct {
	db        *gorm.DB
	graph     *SubscriptionGraph
	reactions *ReactionLedger
	comments  *CommentStore
}

// NewFeedAssembler creates a new FeedAssembler instance.
func NewFeedAssembler(db *gorm.DB) *FeedAssembler {
	return &FeedAssembler{
		db:        db,
		graph:     NewSubscriptionGraph(db),
		reactions: NewReactionLedger(db),
		comments:  NewCommentStore(db),
	}
}

// SubscribedFeed returns posts authored by accounts that accountID follows, newest first.
func (f *FeedAssembler) SubscribedFeed(ctx context.Context, accountID uint, page Page) ([]models.Post, int64, error) {
	authors, err := f.graph.subscribedIDs(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if len(authors) == 0 {
		return []models.Post{}, 0, nil
	}
	return findPosts(func() *gorm.DB {
		return f.db.WithContext(ctx).Model(&models.Post{}).Where("posts.user_id IN ?", authors)
	}, page)
}

// SubscribedPost returns one post from the subscribed feed of accountID.
func (f *FeedAssembler) SubscribedPost(ctx context.Context, accountID, postID uint) (*PostDetail, error) {
	authors, err := f.graph.subscribedIDs(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return nil, notFound("post")
	}
	var post models.Post
	err = f.db.WithContext(ctx).Preload("User").Preload("Hashtags").
		Where("user_id IN ?", authors).
		First(&post, postID).Error
	if err != nil {
		return nil, mapNotFound(err, "post")
	}
	return f.Detail(ctx, post)
}

// LikedPosts returns posts that accountID liked, newest first.
func (f *FeedAssembler) LikedPosts(ctx context.Context, accountID uint, page Page) ([]models.Post, int64, error) {
	return f.reactedPosts(ctx, &models.Like{}, accountID, page)
}

// DislikedPosts returns posts that accountID disliked, newest first.
func (f *FeedAssembler) DislikedPosts(ctx context.Context, accountID uint, page Page) ([]models.Post, int64, error) {
	return f.reactedPosts(ctx, &models.Dislike{}, accountID, page)
}

func (f *FeedAssembler) reactedPosts(ctx context.Context, kind interface{}, accountID uint, page Page) ([]models.Post, int64, error) {
	return findPosts(func() *gorm.DB {
		reacted := f.db.Model(kind).Select("post_id").Where("user_id = ?", accountID)
		return f.db.WithContext(ctx).Model(&models.Post{}).Where("posts.id IN (?)", reacted)
	}, page)
}

// Detail adds reaction counts and comments to a loaded post.
func (f *FeedAssembler) Detail(ctx context.Context, post models.Post) (*PostDetail, error) {
	likes, err := f.reactions.LikesCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	dislikes, err := f.reactions.DislikesCount(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	comments, err := f.comments.ListForPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, LikesCount: likes, DislikesCount: dislikes, Comments: comments}, nil
}

// Stats counts reactions and comments on an existing post.
func (f *FeedAssembler) Stats(ctx context.Context, postID uint) (*PostStats, error) {
	var post models.Post
	if err := f.db.WithContext(ctx).Select("id").First(&post, postID).Error; err != nil {
		return nil, mapNotFound(err, "post")
	}

	var stats PostStats
	var err error
	if stats.Likes, err = f.reactions.LikesCount(ctx, postID); err != nil {
		return nil, err
	}
	if stats.Dislikes, err = f.reactions.DislikesCount(ctx, postID); err != nil {
		return nil, err
	}
	if err := f.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&stats.Comments).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// SiteTotals counts the rows of every content table.
type SiteTotals struct {
	Users         int64 `json:"user_count"`
	Posts         int64 `json:"post_count"`
	Comments      int64 `json:"comment_count"`
	Likes         int64 `json:"like_count"`
	Dislikes      int64 `json:"dislike_count"`
	Subscriptions int64 `json:"subscription_count"`
}

// Totals returns site wide counters.
func (f *FeedAssembler) Totals(ctx context.Context) (*SiteTotals, error) {
	var t SiteTotals
	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &t.Users},
		{&models.Post{}, &t.Posts},
		{&models.Comment{}, &t.Comments},
		{&models.Like{}, &t.Likes},
		{&models.Dislike{}, &t.Dislikes},
		{&models.Subscription{}, &t.Subscriptions},
	}
	for _, c := range counts {
		if err := f.db.WithContext(ctx).Model(c.model).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return &t, nil
}

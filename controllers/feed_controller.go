package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// FeedController serves the per-user derived post listings.
type FeedController struct {
	feed *services.FeedAssembler
}

// NewFeedController creates a new FeedController instance.
func NewFeedController(db *gorm.DB) *FeedController {
	return &FeedController{feed: services.NewFeedAssembler(db)}
}

// SubscribedPosts lists posts by accounts the caller follows.
func (f *FeedController) SubscribedPosts(ctx *gin.Context) {
	page := parsePagination(ctx)
	posts, total, err := f.feed.SubscribedFeed(ctx.Request.Context(), currentActor(ctx).UserID, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(posts, presentFeedItem), page, total)
}

// SubscribedPost shows one post of the subscribed feed.
func (f *FeedController) SubscribedPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	detail, err := f.feed.SubscribedPost(ctx.Request.Context(), currentActor(ctx).UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentPostDetail(detail))
}

// LikedPosts lists posts the caller liked.
func (f *FeedController) LikedPosts(ctx *gin.Context) {
	page := parsePagination(ctx)
	posts, total, err := f.feed.LikedPosts(ctx.Request.Context(), currentActor(ctx).UserID, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(posts, presentReactedPost), page, total)
}

// DislikedPosts lists posts the caller disliked.
func (f *FeedController) DislikedPosts(ctx *gin.Context) {
	page := parsePagination(ctx)
	posts, total, err := f.feed.DislikedPosts(ctx.Request.Context(), currentActor(ctx).UserID, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(posts, presentReactedPost), page, total)
}

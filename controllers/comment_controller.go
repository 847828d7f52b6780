package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// CommentController exposes comments on posts.
type CommentController struct {
	comments *services.CommentStore
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{comments: services.NewCommentStore(db)}
}

// ListComments lists comments filtered by commenter, post title and creation day.
func (c *CommentController) ListComments(ctx *gin.Context) {
	createdAt, ok := parseDate(ctx, "created_at")
	if !ok {
		return
	}
	filter := services.CommentFilter{
		Username:  ctx.Query("user.username"),
		PostTitle: ctx.Query("post.title"),
		CreatedAt: createdAt,
	}
	page := parsePagination(ctx)
	comments, total, err := c.comments.List(ctx.Request.Context(), filter, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(comments, presentCommentListItem), page, total)
}

// CreateComment adds a comment by the caller.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req struct {
		Post    uint   `json:"post" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	comment, err := c.comments.Create(ctx.Request.Context(), currentActor(ctx), req.Post, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, presentCommentDetail(*comment))
}

// GetComment returns one comment.
func (c *CommentController) GetComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	comment, err := c.comments.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentCommentDetail(*comment))
}

// UpdateComment replaces the content of the caller's comment.
func (c *CommentController) UpdateComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	comment, err := c.comments.Update(ctx.Request.Context(), currentActor(ctx), id, req.Content)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentCommentDetail(*comment))
}

// DeleteComment removes the caller's comment.
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := c.comments.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "comment deleted"})
}

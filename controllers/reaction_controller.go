package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// ReactionController exposes likes and dislikes.
type ReactionController struct {
	ledger *services.ReactionLedger
}

// NewReactionController creates a new ReactionController instance.
func NewReactionController(db *gorm.DB) *ReactionController {
	return &ReactionController{ledger: services.NewReactionLedger(db)}
}

type reactionRequest struct {
	Post uint `json:"post" binding:"required"`
}

func reactionFilter(ctx *gin.Context) services.ReactionFilter {
	return services.ReactionFilter{
		Username:  ctx.Query("user.username"),
		PostTitle: ctx.Query("post.title"),
	}
}

// ListLikes lists likes filtered by user and post title.
func (r *ReactionController) ListLikes(ctx *gin.Context) {
	page := parsePagination(ctx)
	rows, total, err := r.ledger.ListLikes(ctx.Request.Context(), reactionFilter(ctx), page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, presentLikes(rows), page, total)
}

// CreateLike likes a post on behalf of the caller.
func (r *ReactionController) CreateLike(ctx *gin.Context) {
	var req reactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	like, err := r.ledger.AddLike(ctx.Request.Context(), currentActor(ctx), req.Post)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"id": like.ID, "post": like.PostID})
}

// GetLike returns one like with its post.
func (r *ReactionController) GetLike(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	like, err := r.ledger.GetLike(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentReactionDetail(like.ID, like.User, like.Post))
}

// DeleteLike removes the caller's like.
func (r *ReactionController) DeleteLike(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := r.ledger.RemoveLike(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "like removed"})
}

// ListDislikes lists dislikes filtered by user and post title.
func (r *ReactionController) ListDislikes(ctx *gin.Context) {
	page := parsePagination(ctx)
	rows, total, err := r.ledger.ListDislikes(ctx.Request.Context(), reactionFilter(ctx), page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, presentDislikes(rows), page, total)
}

// CreateDislike dislikes a post on behalf of the caller.
func (r *ReactionController) CreateDislike(ctx *gin.Context) {
	var req reactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	dislike, err := r.ledger.AddDislike(ctx.Request.Context(), currentActor(ctx), req.Post)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"id": dislike.ID, "post": dislike.PostID})
}

// GetDislike returns one dislike with its post.
func (r *ReactionController) GetDislike(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	dislike, err := r.ledger.GetDislike(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentReactionDetail(dislike.ID, dislike.User, dislike.Post))
}

// DeleteDislike removes the caller's dislike.
func (r *ReactionController) DeleteDislike(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := r.ledger.RemoveDislike(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "dislike removed"})
}

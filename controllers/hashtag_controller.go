package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// HashtagController manages tags.
type HashtagController struct {
	tags *services.HashtagStore
}

// NewHashtagController creates a new HashtagController instance.
func NewHashtagController(db *gorm.DB) *HashtagController {
	return &HashtagController{tags: services.NewHashtagStore(db)}
}

func (h *HashtagController) ListHashtags(ctx *gin.Context) {
	tags, err := h.tags.List(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentHashtags(tags))
}

func (h *HashtagController) CreateHashtag(ctx *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	tag, err := h.tags.Create(ctx.Request.Context(), currentActor(ctx), req.Name)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"id": tag.ID, "name": tag.Name})
}

// DeleteHashtag is restricted to configured administrators.
func (h *HashtagController) DeleteHashtag(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	if err := h.tags.Delete(ctx.Request.Context(), currentActor(ctx), id); err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"message": "hashtag deleted"})
}

package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/config"
	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// PostController manages posts, their photos and derived views.
type PostController struct {
	posts *services.ContentStore
	feed  *services.FeedAssembler
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{
		posts: services.NewContentStore(db),
		feed:  services.NewFeedAssembler(db),
	}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string `json:"title" binding:"required"`
		Content  string `json:"content" binding:"required"`
		Hashtags []uint `json:"hashtags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), currentActor(ctx), services.PostInput{
		Title:      req.Title,
		Content:    req.Content,
		HashtagIDs: req.Hashtags,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, presentPost(*post))
}

// ListPosts lists posts matching every supplied filter, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	datePosted, ok := parseDate(ctx, "date_posted")
	if !ok {
		return
	}
	tags := ctx.QueryArray("tags[]")
	if len(tags) == 0 {
		tags = ctx.QueryArray("tags")
	}
	filter := services.PostFilter{
		AuthorUsername: ctx.Query("user__username"),
		Title:          ctx.Query("title"),
		DatePosted:     datePosted,
		Hashtags:       lo.Compact(lo.Map(tags, func(t string, _ int) string { return strings.TrimSpace(t) })),
	}

	page := parsePagination(ctx)
	posts, total, err := p.posts.List(ctx.Request.Context(), filter, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(posts, presentPostListItem), page, total)
}

// GetPost returns a post with reaction counts and comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	detail, err := p.feed.Detail(ctx.Request.Context(), *post)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentPostDetail(detail))
}

// UpdatePost changes the fields present in the payload. Only the author may edit.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		Hashtags *[]uint `json:"hashtags"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}
	if ctx.Request.Method == http.MethodPut && (req.Title == nil || req.Content == nil) {
		badRequest(ctx, "title and content are required")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), currentActor(ctx), id, services.PostUpdate{
		Title:      req.Title,
		Content:    req.Content,
		HashtagIDs: req.Hashtags,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentPost(*post))
}

// DeletePost removes a post with its reactions and comments. Only the author may delete.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	photo, err := p.posts.Delete(ctx.Request.Context(), currentActor(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.RemovePhoto(config.Get().UploadDir, photo)
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// UploadPhoto attaches an image to a post, replacing any previous one.
func (p *PostController) UploadPhoto(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	actor := currentActor(ctx)
	if _, err := p.posts.GetByAuthor(ctx.Request.Context(), actor.UserID, id); err != nil {
		respondError(ctx, err)
		return
	}

	// Accept common field name 'photo' or fallback to 'file'
	file, header, err := ctx.Request.FormFile("photo")
	if err != nil {
		file, header, err = ctx.Request.FormFile("file")
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
			return
		}
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.UploadMaxMB) << 20
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40032, "file too large")
		return
	}

	stored, err := utils.SavePhoto(cfg.UploadDir, header.Filename, file, maxSize)
	switch {
	case errors.Is(err, utils.ErrFileTooLarge):
		utils.Error(ctx, http.StatusBadRequest, 40032, "file too large")
		return
	case errors.Is(err, utils.ErrUnsupportedImage):
		utils.Error(ctx, http.StatusBadRequest, 40031, "unsupported image type")
		return
	case err != nil:
		respondError(ctx, err)
		return
	}

	previous, err := p.posts.SetPhoto(ctx.Request.Context(), actor, id, stored)
	if err != nil {
		utils.RemovePhoto(cfg.UploadDir, stored)
		respondError(ctx, err)
		return
	}
	utils.RemovePhoto(cfg.UploadDir, previous)

	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentPost(*post))
}

// ListMyPosts lists the caller's own posts.
func (p *PostController) ListMyPosts(ctx *gin.Context) {
	page := parsePagination(ctx)
	posts, total, err := p.posts.ListByAuthor(ctx.Request.Context(), currentActor(ctx).UserID, page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	respondList(ctx, lo.Map(posts, presentPostListItem), page, total)
}

// GetMyPost returns one of the caller's own posts in full.
func (p *PostController) GetMyPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	post, err := p.posts.GetByAuthor(ctx.Request.Context(), currentActor(ctx).UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	detail, err := p.feed.Detail(ctx.Request.Context(), *post)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentPostDetail(detail))
}

package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// StatsController provides site and per-post counters.
type StatsController struct {
	feed *services.FeedAssembler
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{feed: services.NewFeedAssembler(db)}
}

// GetStats returns aggregate statistics for the site.
func (s *StatsController) GetStats(ctx *gin.Context) {
	totals, err := s.feed.Totals(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, totals)
}

// GetPostStats returns like, dislike and comment counts of a post.
func (s *StatsController) GetPostStats(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	stats, err := s.feed.Stats(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, stats)
}

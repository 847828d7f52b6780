package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/socialhub/socialhub/config"
	"github.com/socialhub/socialhub/middleware"
	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

const dateLayout = "2006-01-02"

// respondError maps a service error onto the response envelope. Ownership
// failures answer 404 so callers cannot probe for rows they don't own.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSelfSubscription):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, services.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40000, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40100, "authentication required")
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
	case errors.Is(err, services.ErrDuplicateReaction):
		utils.Error(ctx, http.StatusConflict, 40901, err.Error())
	case errors.Is(err, services.ErrDuplicateSubscription):
		utils.Error(ctx, http.StatusConflict, 40902, err.Error())
	case errors.Is(err, services.ErrDuplicateAccount):
		utils.Error(ctx, http.StatusConflict, 40903, err.Error())
	default:
		utils.Logger.Error("request failed",
			zap.Error(err),
			zap.String("path", ctx.FullPath()),
			zap.String(utils.RequestIDKey, ctx.GetString(utils.RequestIDKey)),
		)
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
	}
}

func badRequest(ctx *gin.Context, message string) {
	utils.Error(ctx, http.StatusBadRequest, 40000, message)
}

// currentActor builds the acting identity from the auth middleware values.
func currentActor(ctx *gin.Context) services.Actor {
	userID, ok := getUserID(ctx)
	if !ok {
		return services.Actor{}
	}
	username := ctx.GetString(middleware.ContextUsernameKey)
	return services.Actor{
		UserID:   userID,
		Username: username,
		Admin:    config.Get().IsAdmin(username),
	}
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}
	v, ok := value.(uint)
	return v, ok && v != 0
}

func parsePagination(ctx *gin.Context) services.Page {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(ctx.Query("page")); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(ctx.Query("page_size")); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return services.Page{Number: page, Size: pageSize}
}

func respondList(ctx *gin.Context, items interface{}, page services.Page, total int64) {
	utils.List(ctx, items, utils.NewPagination(page.Number, page.Size, total))
}

// parseID reads a positive numeric path parameter, answering 404 when malformed.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusNotFound, 40400, "not found")
		return 0, false
	}
	return uint(id), true
}

// parseDate reads an optional YYYY-MM-DD query parameter.
func parseDate(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := strings.TrimSpace(ctx.Query(name))
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		badRequest(ctx, name+" must be formatted as YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

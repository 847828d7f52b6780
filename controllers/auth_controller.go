package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/config"
	"github.com/socialhub/socialhub/middleware"
	"github.com/socialhub/socialhub/models"
	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// AuthController handles registration, tokens and the caller's own account.
type AuthController struct {
	accounts *services.AccountStore
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{accounts: services.NewAccountStore(db)}
}

// Register opens a new account.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required"`
		Password  string `json:"password" binding:"required"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}

	user, err := a.accounts.Register(ctx.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Created(ctx, presentUser(*user))
}

// Login verifies user credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}

	user, err := a.accounts.Authenticate(ctx.Request.Context(), req.Username, req.Password)
	if errors.Is(err, services.ErrUnauthenticated) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  presentUser(*user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := ctx.GetString(middleware.ContextTokenKey)
	expiresAt, ok := ctx.Get(middleware.ContextTokenExpiryKey)
	if token == "" || !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}
	utils.BlacklistToken(token, expiresAt.(time.Time))
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the current authenticated user's information.
func (a *AuthController) Me(ctx *gin.Context) {
	actor := currentActor(ctx)
	user, err := a.accounts.Get(ctx.Request.Context(), actor.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	h := presentUser(*user)
	h["is_admin"] = actor.Admin
	utils.Success(ctx, h)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (a *AuthController) UpdateProfile(ctx *gin.Context) {
	var req struct {
		Username  *string `json:"username"`
		Email     *string `json:"email"`
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		AboutMe   *string `json:"about_me"`
		AvatarURL *string `json:"avatar_url"`
		Password  *string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request payload")
		return
	}

	user, err := a.accounts.UpdateProfile(ctx.Request.Context(), currentActor(ctx), services.ProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		AboutMe:   req.AboutMe,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentUser(*user))
}

// DeleteMe removes the caller's account with all of its content and revokes the token.
func (a *AuthController) DeleteMe(ctx *gin.Context) {
	photos, err := a.accounts.Delete(ctx.Request.Context(), currentActor(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	root := config.Get().UploadDir
	for _, p := range photos {
		utils.RemovePhoto(root, p)
	}
	if token := ctx.GetString(middleware.ContextTokenKey); token != "" {
		if exp, ok := ctx.Get(middleware.ContextTokenExpiryKey); ok {
			utils.BlacklistToken(token, exp.(time.Time))
		}
	}
	utils.Success(ctx, gin.H{"message": "account deleted"})
}

// ListUsers searches accounts by username.
func (a *AuthController) ListUsers(ctx *gin.Context) {
	page := parsePagination(ctx)
	users, total, err := a.accounts.Search(ctx.Request.Context(), strings.TrimSpace(ctx.Query("username")), page)
	if err != nil {
		respondError(ctx, err)
		return
	}
	items := lo.Map(users, func(u models.User, _ int) gin.H { return presentUser(u) })
	respondList(ctx, items, page, total)
}

// GetUser returns one account.
func (a *AuthController) GetUser(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	user, err := a.accounts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	utils.Success(ctx, presentUser(*user))
}

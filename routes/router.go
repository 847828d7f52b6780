package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/socialhub/socialhub/config"
	"github.com/socialhub/socialhub/controllers"
	"github.com/socialhub/socialhub/middleware"
	"github.com/socialhub/socialhub/services"
	"github.com/socialhub/socialhub/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}
	r.Use(middleware.Metrics())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/media", cfg.UploadDir)

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authController := controllers.NewAuthController(db)
	subscriptionController := controllers.NewSubscriptionController(db)
	postController := controllers.NewPostController(db)
	feedController := controllers.NewFeedController(db)
	commentController := controllers.NewCommentController(db)
	reactionController := controllers.NewReactionController(db)
	hashtagController := controllers.NewHashtagController(db)
	statsController := controllers.NewStatsController(db)
	accounts := services.NewAccountStore(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/user")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/token", authController.Login)

	public := api.Group("")
	public.Use(middleware.AuthOptional(accounts), middleware.RateLimitMiddleware())
	public.GET("/stats", statsController.GetStats)
	public.GET("/posts", postController.ListPosts)
	public.GET("/posts/:id", postController.GetPost)
	public.GET("/posts/:id/stats", statsController.GetPostStats)
	public.GET("/comments", commentController.ListComments)
	public.GET("/likes", reactionController.ListLikes)
	public.GET("/dislikes", reactionController.ListDislikes)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(accounts), middleware.RateLimitMiddleware())

	me := protected.Group("/user/me")
	me.GET("", authController.Me)
	me.PATCH("", authController.UpdateProfile)
	me.DELETE("", authController.DeleteMe)
	me.POST("/logout", authController.Logout)
	me.GET("/posts", postController.ListMyPosts)
	me.GET("/posts/:id", postController.GetMyPost)
	me.GET("/subscribers", subscriptionController.ListSubscribers)
	me.GET("/subscribers/:id", subscriptionController.GetSubscriber)
	me.GET("/subscriptions", subscriptionController.ListSubscriptions)
	me.GET("/subscriptions/:id", subscriptionController.GetSubscription)

	protected.GET("/user/users", authController.ListUsers)
	protected.GET("/user/users/:id", authController.GetUser)
	protected.POST("/user/users/:id/subscribe", subscriptionController.Subscribe)
	protected.DELETE("/user/users/:id/subscribe", subscriptionController.Unsubscribe)

	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.PATCH("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/photo", postController.UploadPhoto)

	protected.GET("/subscribed-posts", feedController.SubscribedPosts)
	protected.GET("/subscribed-posts/:id", feedController.SubscribedPost)
	protected.GET("/liked-posts", feedController.LikedPosts)
	protected.GET("/disliked-posts", feedController.DislikedPosts)

	protected.POST("/comments", commentController.CreateComment)
	protected.GET("/comments/:id", commentController.GetComment)
	protected.PUT("/comments/:id", commentController.UpdateComment)
	protected.PATCH("/comments/:id", commentController.UpdateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)

	protected.POST("/likes", reactionController.CreateLike)
	protected.GET("/likes/:id", reactionController.GetLike)
	protected.DELETE("/likes/:id", reactionController.DeleteLike)
	protected.POST("/dislikes", reactionController.CreateDislike)
	protected.GET("/dislikes/:id", reactionController.GetDislike)
	protected.DELETE("/dislikes/:id", reactionController.DeleteDislike)

	protected.GET("/hashtags", hashtagController.ListHashtags)
	protected.POST("/hashtags", hashtagController.CreateHashtag)
	protected.DELETE("/hashtags/:id", hashtagController.DeleteHashtag)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/booktracker/internal/auth"
	"github.com/mrlokans/booktracker/internal/database"
)

// RouterConfig carries all dependencies needed to build the router.
type RouterConfig struct {
	Database       *database.Database
	BookStore      BookStore
	CategoryStore  CategoryStore
	ReviewStore    ReviewStore
	GoalStore      GoalStore
	StatsStore     StatsStore
	Auditor        Auditor
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	TokenExpiry    time.Duration
	SecureCookies  bool
	Version        string
}

// NewRouter builds the Gin engine with all routes registered. Every /api
// route except register and login requires a valid token.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService, cfg.Auditor, cfg.TokenExpiry, cfg.SecureCookies)
	booksController := NewBooksController(cfg.BookStore, cfg.Auditor)
	categoriesController := NewCategoriesController(cfg.CategoryStore)
	reviewsController := NewReviewsController(cfg.ReviewStore, cfg.BookStore)
	goalsController := NewGoalsController(cfg.GoalStore)
	statsController := NewStatsController(cfg.StatsStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", authController.Register)
			authRoutes.POST("/login", authController.Login)
			authRoutes.POST("/logout", authController.Logout)
			authRoutes.GET("/me", authController.Me)
			authRoutes.DELETE("/me", authController.DeleteMe)
		}

		bookRoutes := api.Group("/books")
		{
			bookRoutes.GET("", booksController.ListBooks)
			bookRoutes.POST("", booksController.CreateBook)
			bookRoutes.GET("/:id", booksController.GetBook)
			bookRoutes.PUT("/:id", booksController.UpdateBook)
			bookRoutes.PATCH("/:id/progress", booksController.UpdateProgress)
			bookRoutes.DELETE("/:id", booksController.DeleteBook)
			bookRoutes.PUT("/:id/review", reviewsController.UpsertReview)
			bookRoutes.DELETE("/:id/review", reviewsController.DeleteReview)
		}

		api.GET("/categories", categoriesController.ListCategories)

		goalRoutes := api.Group("/goals")
		{
			goalRoutes.GET("", goalsController.ListGoals)
			goalRoutes.PUT("", goalsController.UpsertGoal)
		}

		api.GET("/stats", statsController.GetStats)
	}

	return router
}

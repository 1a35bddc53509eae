package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/handlers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()
	setupRoutes(r, db, cfg)

	log.Printf("listening on :%s (db driver %s)", cfg.Port, cfg.DBDriver)
	return r.Run(":" + cfg.Port)
}

// NewRouter builds the engine without gin's default logger and recovery.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	r := gin.New()
	setupRoutes(r, db, cfg)
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.JWTSecretMiddleware(cfg.JWTSecret))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/events/:id", middleware.OptionalAuthMiddleware(cfg.JWTSecret), handlers.GetEvent)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		organizerOnly := middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", organizerOnly, handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.PUT("/:id/questions", handlers.ReplaceQuestions)
			eventProtected.POST("/:id/registrations", handlers.RegisterForEvent)
			eventProtected.GET("/:id/registrations", handlers.ListEventRegistrations)
			eventProtected.POST("/:id/checkin", handlers.CheckIn)
		}

		registrationProtected := protected.Group("/registrations")
		{
			registrationProtected.GET("/:id", handlers.GetRegistration)
			registrationProtected.DELETE("/:id", handlers.CancelRegistration)
			registrationProtected.POST("/:id/decision", handlers.DecideRegistration)
			registrationProtected.GET("/:id/qr", handlers.RegistrationQR)
		}

		me := protected.Group("/me")
		{
			me.GET("", handlers.GetProfile)
			me.GET("/registrations", handlers.ListMyRegistrations)
		}
	}
}

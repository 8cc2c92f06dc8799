package main

import (
	"log"
	"time"

	"mastery-service/internal/config"
	"mastery-service/internal/content"
	"mastery-service/internal/db"
	"mastery-service/internal/event"
	"mastery-service/internal/handlers"
	"mastery-service/internal/repository"
	"mastery-service/internal/service"
	"mastery-service/internal/session"
	"mastery-service/internal/ws"
	"mastery-service/pkg/discovery"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	cfg := config.Load()

	db.InitMongo(cfg.Mongo.URI)
	defer db.Disconnect()
	database := db.Client.Database(cfg.Mongo.Database)

	// RabbitMQ event publisher
	var publisher *event.EventPublisher
	if cfg.Rabbit.URI != "" && cfg.Rabbit.Exchange != "" {
		var err error
		publisher, err = event.NewEventPublisher(cfg.Rabbit.URI, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, events will not be published")
	}

	// Consul registration is best effort; local dev runs without it.
	if cfg.Consul.Address != "" {
		registry, err := discovery.NewServiceRegistry(cfg)
		if err != nil {
			log.Printf("WARNING: consul client init failed: %v", err)
		} else if err := registry.Register(); err != nil {
			log.Printf("WARNING: consul registration failed: %v", err)
		} else {
			defer registry.Deregister()
		}
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	materialRepo := repository.NewMaterialRepository(database)
	conceptRepo := repository.NewConceptRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	stateRepo := repository.NewStateRepository(database)
	responseRepo := repository.NewResponseRepository(database)
	sessionRepo := repository.NewSessionRepository(database)
	userRepo := repository.NewUserRepository(database)
	store := repository.NewStore(stateRepo, responseRepo, questionRepo, sessionRepo, userRepo)

	// Services
	manager := session.NewManager()
	materialService := service.NewMaterialService(materialRepo, conceptRepo, questionRepo,
		content.NewTextExtractor(), content.NewTemplateGenerator())
	sessionService := service.NewSessionService(sessionRepo, materialRepo, conceptRepo, userRepo, store, manager)
	userService := service.NewUserService(userRepo, stateRepo)

	// Handlers
	materialHandler := handlers.NewMaterialHandler(materialService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	userHandler := handlers.NewUserHandler(userService)
	wsHandler := ws.NewHandler(manager)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "active_sessions": manager.ActiveCount()})
	})

	publicUser := r.Group("/public/learning/user")
	{
		publicUser.POST("/", userHandler.CreateOrGetUser)
		publicUser.GET("/:id/progress", userHandler.GetProgress)
	}

	publicMaterial := r.Group("/public/learning/material")
	{
		publicMaterial.GET("/:id/status", materialHandler.GetStatus)
		publicMaterial.GET("/:id/concepts", materialHandler.ListConcepts)
	}

	publicSession := r.Group("/public/learning/session")
	{
		publicSession.GET("/:id/stats", sessionHandler.GetStats)
	}

	protectedMaterial := r.Group("/protected/learning/material")
	{
		protectedMaterial.POST("/", func(c *gin.Context) {
			materialHandler.Upload(c)
			if publisher != nil {
				publisher.Publish(event.MaterialUploaded, gin.H{
					"user_id":   c.GetHeader("X-User-ID"),
					"timestamp": time.Now(),
				})
			}
		})
		protectedMaterial.GET("/", materialHandler.ListMaterials)
	}

	protectedSession := r.Group("/protected/learning/session")
	{
		protectedSession.POST("/start/:materialId", func(c *gin.Context) {
			sessionHandler.StartSession(c)
			if publisher != nil {
				publisher.Publish(event.SessionStarted, gin.H{
					"material_id": c.Param("materialId"),
					"user_id":     c.GetHeader("X-User-ID"),
					"timestamp":   time.Now(),
				})
			}
		})
		protectedSession.POST("/:id/end", func(c *gin.Context) {
			sessionHandler.EndSession(c)
			if publisher != nil {
				publisher.Publish(event.SessionEnded, gin.H{
					"session_id": c.Param("id"),
					"user_id":    c.GetHeader("X-User-ID"),
					"timestamp":  time.Now(),
				})
			}
		})
	}

	r.GET("/ws/:id", wsHandler.Serve)

	r.Run(":" + cfg.Service.Port)
}

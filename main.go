package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"frendora/internal/config"
	"frendora/internal/handlers"
	"frendora/internal/middleware"
	"frendora/internal/repositories"
	"frendora/internal/services"
	"frendora/internal/storage"
	"frendora/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// The process refuses to start on incomplete configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// --- Database ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting MongoDB: %v", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDatabase)

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	postRepo := repositories.NewMongoPostRepository(db)
	productRepo := repositories.NewMongoProductRepository(db)

	// --- Storage backend ---
	// Selected once at startup; handlers only ever see the interface.
	var backend storage.Backend
	var localBackend *storage.LocalBackend
	switch cfg.StorageDriver {
	case config.StorageLocal:
		localBackend, err = storage.NewLocalBackend(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to initialize local storage: %v", err)
		}
		backend = localBackend
		log.Printf("Using local storage in %s", cfg.UploadDir)
	case config.StorageRemote:
		backend, err = storage.NewMinioBackend(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Folder:    cfg.MinioFolder,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize remote storage: %v", err)
		}
		log.Printf("Using remote object storage, bucket %s", cfg.MinioBucket)
	}
	pipeline := storage.NewPipeline(backend, storage.Limits{
		MaxFileSize: cfg.MaxFileSize,
		MaxFiles:    cfg.MaxFiles,
	})

	// --- Activity events (optional) ---
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	if cfg.EventsAMQPURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.EventsAMQPURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	}

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, events)
	userService := services.NewUserService(userRepo)
	postService := services.NewPostService(postRepo, events)
	productService := services.NewProductService(productRepo)

	// --- Handlers ---
	dev := cfg.Development()
	userHandler := handlers.NewUserHandler(userService, authService, pipeline, dev)
	postHandler := handlers.NewPostHandler(postService, pipeline, dev)
	productHandler := handlers.NewProductHandler(productService, dev)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		BodyLimit: int(cfg.MaxFileSize)*cfg.MaxFiles + 1024*1024,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.Origins(), ","),
		AllowCredentials: true,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization,X-Requested-With,Origin,Accept",
	}))

	// Locally stored uploads are served back under /uploads; the remote
	// backend returns absolute URLs instead.
	if localBackend != nil {
		app.Static(storage.PublicUploadPath, localBackend.Dir())
	}

	// --- API routes ---
	auth := middleware.AuthRequired(authService)
	api := app.Group("/api")
	userHandler.RegisterRoutes(api, auth)
	postHandler.RegisterRoutes(api, auth)
	productHandler.RegisterRoutes(api)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Activity event consumer ---
	if mqClient != nil {
		log.Println("Starting activity event consumer...")
		messageHandler := func(msg amqp.Delivery) error {
			log.Printf("Activity event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
			return nil
		}
		if consumerErr := mqClient.ConsumeEvents(messageHandler); consumerErr != nil {
			log.Printf("Failed to start activity event consumer: %v", consumerErr)
		}
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

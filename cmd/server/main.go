package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spatialboard/internal/cache"
	"spatialboard/internal/catalog"
	"spatialboard/internal/config"
	"spatialboard/internal/repository"
	"spatialboard/internal/service"
	"spatialboard/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	cfg := config.Load()
	log.Printf("Data file: %s", cfg.DataFile)

	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Reflect model: %s", aiConfig.Models.Reflect)
	log.Printf("  Chat model:    %s", aiConfig.Models.Chat)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:       configured ✓")
	} else {
		log.Println("  API Key:       NOT SET (offline reflections)")
	}

	// MongoDB is optional: it only backs the local attachment store.
	var attachmentRepo repository.AttachmentRepo
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		defer mongoClient.Disconnect(ctx)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			log.Fatal("Failed to ping MongoDB:", err)
		}
		log.Println("Connected to MongoDB")
		attachmentRepo = repository.NewAttachmentRepo(mongoClient.Database("spatialboard"))
	}

	// Redis is optional: without it session state stays in process memory.
	var sessionStore cache.SessionStore
	if cfg.RedisURI != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		defer rdb.Close()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Fatal("Failed to ping Redis:", err)
		}
		log.Println("Connected to Redis")
		sessionStore = cache.NewRedisSessionStore(rdb)
	} else {
		log.Println("REDIS_URI not set, using in-memory session store")
		sessionStore = cache.NewMemorySessionStore()
	}

	// Attachment sink: Drive when configured, the Mongo blob store as the
	// local fallback, otherwise uploads are skipped.
	var sink service.Sink
	switch {
	case cfg.Drive.Configured():
		log.Println("Attachments: Google Drive folder", cfg.Drive.FolderID)
		sink = service.NewDriveSink(cfg.Drive)
	case attachmentRepo != nil:
		log.Println("Attachments: local blob store")
		sink = service.NewBlobSink(attachmentRepo, cfg.PublicBaseURL)
	default:
		log.Println("Attachments: not configured, uploads will be skipped")
		sink = service.NewDisabledSink()
	}

	cat := catalog.New(cfg.Roster, cfg.Tags)
	observationRepo := repository.NewObservationRepo(cfg.DataFile)

	historySvc := service.NewHistoryService(observationRepo)
	reflectionSvc := service.NewReflectionService(aiConfig)
	attachmentSvc := service.NewAttachmentService(sink)
	sessionSvc := service.NewSessionService(sessionStore, historySvc, reflectionSvc, cat)
	observationSvc := service.NewObservationService(observationRepo, sessionStore, attachmentSvc, reflectionSvc, cat)

	container := &rest.Container{
		SessionService:     sessionSvc,
		ObservationService: observationSvc,
		Catalog:            cat,
		AttachmentRepo:     attachmentRepo,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  GET  /")
		log.Println("  POST /v1/sessions")
		log.Println("  GET  /v1/sessions/{id}")
		log.Println("  POST /v1/sessions/{id}/student")
		log.Println("  POST /v1/sessions/{id}/reflect")
		log.Println("  POST /v1/sessions/{id}/observations")
		log.Println("  POST /v1/sessions/{id}/chat")
		log.Println("  GET  /v1/catalog")
		log.Println("  GET  /v1/files/{id}")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/byteedoc/portfolio-api/handlers"
	"github.com/byteedoc/portfolio-api/internal/database"
	"github.com/byteedoc/portfolio-api/internal/storage"
	"github.com/byteedoc/portfolio-api/internal/store"
	"github.com/byteedoc/portfolio-api/pkg/middleware"
)

// Standalone content service: the public site endpoints plus the editor
// routes without auth, sessions, or metrics. Useful for local frontend
// development against an empty store.
func main() {
	port := os.Getenv("CONTENT_SERVICE_PORT")
	if port == "" {
		port = "5010"
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Prefer Mongo when MONGODB_URI is provided; fall back to memory.
	var docs store.DocumentStore
	if mongoURI := os.Getenv("MONGODB_URI"); mongoURI != "" {
		client, err := database.ConnectMongo(context.Background(), mongoURI, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using memory-backed store", err)
			docs = store.NewMemoryStore()
		} else {
			docs = store.NewMongoStore(client.Database(os.Getenv("MONGODB_DATABASE")))
		}
	} else {
		docs = store.NewMemoryStore()
	}

	var blobs storage.BlobStore
	minioCfg := storage.LoadMinIOConfig()
	if minioCfg.Endpoint != "" {
		ms, err := storage.NewMinIOStorage(minioCfg)
		if err != nil {
			log.Fatalf("minio init: %v", err)
		}
		blobs = ms
	} else {
		blobs = storage.NewMemoryStorage()
	}

	h := handlers.NewContentHandler(docs, blobs)
	h.RegisterPublic(r.Group("/api"), middleware.RateLimitMiddleware(5, 10))
	h.RegisterAdmin(r.Group("/api/admin"))

	log.Printf("content service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

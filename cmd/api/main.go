package main

import (
	"log"
	"strings"
	"time"

	"product-store/internal/cache"
	"product-store/internal/catalog"
	"product-store/internal/config"
	"product-store/internal/database"
	"product-store/internal/handlers"
	"product-store/internal/repository"
	"product-store/internal/routes"
	"product-store/internal/storage"
	"product-store/internal/uploads"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	client := database.Connect(cfg.MongoURI)
	db := client.Database(cfg.MongoDB)

	store, err := storage.NewDisk(cfg.UploadDir)
	if err != nil {
		log.Fatal("❌ Could not prepare upload directory:", err)
	}

	repo := repository.NewProductRepository(db.Collection("products"))
	coordinator := catalog.NewCoordinator(repo, store, cfg.AppURL)
	query := catalog.NewQuery(repo)
	receiver := uploads.NewReceiver(store, cfg.MaxUploadBytes)

	router := gin.Default()

	if cfg.AllowedOrigins != "" {
		allowed := map[string]bool{}
		for _, origin := range strings.Split(cfg.AllowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed[origin] = true
			}
		}
		router.Use(cors.New(cors.Config{
			AllowOriginFunc: func(origin string) bool {
				return allowed[origin]
			},
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	// Serve the stored images at the path their public URIs point to.
	router.Static("/uploads", store.Dir())

	responseCache := cache.New(5 * time.Minute)
	routes.RegisterRoutes(router, handlers.NewProductHandler(coordinator, query, receiver, responseCache))

	log.Println("🚀 Server running on port", cfg.Port)
	router.Run(":" + cfg.Port)
}

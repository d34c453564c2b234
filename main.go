package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/alboomhq/alboombackend/config"
	"github.com/alboomhq/alboombackend/database"
	"github.com/alboomhq/alboombackend/handlers"
	"github.com/alboomhq/alboombackend/media"
	"github.com/alboomhq/alboombackend/repository"
	"github.com/alboomhq/alboombackend/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.MediaStoragePath, cfg.ArchivesPath, filepath.Dir(cfg.DatabasePath)}
	for _, p := range storagePaths {
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get raw database handle: %v", err)
	}

	blobStore, err := media.NewLocalStorage(cfg.MediaStoragePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize blob store: %v", err)
	}
	deriver := media.NewDeriver(cfg.ThumbnailWidth, cfg.ThumbnailHeight, cfg.ThumbnailQuality)

	photographerRepo := repository.NewPhotographerRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)

	pipeline := services.NewIngestionPipeline(photoRepo, blobStore, deriver, cfg)
	selections := services.NewSelectionSynchronizer(photoRepo, selectionRepo)
	debouncer := services.NewSelectionDebouncer(selections, services.DefaultDebounceDelay)
	defer debouncer.Stop()
	gate := services.NewAccessGate(sessionRepo)

	log.Printf("Storing media in: %s", cfg.MediaStoragePath)
	log.Printf("Thumbnail transform: %dx%d cover, JPEG quality %d", cfg.ThumbnailWidth, cfg.ThumbnailHeight, cfg.ThumbnailQuality)
	log.Printf("Ingestion batch size: %d, session photo cap: %d", cfg.IngestBatchSize, cfg.MaxPhotosPerSession)

	authHandler := handlers.NewAuthHandler(photographerRepo, cfg.JWTSecret)
	sessionHandler := &handlers.SessionHandler{
		Sessions:   sessionRepo,
		Photos:     photoRepo,
		Selections: selections,
		Blobs:      blobStore,
		StatsDB:    sqlDB,
		Cfg:        cfg,
	}
	photoHandler := &handlers.PhotoHandler{Sessions: sessionRepo, Pipeline: pipeline, Cfg: cfg}
	clientHandler := &handlers.ClientHandler{Gate: gate, Photos: photoRepo, Selections: selections, Debouncer: debouncer}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))
	r.Use(corsHandler.Handler)

	requireAuth := handlers.AuthMiddleware(photographerRepo, []byte(cfg.JWTSecret))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.With(requireAuth).Get("/me", authHandler.CurrentUser)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", sessionHandler.CreateSession)
			r.Get("/", sessionHandler.ListSessions)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", sessionHandler.GetSession)
				r.Put("/status", sessionHandler.UpdateSessionStatus)
				r.Delete("/", sessionHandler.DeleteSession)
				r.Post("/photos", photoHandler.UploadPhotos)
				r.Get("/export", sessionHandler.ExportSelection)
				r.Get("/archive", sessionHandler.DownloadSelectionArchive)
			})
		})

		r.With(requireAuth).Get("/stats", sessionHandler.GetStats)

		r.Route("/client/sessions/{token}", func(r chi.Router) {
			r.Get("/", clientHandler.GetSession)
			r.Post("/selections", clientHandler.SaveSelections)
		})

		r.Get("/assets/*", handlers.AssetServer(cfg.MediaStoragePath))
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"OK","timestamp":%q}`, time.Now().UTC().Format(time.RFC3339))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/camden-git/cullsysbackend/auth"
	"github.com/camden-git/cullsysbackend/config"
	"github.com/camden-git/cullsysbackend/handlers"
	"github.com/camden-git/cullsysbackend/library"
	"github.com/camden-git/cullsysbackend/lifecycle"
	"github.com/camden-git/cullsysbackend/metadata"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg := config.LoadConfig()

	registry, err := config.LoadRegistry(cfg.SettingsPath)
	if err != nil {
		log.Fatalf("FATAL: Failed to load settings: %v", err)
	}
	if registry.AuthSecret() == "" {
		log.Printf("Warning: no auth secret configured; all requests will be rejected until AUTH_SECRET is set")
	}
	if base, err := registry.BaseDirectory(); err == nil {
		log.Printf("Serving image library from: %s", base)
	} else {
		log.Printf("Base directory not configured yet; set it via PUT /api/settings/base-directory")
	}

	store := metadata.NewStore(registry)
	locator := library.NewLocator(registry, store)
	engine := lifecycle.NewEngine(registry, store)
	gate := auth.NewGate(registry)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", handlers.SecretHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	authHandler := &handlers.AuthHandler{Gate: gate}
	imageHandler := &handlers.ImageHandler{Locator: locator, Engine: engine}
	settingsHandler := &handlers.SettingsHandler{Registry: registry}
	exportHandler := &handlers.ExportHandler{Registry: registry, Locator: locator}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/token", authHandler.IssueToken)

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler { return handlers.RequireAuth(gate, next) })

			r.Route("/images", func(r chi.Router) {
				r.Get("/", imageHandler.List)
				r.Get("/{location:base|trash|picks}", imageHandler.List)
				r.Get("/{location:base|trash|picks}/{filename}/file", imageHandler.ServeFile)

				r.Post("/trash/empty", imageHandler.EmptyTrash)

				r.Route("/{filename}", func(r chi.Router) {
					r.Post("/trash", imageHandler.Trash)
					r.Post("/restore", imageHandler.Restore)
					r.Post("/pick", imageHandler.Pick)
					r.Post("/demote", imageHandler.Demote)
					r.Put("/rating", imageHandler.SetRating)
					r.Put("/metadata", imageHandler.UpdateMetadata)
				})
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsHandler.Get)
				r.Put("/base-directory", settingsHandler.SetBaseDirectory)
			})

			r.Route("/export", func(r chi.Router) {
				r.Get("/prompts", exportHandler.Prompts)
				r.Get("/picks", exportHandler.Picks)
			})
		})
	})

	serverAddr := ":" + cfg.Port
	fmt.Printf("Server starting on http://localhost:%s\n", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

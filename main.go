// Main entry point of the AI doctor backend. It loads configuration,
// connects to the database, runs migrations, wires services and handlers
// together through explicit dependency passing, sets up the HTTP router and
// middleware, and starts the server with graceful shutdown.
//
// @title AI Doctor API
// @version 1.0
// @description API for the AI doctor demo backend: auth plus speech, vision, and voice proxies.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/aidoctor-go/apperror"
	"github.com/user/aidoctor-go/auth"
	"github.com/user/aidoctor-go/brain"
	"github.com/user/aidoctor-go/config"
	"github.com/user/aidoctor-go/db"
	"github.com/user/aidoctor-go/doctor"
	_ "github.com/user/aidoctor-go/docs" // generated Swagger docs
	"github.com/user/aidoctor-go/patient"
)

func main() {
	// .env support for development; production sets variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pool, err := db.NewDBPool(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to create database pool: %v", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Services hold the business logic; handlers translate HTTP to service
	// calls. Dependencies are injected explicitly at construction.
	userStore := auth.NewPostgresUserStore(pool)
	authService := auth.NewAuthService(userStore, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	patientHandlers := patient.NewHandlers(patient.NewService(*cfg.Groq))
	brainHandlers := brain.NewHandlers(brain.NewService(*cfg.Groq))
	doctorHandlers := doctor.NewHandlers(doctor.NewService(*cfg.TTS))

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(120 * time.Second)) // transcription uploads can be slow

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Panic recovery that renders the standard error shape instead of a
	// bare 500.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Printf("Panic: %+v", rvr)
					writeError(ww, apperror.NewInternalError("internal server error", nil))
				}
			}()
			next.ServeHTTP(ww, r)
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Public auth routes.
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})

	// Everything below the gate requires a valid bearer token; the
	// middleware derives the authenticated username from the token alone,
	// with no server-side session state.
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTMiddleware(cfg.Auth))

		r.Get("/ai_doctor", authHandlers.HandleAIDoctor())

		r.Route("/patient", func(r chi.Router) {
			r.Post("/transcribe", patientHandlers.HandleTranscribe())
		})
		r.Route("/brain", func(r chi.Router) {
			r.Post("/analyze", brainHandlers.HandleAnalyze())
			r.Post("/encode", brainHandlers.HandleEncode())
		})
		r.Route("/doctor", func(r chi.Router) {
			r.Post("/speak", doctorHandlers.HandleSpeak())
		})
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  120 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run the server in its own goroutine so the main goroutine can wait
	// for shutdown signals.
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	log.Println("Server stopped gracefully")
}

// writeError is a local helper for the panic recovery middleware; it keeps
// the recovery path independent of the handler packages.
func writeError(w http.ResponseWriter, appErr *apperror.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(appErr.ToResponse()); err != nil {
		http.Error(w, `{"detail":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}

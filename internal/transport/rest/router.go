package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"spatialboard/internal/catalog"
	"spatialboard/internal/repository"
	"spatialboard/internal/service"
	"spatialboard/internal/transport/rest/handler"
	"spatialboard/web"
)

// Container holds all dependencies for the router
type Container struct {
	SessionService     *service.SessionService
	ObservationService *service.ObservationService
	Catalog            *catalog.Catalog

	// AttachmentRepo is nil when Mongo is not configured; the files
	// endpoint then answers 404.
	AttachmentRepo repository.AttachmentRepo
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(c.SessionService)
	observationHandler := handler.NewObservationHandler(c.ObservationService)
	catalogHandler := handler.NewCatalogHandler(c.Catalog)
	fileHandler := handler.NewFileHandler(c.AttachmentRepo)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/student", sessionHandler.SelectStudent).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/reflect", observationHandler.Reflect).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/observations", observationHandler.Save).Methods("POST", "OPTIONS")
	v1.HandleFunc("/sessions/{id}/chat", sessionHandler.Chat).Methods("POST", "OPTIONS")
	v1.HandleFunc("/catalog", catalogHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/files/{id}", fileHandler.Get).Methods("GET", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Embedded dashboard page
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(web.Index)
	}).Methods("GET")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

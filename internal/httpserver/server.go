package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/health-assistant/internal/ai"
	"github.com/fdg312/health-assistant/internal/auth"
	"github.com/fdg312/health-assistant/internal/blob"
	"github.com/fdg312/health-assistant/internal/chat"
	"github.com/fdg312/health-assistant/internal/config"
	"github.com/fdg312/health-assistant/internal/feed"
	"github.com/fdg312/health-assistant/internal/food"
	"github.com/fdg312/health-assistant/internal/ingredients"
	"github.com/fdg312/health-assistant/internal/insights"
	"github.com/fdg312/health-assistant/internal/profiles"
	"github.com/fdg312/health-assistant/internal/reports"
	"github.com/fdg312/health-assistant/internal/storage"
	"github.com/fdg312/health-assistant/internal/storage/memory"
	"github.com/fdg312/health-assistant/internal/storage/postgres"
	"github.com/fdg312/health-assistant/internal/tracking"
)

type Server struct {
	config    *config.Config
	mux       *http.ServeMux
	storage   storage.Storage
	provider  ai.Provider
	blobStore blob.Store
	handler   http.Handler
	httpSrv   *http.Server
}

// New builds the server with the provider chosen by AI_MODE.
func New(cfg *config.Config) *Server {
	return NewWithProvider(cfg, ai.NewProvider(cfg))
}

// NewWithProvider builds the server around an explicit provider.
func NewWithProvider(cfg *config.Config, provider ai.Provider) *Server {
	s := &Server{
		config:   cfg,
		mux:      http.NewServeMux(),
		provider: provider,
	}

	s.initStorage()
	s.initBlobStore()
	s.routes()
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// initStorage picks Postgres when a database URL is configured and falls back to memory.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: postgres connection failed: %v", err)
		log.Println("WARN storage: falling back to in-memory storage")
		s.storage = memory.New()
		return
	}
	log.Println("INFO storage: postgres connected")
	s.storage = pgStorage
}

func (s *Server) initBlobStore() {
	store, mode, err := blob.NewBlobStore(context.Background(), s.config.BlobMode, s.config.S3, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	s.blobStore = store
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Profile
	profileService := profiles.NewService(s.storage)
	profileHandler := profiles.NewHandler(profileService)
	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/profile", profileHandler.HandleUpsert)

	// Food
	foodHandler := food.NewHandler(food.NewService(s.storage, profileService, s.provider))
	s.mux.HandleFunc("POST /v1/food/parse", foodHandler.HandleParse)
	s.mux.HandleFunc("POST /v1/food/logs", foodHandler.HandleCreateLog)
	s.mux.HandleFunc("GET /v1/food/logs", foodHandler.HandleListLogs)
	s.mux.HandleFunc("DELETE /v1/food/logs/{id}", foodHandler.HandleDeleteLog)

	// Workouts and body weight
	trackingHandler := tracking.NewHandler(tracking.NewService(s.storage))
	s.mux.HandleFunc("POST /v1/workouts/logs", trackingHandler.HandleCreateWorkout)
	s.mux.HandleFunc("GET /v1/workouts/logs", trackingHandler.HandleListWorkouts)
	s.mux.HandleFunc("DELETE /v1/workouts/logs/{id}", trackingHandler.HandleDeleteWorkout)
	s.mux.HandleFunc("POST /v1/body/logs", trackingHandler.HandleCreateBody)
	s.mux.HandleFunc("GET /v1/body/logs", trackingHandler.HandleListBody)
	s.mux.HandleFunc("DELETE /v1/body/logs/{id}", trackingHandler.HandleDeleteBody)

	// Ingredients
	ingredientsHandler := ingredients.NewHandler(ingredients.NewService(s.storage, profileService, s.provider))
	s.mux.HandleFunc("POST /v1/ingredient/analyze", ingredientsHandler.HandleAnalyze)
	s.mux.HandleFunc("GET /v1/ingredient/checks", ingredientsHandler.HandleListChecks)
	s.mux.HandleFunc("DELETE /v1/ingredient/checks/{id}", ingredientsHandler.HandleDeleteCheck)

	// Insights and reports
	presignTTL := time.Duration(s.config.S3.PresignTTLSeconds) * time.Second
	insightsService := insights.NewService(s.storage, s.provider, reports.NewGenerator(s.config.ReportsFontPath), s.blobStore, presignTTL)
	insightsHandler := insights.NewHandler(insightsService)
	s.mux.HandleFunc("POST /v1/insight/generate", insightsHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/insight/daily", insightsHandler.HandleGetDaily)
	s.mux.HandleFunc("GET /v1/insight/daily/report", insightsHandler.HandleReport)

	// Dashboard
	s.mux.HandleFunc("GET /v1/dashboard", feed.HandleGetDashboard(feed.NewService(s.storage)))

	// Chat
	chatService := chat.NewService(chat.NewRouter(s.provider, s.storage), s.storage, profileService)
	chatHandler := chat.NewHandler(chatService)
	s.mux.HandleFunc("POST /v1/chat/message", chatHandler.HandleSendMessage)
	s.mux.HandleFunc("GET /v1/chat/history", chatHandler.HandleHistory)

	// Middleware chain, outermost first: CORS, rate limit, auth, mux.
	authMiddleware := auth.NewMiddleware(s.config, authService)
	var handler http.Handler = s.mux
	handler = authMiddleware.Authenticate(handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	s.handler = handler
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"ai_mode": s.config.AIMode,
	})
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Printf("INFO server: listening on http://localhost%s", s.httpSrv.Addr)
	log.Printf("INFO server: health check http://localhost%s/healthz", s.httpSrv.Addr)

	return s.httpSrv.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Close releases the storage backend.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}

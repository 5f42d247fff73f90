// Package server provides the noteforge HTTP service.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/noteforge/noteforge/internal/auth"
	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/dashboard"
	"github.com/noteforge/noteforge/internal/db/gorm"
	"github.com/noteforge/noteforge/internal/enrichment"
	"github.com/noteforge/noteforge/internal/notes"
	"github.com/noteforge/noteforge/internal/todos"
	"github.com/noteforge/noteforge/internal/watcher"
	"github.com/noteforge/noteforge/pkg/models"
)

// disabledEnricher stands in when no provider API key is configured.
// Notes created against it stay in the analyzing state forever.
type disabledEnricher struct{}

func (disabledEnricher) Analyze(context.Context, string) (*models.AnalysisResult, error) {
	return nil, fmt.Errorf("%w: enrichment provider not configured", models.ErrUpstream)
}

const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// MaxRequestBodySize caps incoming request bodies at 1 MiB.
	MaxRequestBodySize = 1 << 20
)

// Service is the HTTP service orchestrator. The server starts
// immediately with the health endpoint available while database and
// provider initialization happens in the background.
type Service struct {
	version string
	config  *config.Config

	// Database
	store     *gorm.Store
	noteStore *gorm.NoteStore
	todoStore *gorm.TodoStore
	userStore *gorm.UserStore

	// Domain services
	authSvc *auth.Service
	noteSvc *notes.Service
	todoSvc *todos.Service
	dashSvc *dashboard.Service

	// HTTP server
	router    *chi.Mux
	server    *http.Server
	startTime time.Time

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Initialization state (for deferred init)
	ready     atomic.Bool
	initError error
	initMu    sync.RWMutex

	// Settings file watcher (triggers restart on change)
	settingsWatcher *watcher.Watcher
}

// NewService creates a service with deferred initialization.
func NewService(version string) (*Service, error) {
	cfg := config.Get()
	ctx, cancel := context.WithCancel(context.Background())

	svc := &Service{
		version:   version,
		config:    cfg,
		router:    chi.NewRouter(),
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	svc.setupMiddleware()
	svc.setupRoutes()

	go svc.initializeAsync()

	return svc, nil
}

// initializeAsync performs heavy initialization in the background.
func (s *Service) initializeAsync() {
	log.Info().Msg("Starting async initialization...")

	if err := config.EnsureDataDir(); err != nil {
		s.setInitError(fmt.Errorf("ensure data dir: %w", err))
		return
	}
	if s.config.DatabaseDSN == "" {
		s.setInitError(fmt.Errorf("DATABASE_DSN is not configured"))
		return
	}

	// Database init includes migrations and can be slow.
	store, err := gorm.NewStore(gorm.Config{
		DSN:      s.config.DatabaseDSN,
		MaxConns: s.config.MaxConns,
	})
	if err != nil {
		s.setInitError(fmt.Errorf("init database: %w", err))
		return
	}

	noteStore := gorm.NewNoteStore(store)
	todoStore := gorm.NewTodoStore(store)
	userStore := gorm.NewUserStore(store)

	authSvc, err := auth.NewService(userStore, s.authConfig())
	if err != nil {
		_ = store.Close()
		s.setInitError(fmt.Errorf("init auth: %w", err))
		return
	}

	// The enrichment client is optional: without an API key, notes are
	// still created but stay un-analyzed.
	var enricher notes.Enricher
	client, err := enrichment.NewClient(enrichment.Config{
		APIKey:  s.config.OpenAIAPIKey,
		BaseURL: s.config.OpenAIBaseURL,
		Model:   s.config.OpenAIModel,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Enrichment provider not configured - notes will not be analyzed")
		enricher = disabledEnricher{}
	} else {
		enricher = client
	}

	noteSvc := notes.NewService(noteStore, todoStore, enricher)
	todoSvc := todos.NewService(todoStore, noteStore)
	dashSvc := dashboard.NewService(noteStore)

	s.initMu.Lock()
	s.store = store
	s.noteStore = noteStore
	s.todoStore = todoStore
	s.userStore = userStore
	s.authSvc = authSvc
	s.noteSvc = noteSvc
	s.todoSvc = todoSvc
	s.dashSvc = dashSvc
	s.initMu.Unlock()

	s.ready.Store(true)
	log.Info().Msg("Async initialization complete - service ready")

	s.startSettingsWatcher()
}

// authConfig builds token settings from the loaded configuration,
// generating ephemeral secrets when none are configured. Ephemeral
// secrets invalidate all tokens on restart.
func (s *Service) authConfig() auth.Config {
	cfg := auth.Config{
		AccessSecret:  s.config.JWTSecret,
		RefreshSecret: s.config.JWTRefreshSecret,
		AccessTTL:     s.config.AccessTokenTTL,
		RefreshTTL:    s.config.RefreshTokenTTL,
	}
	if cfg.AccessSecret == "" {
		log.Warn().Msg("NOTEFORGE_JWT_SECRET not set - using an ephemeral signing secret")
		cfg.AccessSecret = randomSecret()
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = randomSecret()
	}
	return cfg
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// startSettingsWatcher watches the settings file and triggers a clean
// exit on change so a supervisor can restart the process with fresh
// configuration.
func (s *Service) startSettingsWatcher() {
	settingsPath := config.SettingsPath()
	w, err := watcher.New(settingsPath, func() {
		log.Warn().Str("path", settingsPath).Msg("Settings changed, triggering graceful restart...")
		os.Exit(0)
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create settings watcher")
		return
	}
	s.settingsWatcher = w
	w.Start()
	log.Info().Str("path", settingsPath).Msg("Settings file watcher started")
}

// setInitError records an initialization error.
func (s *Service) setInitError(err error) {
	s.initMu.Lock()
	s.initError = err
	s.initMu.Unlock()
	log.Error().Err(err).Msg("Async initialization failed")
}

// GetInitError returns any initialization error.
func (s *Service) GetInitError() error {
	s.initMu.RLock()
	defer s.initMu.RUnlock()
	return s.initError
}

// setupMiddleware configures HTTP middleware.
func (s *Service) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(DefaultHTTPTimeout))
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestID)
	s.router.Use(SecurityHeaders)
	s.router.Use(MaxBodySize(MaxRequestBodySize))
}

// setupRoutes configures HTTP routes.
func (s *Service) setupRoutes() {
	// Health returns 200 immediately so probes connect during init.
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/api/health", s.handleHealth)

	// Readiness returns 200 only when fully initialized.
	s.router.Get("/api/ready", s.handleReady)

	// Account routes need the database but no token.
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireReady)

		r.Post("/api/auth/signup", s.handleSignup)
		r.Post("/api/auth/login", s.handleLogin)
		r.Post("/api/auth/refresh", s.handleRefresh)
	})

	// Everything else requires a valid access token.
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireReady)
		r.Use(s.requireAuth)

		r.Post("/api/notes", s.handleCreateNote)
		r.Get("/api/notes", s.handleListNotes)
		r.Get("/api/notes/{id}", s.handleGetNote)
		r.Patch("/api/notes/{id}", s.handleUpdateNote)
		r.Delete("/api/notes/{id}", s.handleDeleteNote)
		r.Get("/api/notes/{id}/analysis", s.handleGetAnalysis)
		r.Post("/api/notes/{id}/todos", s.handleAcceptTodos)

		r.Get("/api/dashboard", s.handleDashboard)
		r.Get("/api/dashboard/todos", s.handleListTodos)
		r.Post("/api/dashboard/todos", s.handleCreateTodo)
		r.Patch("/api/dashboard/todos/{id}", s.handleUpdateTodo)
		r.Delete("/api/dashboard/todos/{id}", s.handleDeleteTodo)
	})
}

// Start starts the HTTP server. Initialization continues in the
// background; requests past /health 503 until it completes.
func (s *Service) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	log.Info().
		Int("port", s.config.Port).
		Int("pid", os.Getpid()).
		Msg("HTTP server started (initialization in progress)")
	return nil
}

// Shutdown gracefully shuts down the service, waiting for in-flight
// enrichment tasks before closing the database.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	if s.settingsWatcher != nil {
		s.settingsWatcher.Stop()
	}

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}
	}

	s.initMu.RLock()
	noteSvc := s.noteSvc
	store := s.store
	s.initMu.RUnlock()

	if noteSvc != nil {
		noteSvc.Wait()
	}
	if store != nil {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Database close error")
		}
	}

	s.wg.Wait()
	log.Info().Msg("Service shutdown complete")
	return nil
}

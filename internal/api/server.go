package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/aitrpg/internal/config"
	"github.com/dgallion1/aitrpg/internal/importer"
	"github.com/dgallion1/aitrpg/internal/logsink"
	"github.com/dgallion1/aitrpg/internal/paths"
	"github.com/dgallion1/aitrpg/internal/setting"
	"github.com/dgallion1/aitrpg/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// Deps are the components the command server fronts.
type Deps struct {
	Paths     *paths.Resolver
	Importer  *importer.Importer
	Lorebooks *setting.Generator
	Sink      *logsink.Sink
}

// Server is the local HTTP command surface the desktop shell calls.
type Server struct {
	router    chi.Router
	docs      map[string]*store.DocumentStore
	config    *store.ConfigStore
	importer  *importer.Importer
	lorebooks *setting.Generator
	sink      *logsink.Sink
	paths     *paths.Resolver
	log       *slog.Logger
	cfg       config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 52428800
	}
	s := &Server{
		docs:      make(map[string]*store.DocumentStore, len(store.Categories)),
		config:    store.NewConfigStore(deps.Paths, log),
		importer:  deps.Importer,
		lorebooks: deps.Lorebooks,
		sink:      deps.Sink,
		paths:     deps.Paths,
		log:       log,
		cfg:       cfg,
	}
	for _, c := range store.Categories {
		s.docs[c.Dir] = store.NewDocumentStore(deps.Paths, c, log)
	}
	if s.importer == nil {
		s.importer, _ = importer.New(importer.WithLogger(log))
	}
	if s.lorebooks == nil {
		s.lorebooks = setting.NewGenerator()
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// CORS first so preflight requests never reach auth.
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		}).Handler)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.APIKey, s.log))
		}

		r.Get("/api/config", s.handleGetConfig)
		r.Put("/api/config", s.handlePutConfig)

		r.Post("/api/import/tree", s.handleImportTree)
		r.Post("/api/import/settings", s.handleImportSettings)
		r.Post("/api/import/lorebook", s.handleImportLorebook)

		r.Post("/api/log", s.handleWriteLog)
		r.Get("/api/logs", s.handleListLogs)
		r.Get("/api/logs/{name}", s.handleReadLog)

		r.Get("/api/stats", s.handleStats)

		r.Get("/api/worldlines/{filename}/export", s.handleExportWorldline)
		r.Post("/api/worldlines/import", s.handleImportWorldline)

		r.Get("/api/{category}", s.handleListDocuments)
		r.Get("/api/{category}/{filename}", s.handleLoadDocument)
		r.Put("/api/{category}/{filename}", s.handleSaveDocument)
		r.Delete("/api/{category}/{filename}", s.handleDeleteDocument)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// Package http serves the dashboard and its form endpoints. Pages are
// rendered server side from embedded templates; mutations come in as form
// posts and answer with the re-rendered month section, so the browser swaps
// one fragment instead of reloading.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"gastos/internal/amqp"
	"gastos/internal/auth"
	"gastos/internal/cache"
	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/store"
	appweb "gastos/web"
)

// SyncPublisher is the queue side of a mutation. Nil disables publishing.
type SyncPublisher interface {
	PublishRecordSync(ctx context.Context, msg *amqp.RecordSyncMessage) error
}

type Server struct {
	http.Server

	templates *template.Template
	store     store.Store
	auth      *auth.Service // nil on single-user backends
	publisher SyncPublisher
	logger    *log.Logger

	windowPast   int
	windowFuture int

	rateLimiter *rateLimiter

	// Rendered month sections keyed userID|month|filter.
	monthCache   *cache.LRUCache[string]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes, templates and caches. authSvc may be nil; then
// every request runs in single-user mode with an empty user id.
func NewServer(cfg *config.Config, st store.Store, authSvc *auth.Service, publisher SyncPublisher, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    ":" + cfg.Port,
			Handler: mux,
		},
		store:        st,
		auth:         authSvc,
		publisher:    publisher,
		logger:       logger.WithComponent(log.ComponentHTTP),
		windowPast:   cfg.WindowPast,
		windowFuture: cfg.WindowFuture,
		rateLimiter:  newRateLimiter(),
		monthCache:   cache.NewLRUCache[string](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.monthCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	s.templates = template.Must(template.ParseFS(appweb.TemplatesFS, "templates/*.html"))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("failed to mount embedded static fs", log.FieldError, err.Error())
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/", s.protect(s.handleIndex))
	mux.HandleFunc("/ui/month", s.protect(s.handleMonthPartial))
	mux.HandleFunc("/expenses", s.protect(s.handleAddSingle))
	mux.HandleFunc("/expenses/range", s.protect(s.handleAddRange))
	mux.HandleFunc("/expenses/delete", s.protect(s.handleDelete))
	mux.HandleFunc("/expenses/delete-group", s.protect(s.handleDeleteGroup))
	mux.HandleFunc("/expenses/clear", s.protect(s.handleClearMonth))
	mux.HandleFunc("/expenses/reassign", s.protect(s.handleReassign))
	mux.HandleFunc("/income", s.protect(s.handleSetIncome))

	if s.auth != nil {
		mux.HandleFunc("/login", s.withRequestLog(s.handleLogin))
		mux.HandleFunc("/signup", s.withRequestLog(s.handleSignup))
		mux.HandleFunc("/logout", s.withRequestLog(s.handleLogout))
	}

	return s
}

// protect applies the ambient middleware stack and, when auth is enabled,
// the session requirement.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	wrapped := s.withRequestLog(next)
	if s.auth == nil {
		return wrapped
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s.auth.RequireSession(http.HandlerFunc(wrapped)).ServeHTTP(w, r)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops background goroutines and then the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/vbonduro/portfolio/internal/admin"
	"github.com/vbonduro/portfolio/internal/domain"
	"github.com/vbonduro/portfolio/internal/site"
)

// contactAPI is the subset of apiclient.Client the contact form requires.
type contactAPI interface {
	SubmitContact(ctx context.Context, in domain.ContactInput) error
}

// Options tunes the HTTP surface.
type Options struct {
	// RateLimit is the number of requests per minute allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int
	// SecureCookies marks the session and token cookies Secure.
	SecureCookies bool
}

type Server struct {
	loader    *site.Loader
	api       contactAPI
	sessions  *admin.Sessions
	templates embed.FS
	router    chi.Router
	tmplFuncs template.FuncMap
	opts      Options
	logger    *slog.Logger
}

func NewServer(loader *site.Loader, api contactAPI, sessions *admin.Sessions, tmpl embed.FS, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		loader:    loader,
		api:       api,
		sessions:  sessions,
		templates: tmpl,
		router:    chi.NewRouter(),
		opts:      opts,
		logger:    logger,
		tmplFuncs: template.FuncMap{
			"initial":   site.Initial,
			"initials":  site.Initials,
			"firstName": site.FirstName,
			"yearRange": site.YearRange,
			"caption":   site.Caption,
			"year":      formatYear,
			"datetime":  formatDateTime,
			"tabLabel":  tabLabel,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	if s.opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
	}
	r.Use(func(next http.Handler) http.Handler { return requestLogger(s.logger, next) })
	r.Use(securityHeaders)

	r.Get("/", s.handleIndex)
	r.Post("/contact", s.handleContact)

	r.Get("/admin", s.handleAdmin)
	r.Post("/admin/token", s.handleSaveToken)
	r.Post("/admin/profile", s.handleSaveProfile)
	r.Post("/admin/ventures", s.handleCreateVenture)
	r.Post("/admin/ventures/{id}", s.handleSaveVenture)
	r.Delete("/admin/ventures/{id}", s.handleDeleteVenture)
	r.Post("/admin/testimonials", s.handleCreateTestimonial)
	r.Post("/admin/testimonials/{id}", s.handleSaveTestimonial)
	r.Delete("/admin/testimonials/{id}", s.handleDeleteTestimonial)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; "+
				"font-src https://fonts.gstatic.com; "+
				"img-src 'self' data: https:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses files and executes the {{define}} block called name.
func (s *Server) renderPartial(w http.ResponseWriter, name string, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func formatYear(y *int) string {
	if y == nil {
		return ""
	}
	return strconv.Itoa(*y)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2 Jan 2006, 15:04")
}

func tabLabel(t admin.Tab) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

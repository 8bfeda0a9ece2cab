// Package web implements the web server for netdiag: the form page with diagnostic buttons,
// flash messages with command output, optional auth, JSON API and metrics.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/didip/tollbooth/v8"
	"github.com/didip/tollbooth/v8/limiter"
	"github.com/dustin/go-humanize"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/netdiag/app/config"
	"github.com/umputun/netdiag/app/diag"
	"github.com/umputun/netdiag/app/web/enums"
	"github.com/umputun/netdiag/app/web/persistence"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server represents the web server
type Server struct {
	diag           Diagnostics
	recorder       Recorder
	history        History
	metrics        http.Handler
	flashes        *flashStore
	templates      map[string]*template.Template
	presets        config.Presets
	checks         []config.Check
	proxyAddr      string
	baseURL        string // base URL path for reverse proxy (e.g., /netdiag), empty for root
	hostname       string // hostname to display in UI
	version        string
	passwordHash   string // bcrypt hash for auth
	loginTTL       time.Duration
	writeTimeout   time.Duration
	csrfProtection *http.CrossOriginProtection // csrf protection for POST endpoints
	loginLimiter   *limiter.Limiter
	startedAt      time.Time
}

// Diagnostics is the catalog of diagnostics exposed by the form, implemented by diag.Service
type Diagnostics interface {
	Ping(ctx context.Context, target string) diag.Report
	Traceroute(ctx context.Context, target string) diag.Report
	NetInfo(ctx context.Context) diag.Report
	Reachability(ctx context.Context, host string, port int, viaProxy bool) diag.Report
	TailscaleStatus(ctx context.Context) diag.Report
	BugReport(ctx context.Context) diag.Report
	DebugReport(ctx context.Context) diag.Report
	Summary(ctx context.Context) diag.Summary
}

// Recorder stores finished diagnostics, implemented by recorder.Recorder
type Recorder interface {
	Record(ctx context.Context, rep diag.Report, source enums.Source) (id int64)
}

// History reads recorded runs, implemented by persistence.SQLiteStore
type History interface {
	List(ctx context.Context, limit int) ([]persistence.Run, error)
	Get(ctx context.Context, id int64) (persistence.Run, error)
}

// Config holds server configuration
type Config struct {
	Diagnostics    Diagnostics    // required
	Recorder       Recorder       // optional, runs are not recorded without it
	History        History        // optional, history section and api hidden without it
	MetricsHandler http.Handler   // optional, serves /metrics
	Presets        config.Presets // form defaults
	Checks         []config.Check // scheduled checks, shown on the page
	ProxyAddr      string         // SOCKS5 proxy address shown next to the proxy checkbox
	BaseURL        string         // base URL path for reverse proxy, empty for root
	Hostname       string         // hostname to display in UI
	Version        string         // application version
	PasswordHash   string         // bcrypt hash for auth (empty to disable)
	LoginTTL       time.Duration  // auth cookie TTL, defaults to 24h
	FlashTTL       time.Duration  // how long undelivered flashes are kept, defaults to 10m
	WriteTimeout   time.Duration  // server write timeout, must cover the longest diagnostic
	LoginLimit     float64        // login attempts per second per ip, defaults to 1
	StartedAt      time.Time      // process start, for uptime
}

// TemplateData holds data for templates
type TemplateData struct {
	Flashes     []Flash
	Runs        []persistence.Run
	Checks      []config.Check
	Summary     diag.Summary
	Presets     config.Presets
	ProxyAddr   string
	BaseURL     string
	Hostname    string
	Version     string
	CurrentYear int
	AuthEnabled bool
	HistoryOn   bool
	Error       string // login error
}

// New creates a new web server
func New(cfg Config) (*Server, error) {
	if cfg.Diagnostics == nil {
		return nil, errors.New("web server initialization failed: diagnostics are required")
	}

	loginTTL := cfg.LoginTTL
	if loginTTL == 0 {
		loginTTL = 24 * time.Hour
	}
	flashTTL := cfg.FlashTTL
	if flashTTL == 0 {
		flashTTL = 10 * time.Minute
	}
	writeTimeout := cfg.WriteTimeout
	if writeTimeout == 0 {
		writeTimeout = 90 * time.Second
	}
	loginLimit := cfg.LoginLimit
	if loginLimit <= 0 {
		loginLimit = 1
	}
	startedAt := cfg.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	lmt := tollbooth.NewLimiter(loginLimit, nil)
	lmt.SetIPLookup(limiter.IPLookup{Name: "RemoteAddr"}) // rest.RealIP already resolved the client address
	lmt.SetMessage("Too many login attempts, try again later")

	s := &Server{
		diag:           cfg.Diagnostics,
		recorder:       cfg.Recorder,
		history:        cfg.History,
		metrics:        cfg.MetricsHandler,
		flashes:        newFlashStore(flashTTL),
		presets:        cfg.Presets,
		checks:         cfg.Checks,
		proxyAddr:      cfg.ProxyAddr,
		baseURL:        strings.TrimSuffix(cfg.BaseURL, "/"),
		hostname:       cfg.Hostname,
		version:        cfg.Version,
		passwordHash:   cfg.PasswordHash,
		loginTTL:       loginTTL,
		writeTimeout:   writeTimeout,
		csrfProtection: http.NewCrossOriginProtection(),
		loginLimiter:   lmt,
		startedAt:      startedAt,
	}

	templates, err := s.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web server initialization failed: failed to parse HTML templates: %w", err)
	}
	s.templates = templates
	return s, nil
}

// Run starts the web server and blocks until ctx is canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.writeTimeout,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// handler returns the http.Handler with base URL wrapping applied
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.baseURL == "" {
		return routes
	}

	mux := http.NewServeMux()
	// handle base URL without trailing slash - redirect to with trailing slash
	mux.HandleFunc(s.baseURL, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.baseURL+"/", http.StatusMovedPermanently)
	})
	mux.Handle(s.baseURL+"/", http.StripPrefix(s.baseURL, routes))
	return mux
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	// global middleware - applied to all routes
	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.AppInfo("netdiag", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024), // 64KB max request size
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	// auth middleware must be set before any routes are defined
	if s.passwordHash != "" {
		log.Printf("[INFO] authentication enabled for web UI")
		router.Use(s.authMiddleware)
		router.HandleFunc("GET /login", s.handleLoginForm)
		router.With(s.csrfProtection.Handler, tollbooth.HTTPMiddleware(s.loginLimiter)).HandleFunc("POST /login", s.handleLogin)
		router.HandleFunc("GET /logout", s.handleLogout)
	}

	router.HandleFunc("GET /{$}", s.handleIndex)

	// diagnostics, each runs a command and redirects back to the form
	router.Group().Route(func(g *routegroup.Bundle) {
		g.Use(s.csrfProtection.Handler)
		g.HandleFunc("POST /ping", s.handlePing)
		g.HandleFunc("POST /traceroute", s.handleTraceroute)
		g.HandleFunc("POST /netinfo", s.handleNetInfo)
		g.HandleFunc("POST /reachability-test", s.handleReachability)
		g.HandleFunc("POST /ts-config", s.handleTailscaleStatus)
		g.HandleFunc("POST /bugreport", s.handleBugReport)
		g.HandleFunc("POST /debug", s.handleDebugReport)
	})

	// JSON API for CLI/programmatic access
	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /status", s.handleAPIStatus)
		api.HandleFunc("GET /runs", s.handleAPIRuns)
		api.HandleFunc("GET /runs/{id}", s.handleAPIRun)
	})

	if s.metrics != nil {
		router.Handle("GET /metrics", s.metrics)
	}

	// static files with proper error handling
	fsys, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("[ERROR] failed to create static file system: %v", err)
		router.Handle("GET /static/", http.FileServer(http.FS(staticFS)))
	} else {
		router.HandleFiles("/static/", http.FS(fsys))
	}

	return router
}

// render renders a template into a buffer first, so template errors don't produce partial pages
func (s *Server) render(w http.ResponseWriter, status int, page, tmplName string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		log.Printf("[WARN] template %s not found", page)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, tmplName, data); err != nil {
		log.Printf("[WARN] failed to execute template: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

// parseTemplates parses all templates
func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	funcMap := template.FuncMap{
		"humanTime":     s.humanTime,
		"humanDuration": s.humanDuration,
		"ago":           humanize.Time,
		"truncate":      s.truncate,
		"url":           s.url,
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templatesFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}
	templates["base.html"] = base

	// login template is standalone, doesn't use base
	login, err := template.New("login.html").Funcs(funcMap).ParseFS(templatesFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse login template: %w", err)
	}
	templates["login"] = login

	return templates, nil
}

// template helper functions

func (s *Server) humanTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}
	return t.Format("Jan 2, 15:04:05")
}

func (s *Server) humanDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return d.Round(time.Second).String()
}

func (s *Server) truncate(str string, n int) string {
	if len(str) <= n {
		return str
	}
	return str[:n] + "..."
}

// url prepends the base URL to a path for reverse proxy support
func (s *Server) url(path string) string {
	return s.baseURL + path
}

// cookiePath returns the cookie path with base URL support
func (s *Server) cookiePath() string {
	if s.baseURL == "" {
		return "/"
	}
	return s.baseURL + "/"
}

// shortVersion extracts a short version string from full version
// for version like "v1.7.0-abc1234-20241225", returns "v1.7.0"
func shortVersion(fullVer string) string {
	if fullVer == "" || fullVer == "unknown" {
		return fullVer
	}
	if idx := strings.Index(fullVer, "-"); idx > 0 {
		return fullVer[:idx]
	}
	return fullVer
}

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/booky10/modrinth-downloader/cache"
	"github.com/booky10/modrinth-downloader/internal/config"
	"github.com/booky10/modrinth-downloader/internal/modrinth"
)

// LatestCache maps a project query to the matching versions, newest first.
type LatestCache = cache.Cache[modrinth.LatestQuery, []modrinth.Version]

// VersionCache maps a version id to its document.
type VersionCache = cache.Cache[string, modrinth.Version]

// Options configures a Server. Clock defaults to the wall clock.
type Options struct {
	Addr         string
	Client       modrinth.Client
	Logger       *zap.Logger
	Latest       *LatestCache
	Versions     *VersionCache
	RootRedirect string
	TrustProxy   bool
	SlowDown     config.SlowDownConfig
	Clock        clock.Clock
}

// Server is the HTTP front of the downloader.
type Server struct {
	client       modrinth.Client
	logger       *zap.Logger
	latest       *LatestCache
	versions     *VersionCache
	rootRedirect string
	slowDown     *slowDown
	handler      http.Handler
	server       *http.Server

	cancel context.CancelFunc
}

// NewServer wires the routes and middleware.
func NewServer(opts Options) *Server {
	clk := opts.Clock
	if clk == nil {
		clk = clock.New()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		client:       opts.Client,
		logger:       opts.Logger,
		latest:       opts.Latest,
		versions:     opts.Versions,
		rootRedirect: opts.RootRedirect,
		cancel:       cancel,
	}

	var handler http.Handler = s.createRouter()
	if opts.SlowDown.Window > 0 {
		s.slowDown = newSlowDown(ctx, opts.SlowDown, clk)
		handler = s.slowDown.middleware(handler)
	}
	handler = s.recoverPanics(handler)
	handler = s.accessLog(handler)
	handler = requestID(handler)
	if opts.TrustProxy {
		opts.Logger.Warn("Trusting proxy forwarding headers")
		handler = handlers.ProxyHeaders(handler)
	}
	handler = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodOptions}),
		handlers.ExposedHeaders([]string{"X-Version", "X-File-Size", "X-File-Sha1", "X-File-Sha512", requestIDHeader}),
	)(handler)

	s.handler = handler
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the complete middleware chain, mostly useful for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address until Stop is called. It returns
// nil right away when Stop already ran.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop shuts the HTTP server down and stops background work.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	if s.slowDown != nil {
		s.slowDown.stop()
	}
	s.cancel()

	return s.server.Shutdown(ctx)
}

func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(routeMetrics)

	router.HandleFunc("/download/{project}/latest", s.handleLatest).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/download/{version}", s.handleVersion).Methods(http.MethodGet, http.MethodHead)

	if s.rootRedirect != "" {
		router.HandleFunc("/", s.handleRoot).Methods(http.MethodGet, http.MethodHead)
	}

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, "", "", http.StatusNotFound, "not found")
	})

	return router
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.rootRedirect, http.StatusFound)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}

package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/booky10/modrinth-downloader/cache"
	"github.com/booky10/modrinth-downloader/internal/config"
	"github.com/booky10/modrinth-downloader/internal/logging"
	"github.com/booky10/modrinth-downloader/internal/metrics"
	"github.com/booky10/modrinth-downloader/internal/modrinth"
	"github.com/booky10/modrinth-downloader/internal/server"
)

// CompositionRoot holds every long-lived dependency of the service.
//
// Initialization order:
// 1. Configuration (the logger depends on it)
// 2. Logger
// 3. API client
// 4. Caches
// 5. HTTP server
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	Client   modrinth.Client
	Latest   *server.LatestCache
	Versions *server.VersionCache

	HTTPServer *server.Server
}

func NewCompositionRoot() (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	root.initClient()
	root.initCaches()
	root.initHTTPServer()

	return root, nil
}

func (r *CompositionRoot) loadConfig() error {
	path := os.Getenv("DOTENV_FILE")
	if path == "" {
		path = config.DefaultDotenvFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	r.Config = cfg
	return nil
}

func (r *CompositionRoot) initLogger() error {
	logger, err := logging.NewLogger(r.Config.Log)
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

func (r *CompositionRoot) initClient() {
	if r.Config.APIToken == "" {
		r.Logger.Warn("No MODRINTH_API_TOKEN has been supplied")
	}

	r.Client = modrinth.NewClient(modrinth.ClientConfig{
		BaseURL:   r.Config.APIURL,
		Token:     r.Config.APIToken,
		UserAgent: r.Config.UserAgent,
		Timeout:   r.Config.UpstreamTimeout,
	}, r.Logger)
}

func (r *CompositionRoot) initCaches() {
	latestOptions := []cache.Option[modrinth.LatestQuery, []modrinth.Version]{
		cache.WithObserver[modrinth.LatestQuery, []modrinth.Version](metrics.NewCacheObserver("latest")),
	}
	versionOptions := []cache.Option[string, modrinth.Version]{
		cache.WithObserver[string, modrinth.Version](metrics.NewCacheObserver("version")),
	}
	if r.Config.SerializeLoads {
		latestOptions = append(latestOptions, cache.WithSerializedLoads[modrinth.LatestQuery, []modrinth.Version]())
		versionOptions = append(versionOptions, cache.WithSerializedLoads[string, modrinth.Version]())
	}

	r.Latest = cache.New(r.Config.LatestCacheTTL, latestOptions...)
	r.Versions = cache.New(r.Config.VersionCacheTTL, versionOptions...)

	r.Logger.Info("Caches initialized",
		zap.Duration("latest_ttl", r.Config.LatestCacheTTL),
		zap.Duration("version_ttl", r.Config.VersionCacheTTL),
		zap.Bool("serialize_loads", r.Config.SerializeLoads))
}

func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = server.NewServer(server.Options{
		Addr:         r.Config.Addr(),
		Client:       r.Client,
		Logger:       r.Logger,
		Latest:       r.Latest,
		Versions:     r.Versions,
		RootRedirect: r.Config.RootRedirect,
		TrustProxy:   r.Config.TrustProxy,
		SlowDown:     r.Config.SlowDown,
	})
}

// Cleanup releases the caches and flushes the logger.
func (r *CompositionRoot) Cleanup() error {
	if r.Latest != nil {
		r.Latest.Close()
	}
	if r.Versions != nil {
		r.Versions.Close()
	}

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			return fmt.Errorf("failed to sync logger: %w", err)
		}
	}
	return nil
}

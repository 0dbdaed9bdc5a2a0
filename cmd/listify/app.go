package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"listify/internal/database"
	"listify/internal/handlers"
	"listify/internal/library"
	"listify/internal/logging"
	"listify/internal/metrics"
	"listify/internal/middleware"
	"listify/internal/playlist"
	"listify/internal/shell"
	"listify/internal/startup"
)

// app is everything a running shell depends on.
type app struct {
	cfg       *startup.Config
	store     library.Store
	db        *database.Database
	session   *library.Session
	collector *metrics.Collector
	server    *http.Server
}

// openApp opens the store, logs the user in and starts the optional
// metrics server.
func openApp(ctx context.Context, cfg *startup.Config) (*app, error) {
	a := &app{cfg: cfg}

	if cfg.Ephemeral {
		a.store = library.NewMemoryStore()
	} else {
		dbStart := time.Now()
		db, err := database.New(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		startup.LogDatabaseInit(time.Since(dbStart))
		a.db = db
		a.store = db
	}

	session, err := library.Login(ctx, a.store, cfg.User, library.WithTimeout(cfg.OperationTimeout))
	if err != nil {
		a.closeStore()
		return nil, fmt.Errorf("login as %s failed: %w", cfg.User, err)
	}
	a.session = session

	lastLogin := a.recordLogin(ctx)
	startup.LogSessionStarted(cfg.User, lastLogin, session.Container().NumPlaylists())

	if cfg.MetricsEnabled {
		if err := a.startMetrics(); err != nil {
			session.Logout()
			a.closeStore()
			return nil, err
		}
	}

	return a, nil
}

// recordLogin stores the login time and returns the previous one. Only the
// database keeps login history.
func (a *app) recordLogin(ctx context.Context) time.Time {
	if a.db == nil {
		return time.Time{}
	}

	last, err := a.db.GetLastLogin(ctx, a.cfg.User)
	if err != nil {
		logging.Warn("failed to read last login: %v", err)
	}
	if err := a.db.SetLastLogin(ctx, a.cfg.User, time.Now()); err != nil {
		logging.Warn("failed to record login: %v", err)
	}
	return last
}

func (a *app) startMetrics() error {
	metrics.InitializeMetrics()
	info := startup.GetBuildInfo()
	metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)

	stats := storeStats{store: a.store, user: a.cfg.User}

	var dbMetrics metrics.DBMetricsUpdater
	if a.db != nil {
		dbMetrics = a.db
	}
	a.collector = metrics.NewCollector(stats, dbMetrics, a.cfg.StatsInterval)
	a.collector.Start()

	h := handlers.New(stats, a.cfg.User)
	router := h.NewRouter(middleware.DefaultLoggingConfig())
	startup.LogMetricsServer(router, a.cfg.MetricsAddr, true)

	ln, err := net.Listen("tcp", a.cfg.MetricsAddr)
	if err != nil {
		a.collector.Stop()
		a.collector = nil
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.MetricsAddr, err)
	}

	a.server = &http.Server{
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := a.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return nil
}

func (a *app) newShell(out, errOut io.Writer) *shell.Shell {
	var observer playlist.Observer
	if a.cfg.MetricsEnabled {
		observer = metrics.NewReconcileObserver()
	}
	return shell.New(a.session, out, shell.WithObserver(observer), shell.WithErrorOutput(errOut))
}

// shutdown stops everything openApp started, in reverse order.
func (a *app) shutdown(sh *shell.Shell, reason string) {
	startup.LogShutdownInitiated(reason)

	if a.server != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.server.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
		cancel()
	}

	if a.collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		a.collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Logging out")
	sh.Close()
	a.session.Logout()
	startup.LogShutdownStepComplete("Logged out " + a.cfg.User)

	a.closeStore()
	startup.LogShutdownComplete()
}

func (a *app) closeStore() {
	if a.db == nil {
		return
	}
	startup.LogShutdownStep("Closing database")
	if err := a.db.Close(); err != nil {
		logging.Warn("Database close error: %v", err)
		return
	}
	startup.LogShutdownStepComplete("Database closed")
}

// storeStats reports library statistics straight from the store, so it
// is safe to call from the collector goroutine while the shell runs.
type storeStats struct {
	store library.Store
	user  string
}

func (s storeStats) GetStats(ctx context.Context) (metrics.Stats, error) {
	st, err := s.store.GetStats(ctx)
	if err != nil {
		return metrics.Stats{}, err
	}
	entries, err := s.store.ListContainer(ctx, s.user)
	if err != nil {
		return metrics.Stats{}, err
	}
	return metrics.Stats{
		ContainerPlaylists: len(entries),
		StoredPlaylists:    st.Playlists,
		StoredTracks:       st.Tracks,
	}, nil
}

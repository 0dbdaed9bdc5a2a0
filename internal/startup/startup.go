package startup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gopkg.in/yaml.v3"

	"listify/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// DatabaseFile is the name of the store inside DatabaseDir.
const DatabaseFile = "listify.db"

// Config holds all application configuration
type Config struct {
	User             string        `yaml:"user"`
	DatabaseDir      string        `yaml:"database_dir"`
	MetricsAddr      string        `yaml:"metrics_addr"`
	MetricsEnabled   bool          `yaml:"metrics_enabled"`
	StatsInterval    time.Duration `yaml:"stats_interval"`
	OperationTimeout time.Duration `yaml:"operation_timeout"`
	LogLevel         string        `yaml:"log_level"`

	// Ephemeral keeps the library in memory and never touches DatabaseDir.
	Ephemeral bool `yaml:"ephemeral"`

	// Derived paths
	DatabasePath string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		User:             currentUser(),
		DatabaseDir:      defaultDatabaseDir(),
		MetricsAddr:      "127.0.0.1:9090",
		MetricsEnabled:   false,
		StatsInterval:    30 * time.Second,
		OperationTimeout: 5 * time.Second,
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and environment variables, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.User = getEnv("LISTIFY_USER", c.User)
	c.DatabaseDir = getEnv("DATABASE_DIR", c.DatabaseDir)
	c.MetricsAddr = getEnv("METRICS_ADDR", c.MetricsAddr)
	c.MetricsEnabled = getEnvBool("METRICS_ENABLED", c.MetricsEnabled)
	c.StatsInterval = getEnvDuration("STATS_INTERVAL", c.StatsInterval)
	c.OperationTimeout = getEnvDuration("OPERATION_TIMEOUT", c.OperationTimeout)
	c.Ephemeral = getEnvBool("LISTIFY_EPHEMERAL", c.Ephemeral)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// Validate checks the configuration and prepares the database directory.
func (c *Config) Validate() error {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  LISTIFY_USER:        %s", c.User)
	logging.Info("  DATABASE_DIR:        %s", c.DatabaseDir)
	logging.Info("  METRICS_ENABLED:     %v", c.MetricsEnabled)
	logging.Info("  METRICS_ADDR:        %s", c.MetricsAddr)
	logging.Info("  STATS_INTERVAL:      %s", c.StatsInterval)
	logging.Info("  OPERATION_TIMEOUT:   %s", c.OperationTimeout)
	logging.Info("  LISTIFY_EPHEMERAL:   %v", c.Ephemeral)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	if strings.TrimSpace(c.User) == "" {
		return errors.New("no user configured (set LISTIFY_USER or --user)")
	}
	if strings.ContainsAny(c.User, ": \t") {
		return fmt.Errorf("user name %q must not contain ':' or whitespace", c.User)
	}
	if c.StatsInterval <= 0 {
		logging.Warn("  Invalid STATS_INTERVAL, using default: 30s")
		c.StatsInterval = 30 * time.Second
	}
	if c.OperationTimeout <= 0 {
		logging.Warn("  Invalid OPERATION_TIMEOUT, using default: 5s")
		c.OperationTimeout = 5 * time.Second
	}

	if c.Ephemeral {
		logging.Info("  Library storage:  MEMORY (nothing is persisted)")
		return nil
	}

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	dir, err := filepath.Abs(c.DatabaseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	c.DatabaseDir = dir
	c.DatabasePath = filepath.Join(dir, DatabaseFile)
	logging.Info("  Database directory (absolute): %s", dir)

	if err := ensureDirectory(dir, "database"); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}

	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(dir); err != nil {
		return fmt.Errorf("database directory is not writable (required for database): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	return nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogStartup prints the banner and system information.
func LogStartup() {
	printBanner()
	logSystemInfo()
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogSessionStarted logs a successful login and the previous one, if any.
func LogSessionStarted(user string, lastLogin time.Time, playlists int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SESSION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Logged in as %s", user)
	if lastLogin.IsZero() {
		logging.Info("  First login for this user")
	} else {
		logging.Info("  Last login:      %s", lastLogin.Local().Format(time.RFC1123))
	}
	logging.Info("  Container:       %d playlists", playlists)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}

		return nil
	})

	return routes, err
}

// LogMetricsServer logs the metrics endpoint and, at debug level, its routes.
func LogMetricsServer(router *mux.Router, addr string, enabled bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("METRICS SERVER")
	logging.Info("------------------------------------------------------------")

	if !enabled {
		logging.Info("  Metrics:         %s", enabledString(false))
		return
	}

	logging.Info("  Metrics:         http://%s/metrics", addr)

	if router == nil || !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Warn("error walking routes: %v", err)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

	logging.Debug("  Registered routes (%d total):", len(routes))
	for _, route := range routes {
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(reason string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (%s)", reason)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// Helper functions

func printBanner() {
	logging.Info("------------------------------------------------------------")
	logging.Info("  _ _     _   _  __")
	logging.Info(" | (_)___| |_(_)/ _|_  _")
	logging.Info(" | | (_-<|  _| |  _| || |")
	logging.Info(" |_|_/__/ \\__|_|_|  \\_, |")
	logging.Info("                    |__/")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
	}
	return nil
}

func currentUser() string {
	for _, key := range []string{"USER", "USERNAME"} {
		if u := os.Getenv(key); u != "" {
			return u
		}
	}
	return ""
}

func defaultDatabaseDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "listify")
	}
	return ".listify"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("Invalid duration value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"listify/internal/logging"
	"listify/internal/shell"
	"listify/internal/startup"
)

// flags holds the persistent command line flags.
type flags struct {
	configPath  string
	user        string
	databaseDir string
	metricsAddr string
	metrics     bool
	ephemeral   bool
	verbose     bool
}

func newRootCmd() *cobra.Command {
	var f flags
	var cfg *startup.Config

	root := &cobra.Command{
		Use:   "listify",
		Short: "Manage playlists from an interactive shell",
		Long: `listify keeps a playlist container per user and edits it from a small
command shell.

Run without arguments to start the interactive shell. Type "help" inside
the shell for the command list.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			var err error
			cfg, err = loadConfig(cmd, &f)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			startup.LogStartup()
			return withApp(cmd, cfg, func(ctx context.Context, a *app, sh *shell.Shell) error {
				return sh.Run(ctx, cmd.InOrStdin())
			})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&f.user, "user", "u", "", "User to log in as (or set LISTIFY_USER)")
	pf.StringVar(&f.databaseDir, "database-dir", "", "Directory holding listify.db (or set DATABASE_DIR)")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve metrics on this address (implies --metrics)")
	pf.BoolVar(&f.metrics, "metrics", false, "Serve Prometheus metrics")
	pf.BoolVar(&f.ephemeral, "ephemeral", false, "Keep the library in memory only")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newExecCmd(&cfg))
	root.AddCommand(newVersionCmd())

	return root
}

func newExecCmd(cfg **startup.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command line>...",
		Short: "Run shell command lines and exit",
		Long: `Runs each argument as one shell command line, in order, and exits.
Stops at the first failing line.

Example:
  listify exec "new_list Road Trip" "list"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, *cfg, func(ctx context.Context, a *app, sh *shell.Shell) error {
				for _, line := range args {
					if err := ctx.Err(); err != nil {
						return err
					}
					if err := sh.Exec(line); err != nil {
						return fmt.Errorf("exec %q: %w", line, err)
					}
					if sh.Done() {
						break
					}
				}
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := startup.GetBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "listify %s (commit %s, built %s, %s %s/%s)\n",
				info.Version, info.Commit, info.BuildTime, info.GoVersion, info.OS, info.Arch)
		},
	}
}

// loadConfig applies the flags that were set on top of file and
// environment configuration, then validates the result.
func loadConfig(cmd *cobra.Command, f *flags) (*startup.Config, error) {
	cfg, err := startup.LoadConfig(f.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("user") {
		cfg.User = f.user
	}
	if changed("database-dir") {
		cfg.DatabaseDir = f.databaseDir
	}
	if changed("metrics") {
		cfg.MetricsEnabled = f.metrics
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
		cfg.MetricsEnabled = true
	}
	if changed("ephemeral") {
		cfg.Ephemeral = f.ephemeral
	}

	switch {
	case f.verbose:
		logging.SetLevel(logging.LevelDebug)
	case cfg.LogLevel != "":
		logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	default:
		// Keep the shell readable unless asked otherwise.
		logging.SetLevel(logging.LevelWarn)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// withApp opens the application for cmd, runs fn with a shell writing to
// the command output and shuts everything down afterwards.
func withApp(cmd *cobra.Command, cfg *startup.Config, fn func(ctx context.Context, a *app, sh *shell.Shell) error) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}

	sh := a.newShell(cmd.OutOrStdout(), cmd.ErrOrStderr())
	defer func() {
		reason := "logout"
		if ctx.Err() != nil {
			reason = "signal"
		}
		a.shutdown(sh, reason)
	}()

	return fn(ctx, a, sh)
}

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		_ = logging.Sync()
		os.Exit(1)
	}
	_ = logging.Sync()
}

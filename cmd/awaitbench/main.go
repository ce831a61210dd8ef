package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ajramos/awaitbench/internal/awaitctx"
	"github.com/ajramos/awaitbench/internal/bench"
	"github.com/ajramos/awaitbench/internal/config"
	"github.com/ajramos/awaitbench/internal/report"
	"github.com/ajramos/awaitbench/internal/services"
	"github.com/ajramos/awaitbench/internal/version"
	"github.com/ajramos/awaitbench/internal/web"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// options holds the command line flags
type options struct {
	configPath string
	logLevel   string

	// Not exposed as flags. Tests point the downloads at a local server.
	downloadOpts []services.DownloadOption
	pageURLs     []string
}

func newRootCmd() *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:   "awaitbench",
		Short: "Compare resuming on a captured context against releasing it across concurrent downloads",
		Long: `awaitbench downloads pages in waves of concurrent requests and times two
variants of each operation: one whose continuations resume on the captured
context and one whose continuations release it.

Environment Variables:
  AWAITBENCH_CONFIG   Override default config file path`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	root.Flags().StringVar(&opts.configPath, "config", "", "Path to JSON or YAML configuration file (default: ~/.config/awaitbench/config.json)")
	root.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	root.AddCommand(newVersionCmd(), newInitCmd(), newThemesCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(version.GetInfo())
			case short:
				fmt.Fprintln(out, version.GetVersionString())
			default:
				fmt.Fprintln(out, version.GetDetailedVersionString())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print a single line version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print version information as JSON")
	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration and theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			return initFiles(cmd.OutOrStdout(), getConfigPath(configPath), config.DefaultThemesDir(), force)
		},
	}
	cmd.Flags().StringP("config", "c", "", "Where to write the configuration file")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return cmd
}

// initFiles writes the default configuration unless one exists, and the
// default theme into themesDir
func initFiles(w io.Writer, configPath, themesDir string, force bool) error {
	if configPath == "" {
		return fmt.Errorf("no configuration path: home directory unknown")
	}

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(w, "Configuration exists, keeping %s\n", configPath)
	} else {
		if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
			return fmt.Errorf("write configuration: %w", err)
		}
		fmt.Fprintf(w, "Wrote %s\n", configPath)
	}

	if err := config.NewThemeLoader(themesDir).CreateDefaultTheme(); err != nil {
		return fmt.Errorf("write default theme: %w", err)
	}
	fmt.Fprintf(w, "Themes in %s\n", themesDir)
	return nil
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the themes in the themes directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listThemes(cmd.OutOrStdout(), config.DefaultThemesDir())
		},
	}
}

func listThemes(w io.Writer, themesDir string) error {
	themes, err := config.NewThemeLoader(themesDir).ListAvailableThemes()
	if err != nil {
		return fmt.Errorf("%w (run awaitbench init)", err)
	}
	for _, name := range themes {
		fmt.Fprintln(w, name)
	}
	return nil
}

// run loads configuration, wires the benchmark and runs the full suite
func run(ctx context.Context, stdout, stderr io.Writer, opts options) error {
	configPath := getConfigPath(opts.configPath)
	cfg, loadErr := config.LoadConfig(configPath)
	if loadErr != nil {
		// Fall back to defaults, the benchmark parameters are fixed anyway
		cfg = config.DefaultConfig()
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	logger, closeLog, err := newLogger(cfg, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	if loadErr != nil {
		logger.Warn("could not load configuration, using defaults", "path", configPath, "error", loadErr)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	colors := loadColors(cfg, logger)
	printer := report.NewPrinter(stdout, colors, cfg.Output.NoColor)

	if cfg.Bench.AmbientContext == config.AmbientSerial {
		d := awaitctx.NewDispatcher()
		defer d.Close()
		ctx = awaitctx.WithContext(ctx, d)
	}

	client := web.NewClient(web.WithUserAgent(version.UserAgent()))
	downloads := services.NewDownloadService(client, opts.downloadOpts...)

	harness := bench.NewHarness()
	harness.OnWave = func(wave int, elapsed time.Duration) {
		logger.Debug("wave joined", "wave", wave, "elapsed", elapsed)
	}

	svc := services.NewBenchmarkService(downloads, harness, printer, services.BenchmarkOptions{
		Iterations:    cfg.Bench.Iterations,
		ParallelTasks: cfg.Bench.ParallelTasks,
		PageURLs:      opts.pageURLs,
	})

	logger.Info("starting benchmark",
		"iterations", cfg.Bench.Iterations,
		"parallel", cfg.Bench.ParallelTasks,
		"ambient", cfg.Bench.AmbientContext,
	)

	start := time.Now()
	results, err := svc.RunAll(ctx)
	if err != nil {
		printer.Error(err)
		logger.Error("benchmark aborted", "error", err)
		return err
	}

	for _, c := range results {
		logger.Debug("comparison", "name", c.Name, "captured_ms", c.Captured, "released_ms", c.Released, "diff_ms", c.Difference())
	}
	logger.Info("benchmark finished", "took", time.Since(start).Round(time.Millisecond))
	return nil
}

// newLogger creates the logger. With a log file configured, logs go to that
// file instead of stderr.
func newLogger(cfg *config.Config, stderr io.Writer) (*log.Logger, func(), error) {
	levelName := cfg.LogLevel
	if levelName == "" {
		levelName = "info"
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	w := stderr
	closeFn := func() {}
	if logPath := cfg.LogFilePath(); logPath != "" {
		path := expandPath(logPath)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "awaitbench",
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	return logger, closeFn, nil
}

// loadColors returns the configured theme, or the default theme when none is
// set or it cannot be loaded
func loadColors(cfg *config.Config, logger *log.Logger) *config.ColorsConfig {
	if cfg.Output.Theme == "" {
		return config.DefaultColors()
	}
	colors, err := config.NewThemeLoader(config.DefaultThemesDir()).LoadThemeFromFile(expandPath(cfg.Output.Theme))
	if err != nil {
		logger.Warn("could not load theme, using default", "theme", cfg.Output.Theme, "error", err)
		return config.DefaultColors()
	}
	return colors
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable AWAITBENCH_CONFIG
// 3. Default path ~/.config/awaitbench/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return expandPath(flagValue)
	}

	if envPath := os.Getenv("AWAITBENCH_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}

	return config.DefaultConfigPath()
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return home
	}

	return filepath.Join(home, path[2:])
}

// Package main provides the CLI entrypoint for fundus.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/fundus/internal/config"
	"github.com/verte-zerg/fundus/internal/idle"
	"github.com/verte-zerg/fundus/internal/logging"
	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/stats"
	"github.com/verte-zerg/fundus/internal/statsui"
	"github.com/verte-zerg/fundus/internal/store"
	"github.com/verte-zerg/fundus/internal/tui"
)

const (
	defaultRefresh = "1s"
	defaultPreview = 5
	minRefresh     = 50 * time.Millisecond
)

var (
	gameRefresh string
	gameNoSave  bool
	debugLog    bool

	statsSince string
	statsLast  int
	statsTUI   bool

	catalogPreview int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fundus",
		Short:         "Lost & found register with an idle collecting game",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGameCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug entries to the log file")
	rootCmd.Flags().StringVar(&gameRefresh, "refresh", defaultRefresh, "screen refresh interval")
	rootCmd.Flags().BoolVar(&gameNoSave, "no-save", false, "do not store the session summary on quit")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newFoundCmd())

	return rootCmd
}

func runGameCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "refresh", &gameRefresh, fileCfg.Game.Refresh)
	applyInvertedBoolConfig(cmd, "no-save", &gameNoSave, fileCfg.Game.Save)

	refresh, err := time.ParseDuration(gameRefresh)
	if err != nil {
		return fmt.Errorf("invalid --refresh value: %w", err)
	}
	cfg := model.Config{
		Refresh: refresh,
		Save:    !gameNoSave,
		Debug:   debugLog,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	catalog, err := config.BuildCatalog(fileCfg)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	logger := openLogger()
	defer syncLogger(logger)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	session := idle.NewSession(catalog, idle.RealClock{})
	logger.Info("session started",
		zap.String("session", session.ID()),
		zap.Int("helpers", catalog.Len()),
		zap.Duration("refresh", cfg.Refresh),
	)
	m := tui.NewModel(cfg, session, st, logger)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if saved := m.Saved(); saved != nil {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Session saved: %s credits, %s clicks in %s\n",
			humanize.Comma(saved.FinalBalance),
			humanize.Comma(saved.Clicks),
			(time.Duration(saved.DurationMs) * time.Millisecond).Round(time.Second),
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List helpers and upcoming costs",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
	cmd.Flags().IntVar(&catalogPreview, "preview", defaultPreview, "number of upcoming costs to show")
	return cmd
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	if catalogPreview <= 0 {
		return fmt.Errorf("--preview must be > 0")
	}
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := config.BuildCatalog(fileCfg)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}
	if err := stats.RenderCatalog(cmd.OutOrStdout(), catalog, catalogPreview); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show game session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "browse stats and found items interactively")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	cfg := model.StatsConfig{
		Since: sinceTime,
		Last:  statsLast,
	}

	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := config.BuildCatalog(fileCfg)
	if err != nil {
		return fmt.Errorf("failed to build catalog: %w", err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if statsTUI {
		program := tea.NewProgram(statsui.NewModel(st, catalog, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	if err := report.Render(cmd.OutOrStdout(), catalog, 0); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func loadConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func openLogger() *zap.Logger {
	logger, err := logging.New(config.DefaultLogPath(), debugLog)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return zap.NewNop()
	}
	return logger
}

func syncLogger(logger *zap.Logger) {
	if err := logger.Sync(); err != nil {
		// Best-effort flush of the log file.
		_ = err
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyInvertedBoolConfig maps a positive config key onto a negative flag (save -> --no-save).
func applyInvertedBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = !*value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fundus configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# refresh = %q            # Screen refresh interval
# save = true               # Store the session summary on quit

[click]
# cost = %q        # Click upgrade pricing: fixed, linear or quadratic
# base = 10                 # Price of the upgrade at click power n is base * n^2

# Replace the built-in helpers by listing your own.
# [[helpers]]
# id = "student"
# name = "Student volunteer"
# power = 1                 # Credits per second per unit
# cost = "linear"           # base + increment * owned
# base = 15
# increment = 5

[registry]
# labels = %q
# uploads = %q
# admin-password = ""       # Required by "fundus found remove"; removal is refused until set
`,
		defaultRefresh,
		idle.CostQuadratic,
		config.DefaultLabelsPath(),
		config.DefaultUploadsDir(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Refresh < minRefresh {
		return fmt.Errorf("--refresh must be >= %s", minRefresh)
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

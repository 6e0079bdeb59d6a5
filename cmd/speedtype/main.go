// Package main provides the CLI entrypoint for speedtype.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/best"
	"github.com/verte-zerg/speedtype/internal/config"
	"github.com/verte-zerg/speedtype/internal/logging"
	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/passage"
	"github.com/verte-zerg/speedtype/internal/report"
	"github.com/verte-zerg/speedtype/internal/store"
	"github.com/verte-zerg/speedtype/internal/tui"
)

const defaultTier = string(model.TierEasy)

var (
	flagTier     string
	flagPassages string
	flagDB       string
	flagLog      string
	flagDebug    bool

	bestReset bool

	runCfg model.Config
	logger = zap.NewNop()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "speedtype",
		Short:             "Terminal typing speed test",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: runTestCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagTier, "tier", defaultTier, "difficulty tier (easy, medium, hard)")
	flags.StringVar(&flagPassages, "passages", "", "YAML passage pack replacing the built-in passages")
	flags.StringVar(&flagDB, "db", config.DefaultDBPath(), "best score database path")
	flags.StringVar(&flagLog, "log", config.DefaultLogPath(), "log file path (empty disables logging)")
	flags.BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPassagesCmd())
	rootCmd.AddCommand(newBestCmd())

	return rootCmd
}

func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	runCfg = cfg
	l, err := logging.New(cfg.LogPath, cfg.Debug)
	if err != nil {
		return err
	}
	logger = l
	logger.Debug("config resolved",
		zap.String("command", cmd.Name()),
		zap.String("tier", string(cfg.Tier)),
		zap.String("db", cfg.DBPath),
		zap.String("passages", cfg.PassagesFile))
	return nil
}

// resolveConfig merges the config file, the environment and explicitly set
// flags, in increasing precedence.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load environment: %w", err)
	}
	settings := envCfg.Overlay(fileCfg.Test)

	applyStringConfig(cmd, "tier", &flagTier, settings.Tier)
	applyStringConfig(cmd, "passages", &flagPassages, settings.PassagesFile)
	applyStringConfig(cmd, "db", &flagDB, settings.DBPath)
	applyStringConfig(cmd, "log", &flagLog, settings.LogPath)
	applyBoolConfig(cmd, "debug", &flagDebug, settings.Debug)

	if err := validateTier(flagTier); err != nil {
		return model.Config{}, err
	}
	cfg := model.Config{
		Tier:         model.ParseTier(flagTier),
		PassagesFile: strings.TrimSpace(flagPassages),
		Passages:     fileCfg.Passages.Tiers(),
		DBPath:       strings.TrimSpace(flagDB),
		LogPath:      strings.TrimSpace(flagLog),
		Debug:        flagDebug,
	}
	if cfg.DBPath == "" {
		return model.Config{}, fmt.Errorf("--db must not be empty")
	}
	return cfg, nil
}

func validateTier(value string) error {
	if model.Tier(strings.ToLower(strings.TrimSpace(value))).Valid() {
		return nil
	}
	names := make([]string, 0, len(model.Tiers()))
	for _, tier := range model.Tiers() {
		names = append(names, string(tier))
	}
	return fmt.Errorf("--tier must be one of %s, got %q", strings.Join(names, ", "), value)
}

func runTestCmd(_ *cobra.Command, _ []string) error {
	lib, err := buildLibrary(runCfg)
	if err != nil {
		return err
	}
	st, cache, err := openBest(runCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m, err := tui.NewModel(context.Background(), tui.Options{
		Selector: passage.NewSelector(lib),
		Best:     cache,
		Logger:   logger,
		Tier:     runCfg.Tier,
	})
	if err != nil {
		return fmt.Errorf("failed to build UI: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func buildLibrary(cfg model.Config) (*passage.Library, error) {
	lib := passage.NewLibrary()
	if cfg.PassagesFile != "" {
		pack, err := passage.LoadPack(cfg.PassagesFile)
		if err != nil {
			return nil, err
		}
		lib.Apply(pack.Tiers())
		logger.Info("passage pack loaded", zap.String("path", cfg.PassagesFile))
	}
	lib.Apply(cfg.Passages)
	return lib, nil
}

func openBest(cfg model.Config) (*store.Store, *best.Cache, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, best.New(st, best.WithLock(config.LockPath(cfg.DBPath))), nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logger.Warn("failed to close db", zap.Error(err))
		logErrf("failed to close db: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		// The config file may be the thing that is broken, so it is not loaded here.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE:              runConfigCmd,
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

func newPassagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passages",
		Short: "List the passages in use",
		Args:  cobra.NoArgs,
		RunE:  runPassagesCmd,
	}
}

func runPassagesCmd(cmd *cobra.Command, _ []string) error {
	lib, err := buildLibrary(runCfg)
	if err != nil {
		return err
	}
	return report.RenderPassages(cmd.OutOrStdout(), lib)
}

func newBestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "best",
		Short: "Show best scores",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
	cmd.Flags().BoolVar(&bestReset, "reset", false, "clear all best scores")
	return cmd
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	st, cache, err := openBest(runCfg)
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if bestReset {
		if err := cache.Reset(ctx); err != nil {
			return err
		}
		logger.Info("best results reset")
		logErrln("Best scores cleared")
	}
	results, err := cache.Load(ctx)
	if err != nil {
		return err
	}
	return report.RenderBest(cmd.OutOrStdout(), results)
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# speedtype configuration
# Uncomment a value to enable it. SPEEDTYPE_* environment variables override
# config values and CLI flags override both.

[test]
# tier = %q               # Starting tier: easy, medium or hard
# passages-file = ""         # YAML passage pack (keys: easy, medium, hard)
# db = %q
# log = %q
# debug = false

[passages]
# Replaces the passages of a tier. Applied after passages-file.
# easy = ["The quick brown fox jumps over the lazy dog."]
# medium = []
# hard = []
`,
		defaultTier,
		config.DefaultDBPath(),
		config.DefaultLogPath(),
	)
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

// Package main provides the CLI entrypoint for articulate.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/articulate/internal/archetype"
	"github.com/verte-zerg/articulate/internal/catalog"
	"github.com/verte-zerg/articulate/internal/config"
	"github.com/verte-zerg/articulate/internal/generator"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/observe"
	"github.com/verte-zerg/articulate/internal/progress"
	"github.com/verte-zerg/articulate/internal/stats"
	"github.com/verte-zerg/articulate/internal/statsui"
	"github.com/verte-zerg/articulate/internal/store"
	"github.com/verte-zerg/articulate/internal/tui"
)

const (
	defaultUser        = "local"
	defaultExercise    = "impromptu-response"
	autoExercise       = "auto"
	defaultMinutes     = 1.0
	defaultCurveWindow = 5
	defaultLogLevel    = "warn"
)

var (
	globalUser     string
	globalLogLevel string
	globalDB       string
	globalCatalog  string

	practiceExercise string
	practiceMinutes  float64

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsExercise    string
	statsPlain       bool

	streakJSON bool

	exercisesCategory   string
	exercisesFoundation bool

	resetYes bool
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "articulate",
		Short:             "Terminal communication trainer",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadEnv,
		RunE:              runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&globalUser, "user", defaultUser, "user id progress is recorded under")
	rootCmd.PersistentFlags().StringVar(&globalLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&globalDB, "db", "", "database path (default: XDG data dir)")
	rootCmd.PersistentFlags().StringVar(&globalCatalog, "catalog", "", "catalog YAML overriding the built-in one")

	rootCmd.Flags().StringVar(&practiceExercise, "exercise", defaultExercise, "exercise id, or 'auto' for the least practiced one")
	rootCmd.Flags().Float64Var(&practiceMinutes, "minutes", defaultMinutes, "time limit in minutes")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newStreakCmd())
	rootCmd.AddCommand(newAchievementsCmd())
	rootCmd.AddCommand(newExercisesCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func loadEnv(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env", config.DefaultEnvPath()); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// app bundles the resolved settings and opened dependencies of a command.
type app struct {
	file    config.FileConfig
	user    string
	level   string
	logger  *slog.Logger
	catalog *catalog.Catalog
	store   *store.Store
	metrics *observe.Metrics
	tracker *progress.Tracker
}

func openApp(cmd *cobra.Command) (*app, error) {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	user := globalUser
	applyStringConfig(cmd, "user", &user, fileCfg.Practice.User)
	applyEnv(cmd, "user", &user, config.EnvUser)
	level := globalLogLevel
	applyStringConfig(cmd, "log-level", &level, fileCfg.Log.Level)
	applyEnv(cmd, "log-level", &level, config.EnvLog)
	dbPath := globalDB
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	applyStringConfig(cmd, "db", &dbPath, fileCfg.Store.Path)
	applyEnv(cmd, "db", &dbPath, config.EnvDB)
	catalogPath := globalCatalog
	applyStringConfig(cmd, "catalog", &catalogPath, fileCfg.Catalog.Path)

	if err := validate.Var(level, "oneof=debug info warn error"); err != nil {
		return nil, fmt.Errorf("--log-level must be one of debug, info, warn, error")
	}
	logger := newLogger(level)
	slog.SetDefault(logger)

	cat := catalog.Default()
	if catalogPath != "" {
		cat, err = catalog.LoadFile(catalogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	metrics := observe.DefaultMetrics()
	tracker := progress.NewTracker(st, cat,
		progress.WithClassifier(archetype.NewRules(cat)),
		progress.WithMetrics(metrics),
		progress.WithLogger(logger),
	)
	logger.Debug("app ready", "user", user, "db", dbPath, "catalog", catalogPath)
	return &app{
		file:    fileCfg,
		user:    user,
		level:   level,
		logger:  logger,
		catalog: cat,
		store:   st,
		metrics: metrics,
		tracker: tracker,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func configPath() string {
	if v, ok := config.Env(config.EnvConfig); ok {
		return v
	}
	return config.DefaultConfigPath()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	applyStringConfig(cmd, "exercise", &practiceExercise, a.file.Practice.Exercise)
	applyFloatConfig(cmd, "minutes", &practiceMinutes, a.file.Practice.Minutes)

	gen := generator.New()
	exercise, err := resolveExercise(context.Background(), a, gen, practiceExercise)
	if err != nil {
		return err
	}
	cfg := model.Config{
		UserID:     a.user,
		ExerciseID: exercise.ID,
		Minutes:    practiceMinutes,
		LogLevel:   a.level,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	m := tui.NewModel(cfg, exercise, a.tracker, gen, tui.WithMetrics(a.metrics))
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveExercise returns the implemented exercise named id. "auto" picks
// the least practiced implemented exercise.
func resolveExercise(ctx context.Context, a *app, gen *generator.Generator, id string) (model.Exercise, error) {
	if id == autoExercise {
		ex, ok := gen.Pick(a.catalog.Implemented(), a.tracker.History(ctx, a.user))
		if !ok {
			return model.Exercise{}, fmt.Errorf("no implemented exercises in catalog")
		}
		return ex, nil
	}
	ex, ok := a.catalog.Exercise(id)
	if !ok {
		return model.Exercise{}, fmt.Errorf("unknown exercise %q (run: articulate exercises)", id)
	}
	if !a.catalog.IsImplemented(id) {
		return model.Exercise{}, fmt.Errorf("exercise %q cannot be practiced yet (available: %s)", id, strings.Join(implementedIDs(a.catalog), ", "))
	}
	return ex, nil
}

func implementedIDs(cat *catalog.Catalog) []string {
	ids := []string{}
	for _, ex := range cat.Implemented() {
		ids = append(ids, ex.ID)
	}
	return ids
}

func validateConfig(cfg model.Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Minutes":
				return fmt.Errorf("--minutes must be > 0")
			case "UserID":
				return fmt.Errorf("--user must not be empty")
			case "LogLevel":
				return fmt.Errorf("--log-level must be one of debug, info, warn, error")
			}
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show progress and history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N attempts")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsExercise, "exercise", "", "exercise filter")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print text instead of the dashboard")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	applyIntConfig(cmd, "last", &statsLast, a.file.Stats.Last)
	applyIntConfig(cmd, "curve-window", &statsCurveWindow, a.file.Stats.CurveWindow)
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
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
		UserID:      a.user,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		ExerciseID:  statsExercise,
	}
	if !statsPlain {
		program := tea.NewProgram(statsui.NewModel(a.tracker, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), a.tracker, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Progress, report.Attempts); err != nil {
		return err
	}
	if report.Progress.TotalSessions == 0 {
		return nil
	}
	if err := stats.RenderScores(out, report.Progress.CommunicationScore); err != nil {
		return err
	}
	if err := stats.RenderExercises(out, report.Exercises); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Attempts, cfg.CurveWindow); err != nil {
		return err
	}
	return stats.RenderHistory(out, report.Attempts, exerciseNamer(a.catalog))
}

func exerciseNamer(cat *catalog.Catalog) func(string) string {
	return func(id string) string {
		if ex, ok := cat.Exercise(id); ok {
			return ex.Name
		}
		return id
	}
}

func newStreakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Show the practice streak",
		Args:  cobra.NoArgs,
		RunE:  runStreakCmd,
	}
	cmd.Flags().BoolVar(&streakJSON, "json", false, "print JSON")
	return cmd
}

func runStreakCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	status := a.tracker.StreakStatus(cmd.Context(), a.user, time.Now())
	if streakJSON {
		return writeJSON(cmd.OutOrStdout(), status)
	}
	line := fmt.Sprintf("Streak: %d day(s) (longest %d)", status.Current, status.Longest)
	switch {
	case status.PracticedToday:
		line += "  practiced today"
	case status.AtRisk:
		line += "  at risk: practice today to keep it"
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), line)
	return err
}

func newAchievementsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements",
		Short: "List achievements and unlock progress",
		Args:  cobra.NoArgs,
		RunE:  runAchievementsCmd,
	}
}

func runAchievementsCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := stats.BuildReport(cmd.Context(), a.tracker, model.StatsConfig{UserID: a.user})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return stats.RenderAchievements(cmd.OutOrStdout(), report.Achievements)
}

func newExercisesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exercises",
		Short: "List the exercise catalog",
		Args:  cobra.NoArgs,
		RunE:  runExercisesCmd,
	}
	cmd.Flags().StringVar(&exercisesCategory, "category", "", "category filter")
	cmd.Flags().BoolVar(&exercisesFoundation, "foundation", false, "only foundation-tier exercises")
	return cmd
}

func runExercisesCmd(cmd *cobra.Command, _ []string) error {
	cat := catalog.Default()
	path := globalCatalog
	if path == "" {
		if fileCfg, err := config.LoadConfig(configPath()); err == nil && fileCfg.Catalog.Path != nil {
			path = *fileCfg.Catalog.Path
		}
	}
	if path != "" {
		loaded, err := catalog.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
		cat = loaded
	}
	exercises := cat.Exercises()
	if exercisesCategory != "" {
		exercises = cat.ExercisesByCategory(exercisesCategory)
	}
	if exercisesFoundation {
		exercises = foundationOnly(cat, exercises)
	}
	if len(exercises) == 0 {
		logErrf("No exercises match the filters\n")
		return nil
	}
	return stats.RenderCatalog(cmd.OutOrStdout(), exercises, cat.IsImplemented)
}

// foundationOnly keeps the exercises of list that are in the foundation tier.
func foundationOnly(cat *catalog.Catalog, list []model.Exercise) []model.Exercise {
	keep := make(map[string]bool)
	for _, ex := range cat.Foundation() {
		keep[ex.ID] = true
	}
	var out []model.Exercise
	for _, ex := range list {
		if keep[ex.ID] {
			out = append(out, ex)
		}
	}
	return out
}

func newUsersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users with stored progress",
		Args:  cobra.NoArgs,
		RunE:  runUsersCmd,
	}
}

func runUsersCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, user := range a.tracker.Users(cmd.Context()) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), user); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the progress and history of a user",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deletion")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !resetYes {
		return fmt.Errorf("refusing to reset without --yes")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	a.tracker.Reset(cmd.Context(), a.user)
	logErrf("Reset progress for %s\n", a.user)
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
	path := configPath()
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

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyEnv overrides target with the environment variable key unless the
// flag was set. Call it after the config file values are applied.
func applyEnv(cmd *cobra.Command, name string, target *string, key string) {
	if cmd.Flags().Changed(name) {
		return
	}
	if v, ok := config.Env(key); ok {
		*target = v
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# articulate configuration
# Uncomment a value to enable it. CLI flags and ARTICULATE_* variables override config values.

[practice]
# user = %q               # User id progress is recorded under
# exercise = %q   # Exercise id, or "auto"
# minutes = %.1f            # Practice time limit and analyze duration in minutes

[stats]
# last = 0                  # Limit to last N attempts (0 = all)
# curve-window = %d         # Moving average window

[log]
# level = %q              # debug, info, warn, error

[catalog]
# path = "catalog.yaml"     # Catalog YAML overriding the built-in one

[store]
# path = "articulate.db"    # Database path
`,
		defaultUser,
		defaultExercise,
		defaultMinutes,
		defaultCurveWindow,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

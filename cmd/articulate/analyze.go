package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/articulate/internal/config"
	"github.com/verte-zerg/articulate/internal/diagnostics"
	"github.com/verte-zerg/articulate/internal/filler"
	"github.com/verte-zerg/articulate/internal/generator"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/observe"
	"github.com/verte-zerg/articulate/internal/session"
	"github.com/verte-zerg/articulate/internal/stats"
)

const maxParallelAnalyses = 4

var (
	analyzeMinutes  float64
	analyzeJSON     bool
	analyzeRecord   bool
	analyzeExercise string
)

// analyzed is the result for one input transcript.
type analyzed struct {
	Source   string           `json:"source"`
	Analysis session.Analysis `json:"analysis"`
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|-]...",
		Short: "Score transcripts from files or stdin",
		RunE:  runAnalyzeCmd,
	}
	cmd.Flags().Float64Var(&analyzeMinutes, "minutes", defaultMinutes, "spoken duration of each transcript in minutes")
	cmd.Flags().BoolVar(&analyzeJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&analyzeRecord, "record", false, "record each transcript as an attempt")
	cmd.Flags().StringVar(&analyzeExercise, "exercise", defaultExercise, "exercise recorded attempts count toward")
	return cmd
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(configPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "minutes", &analyzeMinutes, fileCfg.Practice.Minutes)
	applyStringConfig(cmd, "exercise", &analyzeExercise, fileCfg.Practice.Exercise)

	if analyzeMinutes <= 0 {
		return fmt.Errorf("--minutes must be > 0")
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	if err := checkSources(args); err != nil {
		return err
	}

	var metrics *observe.Metrics
	var a *app
	var exercise model.Exercise
	if analyzeRecord {
		a, err = openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		exercise, err = recordExercise(cmd, a, analyzeExercise)
		if err != nil {
			return err
		}
		metrics = a.metrics
	} else {
		metrics = observe.DefaultMetrics()
	}

	results, err := analyzeSources(cmd, args, analyzeMinutes, metrics)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if err := renderAnalysis(out, r); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}

	if !analyzeRecord {
		return nil
	}
	duration := time.Duration(analyzeMinutes * float64(time.Minute))
	for _, r := range results {
		attempt, err := session.NewAttempt(exercise, r.Analysis, duration, time.Now())
		if err != nil {
			return fmt.Errorf("%s: %w", r.Source, err)
		}
		p, unlocked := a.tracker.Ingest(cmd.Context(), a.user, attempt)
		logErrf("Recorded %s: score %d, +%d XP, overall %d\n", r.Source, attempt.Score, attempt.XPEarned, p.CommunicationScore.Overall)
		for _, def := range unlocked {
			logErrf("Unlocked %s %s (+%d XP)\n", def.Icon, def.Name, def.XPReward)
		}
	}
	return nil
}

// recordExercise resolves the exercise recorded attempts count toward. Any
// catalog exercise is accepted; "auto" picks the least practiced implemented one.
func recordExercise(cmd *cobra.Command, a *app, id string) (model.Exercise, error) {
	if id == autoExercise {
		return resolveExercise(cmd.Context(), a, generator.New(), id)
	}
	ex, ok := a.catalog.Exercise(id)
	if !ok {
		return model.Exercise{}, fmt.Errorf("unknown exercise %q (run: articulate exercises)", id)
	}
	return ex, nil
}

// checkSources rejects reading stdin more than once.
func checkSources(sources []string) error {
	stdin := 0
	for _, s := range sources {
		if s == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("stdin (-) may be given only once")
	}
	return nil
}

// analyzeSources reads and analyzes every source concurrently, keeping the
// input order in the result.
func analyzeSources(cmd *cobra.Command, sources []string, minutes float64, metrics *observe.Metrics) ([]analyzed, error) {
	results := make([]analyzed, len(sources))
	g, gCtx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelAnalyses)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			text, err := readSource(cmd.InOrStdin(), src)
			if err != nil {
				return err
			}
			start := time.Now()
			analysis := session.Analyze(text, minutes)
			metrics.ObserveAnalysis(gCtx, start)
			results[i] = analyzed{Source: sourceName(src), Analysis: analysis}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func readSource(stdin io.Reader, src string) (string, error) {
	var data []byte
	var err error
	if src == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", sourceName(src), err)
	}
	return string(data), nil
}

func sourceName(src string) string {
	if src == "-" {
		return "stdin"
	}
	return src
}

func renderAnalysis(w io.Writer, r analyzed) error {
	a := r.Analysis
	lines := []string{
		r.Source,
		fmt.Sprintf("  Words       %d in %.1f min", a.Words, a.Minutes),
		fmt.Sprintf("  Fillers     %d (%.1f/min) %s", a.Filler.TotalFillerWords, a.Filler.FillersPerMinute, formatTopFillers(a.Filler)),
		"  Where       " + filler.DistributionInsight(a.Filler.Distribution),
		fmt.Sprintf("  Structure   %d position, %d supporting", a.Structure.PositionCount, a.Structure.SupportingCount),
		"              " + a.Structure.Insight,
	}
	for _, s := range model.Subscores {
		if v, ok := a.Diagnostics.Subscores[s]; ok {
			lines = append(lines, fmt.Sprintf("  %-11s %d", stats.Label(s), v))
		}
	}
	lines = append(lines, fmt.Sprintf("  %-11s %d", "Pace", a.Diagnostics.Pace.Score))
	for _, note := range diagnosticNotes(a) {
		lines = append(lines, "  - "+note)
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n")+"\n")
	return err
}

func formatTopFillers(r filler.Result) string {
	top := r.TopFillers(3)
	parts := make([]string, 0, len(top))
	for _, wc := range top {
		parts = append(parts, fmt.Sprintf("%q x%d", wc.Word, wc.Count))
	}
	return strings.Join(parts, ", ")
}

func diagnosticNotes(a session.Analysis) []string {
	d := a.Diagnostics
	var notes []string
	for _, b := range []diagnostics.Breakdown{d.Fluency, d.Clarity, d.Pace, d.Precision, d.Confidence, d.Impact} {
		notes = append(notes, b.Notes...)
	}
	return notes
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

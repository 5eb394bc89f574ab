// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/articulate/internal/filler"
	"github.com/verte-zerg/articulate/internal/generator"
	"github.com/verte-zerg/articulate/internal/model"
	"github.com/verte-zerg/articulate/internal/observe"
	"github.com/verte-zerg/articulate/internal/progress"
	"github.com/verte-zerg/articulate/internal/session"
	statsPkg "github.com/verte-zerg/articulate/internal/stats"
)

const recentPrompts = 5

type state int

const (
	stateSpeaking state = iota
	stateResults
)

type tickMsg time.Time

// outcome is the scored result of one submitted response.
type outcome struct {
	analysis session.Analysis
	attempt  model.ExerciseAttempt
	unlocked []model.Achievement
	before   model.CommunicationScore
}

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	exercise model.Exercise
	tracker  *progress.Tracker
	gen      *generator.Generator
	metrics  *observe.Metrics
	now      func() time.Time

	width  int
	height int

	prompt string
	recent []string
	input  textarea.Model

	state     state
	started   bool
	startedAt time.Time
	elapsed   time.Duration

	progress model.UserProgress
	result   *outcome
	errMsg   string
}

var (
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	fillerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Underline(true)
	positionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	supportStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6FB46F"))
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	unlockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Option configures a Model.
type Option func(*Model)

// WithMetrics records analysis timings on m.
func WithMetrics(metrics *observe.Metrics) Option {
	return func(m *Model) {
		m.metrics = metrics
	}
}

// WithClock replaces the wall clock used for timing and timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// NewModel constructs a practice TUI model for exercise.
func NewModel(cfg model.Config, exercise model.Exercise, tracker *progress.Tracker, gen *generator.Generator, opts ...Option) *Model {
	m := &Model{
		config:   cfg,
		exercise: exercise,
		tracker:  tracker,
		gen:      gen,
		metrics:  observe.DefaultMetrics(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.input = textarea.New()
	m.input.Placeholder = "Start speaking (typing) your answer..."
	m.input.ShowLineNumbers = false
	m.input.CharLimit = 0
	m.input.Focus()
	m.progress = tracker.RefreshStreak(context.Background(), cfg.UserID, m.now())
	m.resetSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(m.contentWidth())
		m.input.SetHeight(max(3, m.height/3))
		return m, nil
	case tickMsg:
		if m.state != stateSpeaking || !m.started {
			return m, nil
		}
		m.elapsed = m.now().Sub(m.startedAt)
		if m.elapsed >= m.limit() {
			m.submit()
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.state == stateResults {
			switch msg.String() {
			case "q", "esc":
				return m, tea.Quit
			case "n", "enter":
				m.resetSession()
				return m, m.input.Focus()
			}
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			m.submit()
			return m, nil
		}
		var cmds []tea.Cmd
		if !m.started && (msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace) {
			m.started = true
			m.startedAt = m.now()
			cmds = append(cmds, tick())
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.errMsg = ""
		return m, tea.Batch(append(cmds, cmd)...)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.state == stateResults && m.result != nil {
		content = m.renderResults()
	} else {
		content = m.renderSpeaking()
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	content = lipgloss.NewStyle().Width(m.contentWidth()).Render(content)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return max(20, int(float64(m.width)*0.70))
}

func (m *Model) limit() time.Duration {
	return time.Duration(m.config.Minutes * float64(time.Minute))
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) renderSpeaking() string {
	lines := []string{
		titleStyle.Render(m.exercise.Name),
		promptStyle.Render(m.prompt),
		"",
		m.input.View(),
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, footerStyle.Render("ctrl+s: submit  esc: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderResults() string {
	r := m.result
	a := r.analysis
	text := wrapStyledRunes(buildStyledRunes([]rune(a.Transcript), highlightSpans(a)), m.contentWidth())

	lines := []string{
		titleStyle.Render(m.exercise.Name) + "  " + valueStyle.Render(fmt.Sprintf("Score %d", r.attempt.Score)) +
			footerStyle.Render(fmt.Sprintf("  +%d XP", r.attempt.XPEarned)),
		"",
		text,
		"",
		m.renderScoreLine(r),
		fmt.Sprintf("%s %d (%.1f/min)  %s", titleStyle.Render("Fillers"), a.Filler.TotalFillerWords, a.Filler.FillersPerMinute, topFillers(a.Filler)),
		titleStyle.Render("Where: ") + filler.DistributionInsight(a.Filler.Distribution),
		titleStyle.Render("Structure: ") + a.Structure.Insight,
	}
	if focus := statsPkg.WeakestSubscores(m.progress.CommunicationScore, 1); len(focus) > 0 {
		lines = append(lines, titleStyle.Render("Focus next on: ")+statsPkg.Label(focus[0]))
	}
	for _, def := range r.unlocked {
		lines = append(lines, unlockStyle.Render(fmt.Sprintf("Unlocked %s %s (+%d XP)", def.Icon, def.Name, def.XPReward)))
	}
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, "", footerStyle.Render("n: next prompt  q: quit"))
	return strings.Join(lines, "\n")
}

func (m *Model) renderScoreLine(r *outcome) string {
	parts := make([]string, 0, len(model.Subscores))
	for _, s := range model.Subscores {
		v, ok := r.attempt.ImpactedScores[s]
		if !ok {
			continue
		}
		part := fmt.Sprintf("%s %d", statsPkg.Label(s), v)
		if prev, measured := r.before.Get(s).Value(); measured {
			next, _ := m.progress.CommunicationScore.Get(s).Value()
			part += fmt.Sprintf(" (%+d)", next-prev)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "  ")
}

func topFillers(r filler.Result) string {
	top := r.TopFillers(3)
	parts := make([]string, 0, len(top))
	for _, wc := range top {
		parts = append(parts, fmt.Sprintf("%q x%d", wc.Word, wc.Count))
	}
	return strings.Join(parts, ", ")
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.state == stateSpeaking {
		segments = append(segments, fmt.Sprintf("Time %s/%s", clock(m.elapsed), clock(m.limit())))
	}
	p := m.progress
	segments = append(segments,
		fmt.Sprintf("Streak %d", p.CurrentStreak),
		fmt.Sprintf("XP %d", p.TotalXP),
		fmt.Sprintf("Overall %d", p.CommunicationScore.Overall),
	)
	if p.Archetype.Name != "" {
		segments = append(segments, p.Archetype.Name)
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func clock(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (m *Model) resetSession() {
	m.state = stateSpeaking
	m.started = false
	m.startedAt = time.Time{}
	m.elapsed = 0
	m.result = nil
	m.errMsg = ""
	m.input.Reset()
	m.prompt = m.gen.Prompt(m.tracker.Catalog().Prompts(), m.recent)
	m.recent = append(m.recent, m.prompt)
	if len(m.recent) > recentPrompts {
		m.recent = m.recent[len(m.recent)-recentPrompts:]
	}
}

// submit scores the current response and records it.
func (m *Model) submit() {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		m.errMsg = "Nothing to score yet."
		m.started = false
		m.elapsed = 0
		return
	}
	ctx := context.Background()
	end := m.now()
	duration := m.elapsed
	if m.started {
		duration = end.Sub(m.startedAt)
	}
	minutes := duration.Minutes()
	if minutes <= 0 {
		minutes = m.config.Minutes
	}

	start := time.Now()
	analysis := session.Analyze(text, minutes)
	m.metrics.ObserveAnalysis(ctx, start)

	attempt, err := session.NewAttempt(m.exercise, analysis, duration, end)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	before := m.progress.CommunicationScore
	p, unlocked := m.tracker.Ingest(ctx, m.config.UserID, attempt)
	m.progress = p
	m.result = &outcome{analysis: analysis, attempt: attempt, unlocked: unlocked, before: before}
	m.state = stateResults
	m.input.Blur()
}

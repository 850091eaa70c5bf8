package tui

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/bcdxn/f1strategy/internal/domain"
	"github.com/bcdxn/f1strategy/internal/strategy"
	"github.com/bcdxn/f1strategy/internal/tui/styles"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
)

var (
	s = styles.Default()
)

// NewDashboard returns the strategy dashboard program. The dashboard kicks
// off a full pre-race optimization on startup and re-plans whenever a live
// snapshot arrives via Send.
func NewDashboard(engine *strategy.Engine, req strategy.OptimizeRequest, opts ...TUIOption) *tea.Program {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	d := Dashboard{
		engine:     engine,
		req:        req,
		spinner:    sp,
		table:      newStrategyTable(),
		optimizing: true,
		logger:     slog.Default(),
		ctx:        context.Background(),
	}
	// apply given options
	for _, opt := range opts {
		opt(&d)
	}
	// return new Bubbletea program
	return tea.NewProgram(d, tea.WithContext(d.ctx))
}

type TUIOption = func(d *Dashboard)

// WithLogger configures the logger to use within the TUI program
func WithLogger(l *slog.Logger) TUIOption {
	return func(d *Dashboard) { d.logger = l }
}

// WithContext configures the context to use within the TUI program
func WithContext(ctx context.Context) TUIOption {
	return func(d *Dashboard) { d.ctx = ctx }
}

/* Bubbletea Interface Implementation
------------------------------------------------------------------------------------------------- */

func (d Dashboard) Init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.optimizeCmd())
}

func (d Dashboard) View() string {
	if d.err != "" {
		return s.Doc.Render(s.Red.Render(d.err))
	}
	if d.optimizing {
		return s.Doc.Render(fmt.Sprintf(
			"%s Optimizing strategies for %s...",
			d.spinner.View(),
			d.engine.Config().TrackName,
		))
	}

	v := lipgloss.JoinVertical(
		lipgloss.Top,
		titleView(d),
		subtitleView(d),
		snapshotView(d),
		tableView(d),
		recommendationView(d),
	)
	return s.Doc.Width(d.width).Render(v)
}

func (d Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return handleKeyMsg(d, msg)
	case tea.WindowSizeMsg:
		return handleWindowSizeMsg(d, msg)
	case ReportMsg:
		return handleReportMsg(d, msg)
	case SnapshotMsg:
		return handleSnapshotMsg(d, msg)
	case RecommendationMsg:
		return handleRecommendationMsg(d, msg)
	case ErrorMsg:
		return handleErrorMsg(d, msg)
	default:
		var cmd tea.Cmd
		if d.optimizing {
			d.spinner, cmd = d.spinner.Update(msg)
		}
		return d, cmd
	}
}

/* Tea Message Types
------------------------------------------------------------------------------------------------- */

type ReportMsg strategy.StrategyReport
type SnapshotMsg domain.LiveSnapshot
type RecommendationMsg domain.Recommendation
type ErrorMsg struct {
	Err error
}

/* Tea Commands
------------------------------------------------------------------------------------------------- */

// optimizeCmd runs the full pre-race optimization off the Update loop.
func (d Dashboard) optimizeCmd() tea.Cmd {
	engine, req, ctx := d.engine, d.req, d.ctx
	return func() tea.Msg {
		report, err := engine.Optimize(ctx, req)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ReportMsg(report)
	}
}

// recommendCmd re-plans the remaining race from the latest live snapshot.
func (d Dashboard) recommendCmd(snap domain.LiveSnapshot) tea.Cmd {
	engine, ctx := d.engine, d.ctx
	return func() tea.Msg {
		rec, err := engine.RecommendNow(ctx, snap)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return RecommendationMsg(rec)
	}
}

/* Tea Message handlers
------------------------------------------------------------------------------------------------- */

func handleKeyMsg(d Dashboard, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		d.logger.Debug("received quit tea message")
		return d, tea.Quit
	}
	return d, nil
}

func handleWindowSizeMsg(d Dashboard, msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	h, v := s.Doc.GetFrameSize()
	d.width = msg.Width - h
	d.height = msg.Height - v
	return d, nil
}

func handleReportMsg(d Dashboard, msg ReportMsg) (tea.Model, tea.Cmd) {
	d.optimizing = false
	d.report = strategy.StrategyReport(msg)
	d.table = newStrategyTable().WithRows(strategyRows(d.report.Results))
	return d, nil
}

func handleSnapshotMsg(d Dashboard, msg SnapshotMsg) (tea.Model, tea.Cmd) {
	d.snapshot = domain.LiveSnapshot(msg)
	d.hasSnapshot = true
	return d, d.recommendCmd(d.snapshot)
}

func handleRecommendationMsg(d Dashboard, msg RecommendationMsg) (tea.Model, tea.Cmd) {
	d.recommendation = domain.Recommendation(msg)
	d.hasRecommendation = true
	// The remaining-race plans supersede the pre-race ranking once live data
	// is flowing.
	if len(d.recommendation.Results) > 0 {
		d.table = newStrategyTable().WithRows(strategyRows(d.recommendation.Results))
	}
	return d, nil
}

func handleErrorMsg(d Dashboard, msg ErrorMsg) (tea.Model, tea.Cmd) {
	d.logger.Error("dashboard error", "err", msg.Err)
	d.err = msg.Err.Error()
	d.optimizing = false
	return d, nil
}

/* View Helper Functions
------------------------------------------------------------------------------------------------- */

func titleView(d Dashboard) string {
	return s.TitleBar.Width(d.width - 4).Render(d.engine.Config().TrackName)
}

func subtitleView(d Dashboard) string {
	cfg := d.engine.Config()
	t := fmt.Sprintf("Race: %d Laps", cfg.Laps)
	if d.hasSnapshot {
		t = fmt.Sprintf("Race: %d / %d Laps", d.snapshot.CurrentLap, cfg.Laps)
	}
	return s.SubtitleBar.Width(d.width - 4).Render(t)
}

func snapshotView(d Dashboard) string {
	if !d.hasSnapshot {
		return s.Subtle.Render("waiting for live timing data...")
	}
	compound := compoundStyle(d.snapshot.TireCompound).Render(string(d.snapshot.TireCompound))
	line := fmt.Sprintf(
		"P%d  %s (%d laps)  fuel %.1fkg  ahead +%.1fs  behind +%.1fs",
		d.snapshot.Position,
		compound,
		d.snapshot.TireAge,
		d.snapshot.FuelRemaining,
		d.snapshot.GapAhead,
		d.snapshot.GapBehind,
	)
	if d.snapshot.Weather.IsWet() {
		line = fmt.Sprintf("%s  %s", line, s.Wet.Render("WET"))
	}
	return lipgloss.PlaceHorizontal(d.width-4, lipgloss.Center, line)
}

func tableView(d Dashboard) string {
	return lipgloss.PlaceHorizontal(
		d.width-4,
		lipgloss.Center,
		d.table.View(),
		lipgloss.WithWhitespaceChars("."),
		lipgloss.WithWhitespaceForeground(s.Color.Subtle),
	)
}

func recommendationView(d Dashboard) string {
	if !d.hasRecommendation {
		return ""
	}
	rec := d.recommendation
	title := s.ActionTitle.Render(actionLabel(rec.Action))
	body := s.ActionBody.Render(rec.Reason)
	box := lipgloss.JoinHorizontal(lipgloss.Center, title, body)
	return lipgloss.PlaceHorizontal(d.width-4, lipgloss.Center, box)
}

func actionLabel(a domain.RecommendedAction) string {
	return strings.ReplaceAll(string(a), "_", " ")
}

func compoundStyle(c domain.TireCompound) lipgloss.Style {
	switch c {
	case domain.TireCompoundSoft:
		return s.Soft
	case domain.TireCompoundMedium:
		return s.Medium
	case domain.TireCompoundHard:
		return s.Hard
	case domain.TireCompoundIntermediate:
		return s.Intermediate
	case domain.TireCompoundFullWet:
		return s.Wet
	}
	return lipgloss.NewStyle()
}

func riskStyle(r domain.RiskLevel) lipgloss.Style {
	switch r {
	case domain.RiskLow:
		return s.Green
	case domain.RiskMedium:
		return s.Yellow
	case domain.RiskHigh:
		return s.Red
	}
	return lipgloss.NewStyle()
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

func newStrategyTable() table.Model {
	return table.New([]table.Column{
		table.NewColumn("rank", "#", 3),
		table.NewColumn("strategy", "STRATEGY", 20).WithStyle(lipgloss.NewStyle().Align(lipgloss.Left)),
		table.NewColumn("pitlaps", "PIT LAPS", 14),
		table.NewColumn("time", "TIME", 13),
		table.NewColumn("risk", "RISK", 8),
	}).
		WithRows([]table.Row{}).
		WithBaseStyle(lipgloss.NewStyle().AlignHorizontal(lipgloss.Center))
}

func strategyRows(results []domain.SimulationResult) []table.Row {
	rows := make([]table.Row, 0, len(results))
	for i, r := range results {
		rows = append(rows, table.NewRow(table.RowData{
			"rank":     i + 1,
			"strategy": r.Strategy.String(),
			"pitlaps":  pitLaps(r.Strategy),
			"time":     FormatRaceTime(r.TotalTime),
			"risk":     table.NewStyledCell(string(r.Risk), riskStyle(r.Risk)),
		}))
	}
	return rows
}

// pitLaps renders the planned stop laps, e.g. "L18, L38"; a no-stop plan
// renders as a dash.
func pitLaps(strat domain.Strategy) string {
	if len(strat.Stops) == 0 {
		return "-"
	}
	laps := make([]string, len(strat.Stops))
	for i, stop := range strat.Stops {
		laps[i] = fmt.Sprintf("L%d", stop.Lap)
	}
	return strings.Join(laps, ", ")
}

// FormatRaceTime renders a total race time in seconds as h:mm:ss.mmm,
// dropping the hour when zero. The CLI commands share it for their plain
// text output.
func FormatRaceTime(seconds float64) string {
	ms := int(math.Round(seconds * 1000))
	h := ms / 3600000
	m := ms % 3600000 / 60000
	sec := ms % 60000 / 1000
	millis := ms % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, millis)
	}
	return fmt.Sprintf("%d:%02d.%03d", m, sec, millis)
}

/* Type Definitions
------------------------------------------------------------------------------------------------- */

type Dashboard struct {
	engine            *strategy.Engine
	req               strategy.OptimizeRequest
	report            strategy.StrategyReport
	snapshot          domain.LiveSnapshot
	recommendation    domain.Recommendation
	hasSnapshot       bool
	hasRecommendation bool
	optimizing        bool
	err               string
	spinner           spinner.Model
	table             table.Model
	width             int
	height            int
	logger            *slog.Logger
	ctx               context.Context
}

// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/lifecycle"
	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/passage"
	"github.com/verte-zerg/speedtype/internal/scoring"
)

// Model implements the Bubble Tea typing UI. It is the presenter the
// lifecycle controller drives.
type Model struct {
	ctrl   *lifecycle.Controller
	logger *zap.Logger

	keys  keyMap
	help  help.Model
	input textinput.Model

	width  int
	height int

	passageText  string
	highlight    iter.Seq[scoring.Char]
	metrics      model.Metrics
	controls     model.Controls
	best         model.BestResults
	inputEnabled bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	activeTierStyle  = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Bold(true).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveTierStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
)

// bestStoreTimeout bounds best-score writes so a lock held by another
// process cannot freeze the UI.
var bestStoreTimeout = time.Second

// Options configures NewModel.
type Options struct {
	Selector *passage.Selector
	Best     lifecycle.BestStore
	Logger   *zap.Logger
	Tier     model.Tier
}

// NewModel constructs the typing UI and initializes its controller.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "press enter to start"
	m := &Model{
		logger: logger,
		keys:   newKeyMap(),
		help:   help.New(),
		input:  input,
	}
	ctrl, err := lifecycle.New(lifecycle.Options{
		Presenter: m,
		Selector:  opts.Selector,
		Best:      opts.Best,
		Logger:    logger,
		Tier:      opts.Tier,
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	ctrl.Init(ctx)
	return m, nil
}

// SetPassageText implements lifecycle.Presenter.
func (m *Model) SetPassageText(text string) {
	m.passageText = text
}

// TypedText implements lifecycle.Presenter.
func (m *Model) TypedText() string {
	return m.input.Value()
}

// SetTypedText implements lifecycle.Presenter.
func (m *Model) SetTypedText(text string) {
	m.input.SetValue(text)
}

// SetInputEnabled implements lifecycle.Presenter.
func (m *Model) SetInputEnabled(enabled bool) {
	m.inputEnabled = enabled
	if enabled {
		m.input.Placeholder = ""
		m.input.Focus()
	} else {
		m.input.Placeholder = "press enter to start"
		m.input.Blur()
	}
	m.keys.apply(m.controls, m.inputEnabled)
}

// SetControls implements lifecycle.Presenter.
func (m *Model) SetControls(controls model.Controls) {
	m.controls = controls
	m.keys.apply(m.controls, m.inputEnabled)
}

// SetMetrics implements lifecycle.Presenter.
func (m *Model) SetMetrics(metrics model.Metrics) {
	m.metrics = metrics
}

// SetHighlight implements lifecycle.Presenter.
func (m *Model) SetHighlight(chars iter.Seq[scoring.Char]) {
	m.highlight = chars
}

// SetBest implements lifecycle.Presenter.
func (m *Model) SetBest(best model.BestResults) {
	m.best = best
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(m.contentWidth()-lipgloss.Width(m.input.Prompt)-1, 1)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	if m.inputEnabled {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		m.logger.Debug("quit", zap.String("state", m.ctrl.State().String()))
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		m.ctrl.Start()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Stop):
		ctx, cancel := context.WithTimeout(context.Background(), bestStoreTimeout)
		defer cancel()
		m.ctrl.Stop(ctx)
		return m, nil
	case key.Matches(msg, m.keys.Retry):
		m.ctrl.Retry()
		return m, nil
	case key.Matches(msg, m.keys.NextTier):
		m.ctrl.ChangeTier(m.ctrl.Tier().Next())
		return m, nil
	case key.Matches(msg, m.keys.PrevTier):
		m.ctrl.ChangeTier(m.ctrl.Tier().Prev())
		return m, nil
	case key.Matches(msg, m.keys.Easy):
		m.ctrl.ChangeTier(model.TierEasy)
		return m, nil
	case key.Matches(msg, m.keys.Medium):
		m.ctrl.ChangeTier(model.TierMedium)
		return m, nil
	case key.Matches(msg, m.keys.Hard):
		m.ctrl.ChangeTier(model.TierHard)
		return m, nil
	}
	if !m.inputEnabled {
		return m, nil
	}
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.ctrl.InputChanged()
	}
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.passageText == "" {
		return ""
	}
	styled := buildStyledRunes(m.highlight)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := m.contentWidth()
	passageBlock := lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	blocks := []string{
		m.renderTiers(),
		"",
		passageBlock,
		"",
		m.input.View(),
		"",
		m.renderMetrics(),
		m.renderBest(),
	}
	content := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	helpLine := footerStyle.Render(m.help.View(m.keys))
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) renderTiers() string {
	tabs := make([]string, 0, len(model.Tiers()))
	current := model.TierEasy
	if m.ctrl != nil {
		current = m.ctrl.Tier()
	}
	for _, tier := range model.Tiers() {
		style := inactiveTierStyle
		if tier == current {
			style = activeTierStyle
		}
		if !m.controls.Tier {
			style = style.Faint(true)
		}
		tabs = append(tabs, style.Render(tier.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderMetrics() string {
	segments := []string{
		labelStyle.Render("Level ") + valueStyle.Render(m.metrics.Level),
		labelStyle.Render("Time ") + valueStyle.Render(fmt.Sprintf("%.2f", m.metrics.ElapsedSeconds)),
		labelStyle.Render("WPM ") + valueStyle.Render(fmt.Sprintf("%d", m.metrics.WPM)),
	}
	if m.ctrl != nil {
		if res, ok := m.ctrl.Result(); ok {
			segments = append(segments, labelStyle.Render("Accuracy ")+valueStyle.Render(fmt.Sprintf("%.1f%%", res.Accuracy*100)))
		}
	}
	return strings.Join(segments, "   ")
}

func (m *Model) renderBest() string {
	segments := []string{labelStyle.Render("Best")}
	for _, tier := range model.Tiers() {
		segments = append(segments, labelStyle.Render(tier.Label()+" ")+valueStyle.Render(fmt.Sprintf("%d", m.best.WPM(tier))))
	}
	return strings.Join(segments, "  ")
}

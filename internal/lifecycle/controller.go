// Package lifecycle drives a typing test through idle, running and stopped
// states and keeps the display surfaces in sync.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/passage"
	"github.com/verte-zerg/speedtype/internal/scoring"
)

// ErrMissingSurface is returned by New when a required collaborator is nil.
var ErrMissingSurface = errors.New("missing required surface")

// Presenter is the display and input surface the controller drives.
type Presenter interface {
	SetPassageText(text string)
	TypedText() string
	SetTypedText(text string)
	SetInputEnabled(enabled bool)
	SetControls(controls model.Controls)
	SetMetrics(metrics model.Metrics)
	SetHighlight(chars iter.Seq[scoring.Char])
	SetBest(best model.BestResults)
}

// BestStore persists the best score per tier.
type BestStore interface {
	Load(ctx context.Context) (model.BestResults, error)
	RecordIfBetter(ctx context.Context, tier model.Tier, wpm int) (bool, error)
}

// Clock reads the current time. time.Now carries a monotonic reading.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Options configures a Controller.
type Options struct {
	Presenter Presenter
	Selector  *passage.Selector
	Best      BestStore
	Clock     Clock
	Logger    *zap.Logger
	Tier      model.Tier
}

// Controller owns the single active session.
type Controller struct {
	presenter Presenter
	selector  *passage.Selector
	best      BestStore
	clock     Clock
	logger    *zap.Logger

	session   model.Session
	result    model.ScoreResult
	hasResult bool
}

var (
	idleControls    = model.Controls{Start: true, Stop: false, Retry: true, Tier: true}
	runningControls = model.Controls{Start: false, Stop: true, Retry: true, Tier: false}
)

// New validates the collaborators and returns a Controller in the idle state.
func New(opts Options) (*Controller, error) {
	var missing []string
	if opts.Presenter == nil {
		missing = append(missing, "presenter")
	}
	if opts.Selector == nil {
		missing = append(missing, "passage selector")
	}
	if opts.Best == nil {
		missing = append(missing, "best score store")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(missing) > 0 {
		logger.Error("controller initialization aborted", zap.Strings("missing", missing))
		return nil, fmt.Errorf("%w: %s", ErrMissingSurface, strings.Join(missing, ", "))
	}
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &Controller{
		presenter: opts.Presenter,
		selector:  opts.Selector,
		best:      opts.Best,
		clock:     clock,
		logger:    logger,
		session: model.Session{
			Tier:  model.ParseTier(string(opts.Tier)),
			State: model.StateIdle,
		},
	}, nil
}

// Init shows the first passage and the stored best scores.
func (c *Controller) Init(ctx context.Context) {
	c.applyNewPassage()
	c.reset()
	results, err := c.best.Load(ctx)
	if err != nil {
		c.logger.Warn("failed to load best results", zap.Error(err))
	}
	c.presenter.SetBest(results)
	c.logger.Debug("controller initialized", zap.String("tier", string(c.session.Tier)))
}

// Start begins timing. It does nothing while a test is running.
func (c *Controller) Start() {
	if c.session.State == model.StateRunning {
		return
	}
	if strings.TrimSpace(c.session.Passage.Text) == "" {
		c.applyNewPassage()
	}
	c.session.State = model.StateRunning
	c.session.StartedAt = c.clock.Now()
	c.hasResult = false
	c.presenter.SetMetrics(c.zeroMetrics())
	c.presenter.SetTypedText("")
	c.presenter.SetInputEnabled(true)
	c.presenter.SetControls(runningControls)
	c.presenter.SetHighlight(scoring.Classify("", c.session.Passage.Text))
	c.logger.Debug("test started",
		zap.String("tier", string(c.session.Tier)),
		zap.Int("passage_len", len(c.session.Passage.Text)))
}

// Stop ends a running test, shows its score and records a new best.
func (c *Controller) Stop(ctx context.Context) {
	if !c.finish() {
		return
	}
	improved, err := c.best.RecordIfBetter(ctx, c.session.Tier, c.result.WPM)
	if err != nil {
		c.logger.Warn("failed to record best result", zap.Error(err))
		return
	}
	if !improved {
		return
	}
	results, err := c.best.Load(ctx)
	if err != nil {
		c.logger.Warn("failed to reload best results", zap.Error(err))
		return
	}
	c.presenter.SetBest(results)
	c.logger.Info("new best result",
		zap.String("tier", string(c.session.Tier)),
		zap.Int("wpm", c.result.WPM))
}

// Retry abandons the current test without recording it and draws a new
// passage for the current tier.
func (c *Controller) Retry() {
	if c.session.State == model.StateRunning {
		c.finish()
		c.logger.Debug("running test abandoned")
	}
	c.applyNewPassage()
	c.reset()
}

// ChangeTier switches tier and draws a passage for it. Ignored while running.
func (c *Controller) ChangeTier(tier model.Tier) {
	if c.session.State == model.StateRunning {
		return
	}
	c.session.Tier = model.ParseTier(string(tier))
	c.applyNewPassage()
	c.reset()
}

// InputChanged refreshes the highlight from the typed text while running.
func (c *Controller) InputChanged() {
	if c.session.State != model.StateRunning {
		return
	}
	c.presenter.SetHighlight(scoring.Classify(c.presenter.TypedText(), c.session.Passage.Text))
}

// State returns the lifecycle state.
func (c *Controller) State() model.State {
	return c.session.State
}

// Tier returns the selected tier.
func (c *Controller) Tier() model.Tier {
	return c.session.Tier
}

// Passage returns the passage currently shown.
func (c *Controller) Passage() model.Passage {
	return c.session.Passage
}

// Session returns a copy of the current session.
func (c *Controller) Session() model.Session {
	return c.session
}

// Result returns the score of the last stopped test.
func (c *Controller) Result() (model.ScoreResult, bool) {
	return c.result, c.hasResult
}

// finish stops the clock and scores the test. It reports false when no test
// was running.
func (c *Controller) finish() bool {
	if c.session.State != model.StateRunning {
		return false
	}
	elapsed := c.clock.Now().Sub(c.session.StartedAt).Seconds()
	typed := c.presenter.TypedText()
	c.result = scoring.Score(c.session.Passage.Text, typed, elapsed)
	c.hasResult = true
	c.session.State = model.StateStopped
	c.presenter.SetMetrics(model.Metrics{
		Level:          c.session.Tier.Label(),
		ElapsedSeconds: c.result.ElapsedSeconds,
		WPM:            c.result.WPM,
	})
	c.presenter.SetControls(idleControls)
	c.presenter.SetInputEnabled(false)
	c.logger.Debug("test stopped",
		zap.Float64("elapsed_seconds", c.result.ElapsedSeconds),
		zap.Int("correct_words", c.result.CorrectWords),
		zap.Int("wpm", c.result.WPM))
	return true
}

func (c *Controller) reset() {
	c.session.State = model.StateIdle
	c.session.StartedAt = time.Time{}
	c.hasResult = false
	c.result = model.ScoreResult{}
	c.presenter.SetMetrics(c.zeroMetrics())
	c.presenter.SetTypedText("")
	c.presenter.SetInputEnabled(false)
	c.presenter.SetControls(idleControls)
	c.presenter.SetHighlight(scoring.Classify("", c.session.Passage.Text))
}

func (c *Controller) applyNewPassage() {
	c.session.Passage = c.selector.Select(c.session.Tier, c.session.Passage.Text)
	c.presenter.SetPassageText(c.session.Passage.Text)
}

func (c *Controller) zeroMetrics() model.Metrics {
	return model.Metrics{Level: c.session.Tier.Label()}
}

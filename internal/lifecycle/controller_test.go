package lifecycle

import (
	"context"
	"errors"
	"iter"
	"math/rand"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/speedtype/internal/model"
	"github.com/verte-zerg/speedtype/internal/passage"
	"github.com/verte-zerg/speedtype/internal/scoring"
)

type fakePresenter struct {
	passageText  string
	typed        string
	inputEnabled bool
	controls     model.Controls
	metrics      model.Metrics
	highlight    iter.Seq[scoring.Char]
	best         model.BestResults
	metricWrites int
}

func (p *fakePresenter) SetPassageText(text string) {
	p.passageText = text
}

func (p *fakePresenter) TypedText() string {
	return p.typed
}

func (p *fakePresenter) SetTypedText(text string) {
	p.typed = text
}

func (p *fakePresenter) SetInputEnabled(enabled bool) {
	p.inputEnabled = enabled
}

func (p *fakePresenter) SetControls(controls model.Controls) {
	p.controls = controls
}

func (p *fakePresenter) SetHighlight(chars iter.Seq[scoring.Char]) {
	p.highlight = chars
}

func (p *fakePresenter) SetBest(best model.BestResults) {
	p.best = best
}

func (p *fakePresenter) SetMetrics(metrics model.Metrics) {
	p.metrics = metrics
	p.metricWrites++
}

func (p *fakePresenter) classes() []scoring.Class {
	var out []scoring.Class
	for c := range p.highlight {
		out = append(out, c.Class)
	}
	return out
}

func (p *fakePresenter) highlightText() string {
	var b strings.Builder
	for c := range p.highlight {
		b.WriteRune(c.Rune())
	}
	return b.String()
}

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeBest struct {
	results model.BestResults
	records int
	err     error
}

func (b *fakeBest) Load(context.Context) (model.BestResults, error) {
	out := model.DefaultBestResults()
	for k, v := range b.results {
		out[k] = v
	}
	return out, b.err
}

func (b *fakeBest) RecordIfBetter(_ context.Context, tier model.Tier, wpm int) (bool, error) {
	b.records++
	if b.err != nil {
		return false, b.err
	}
	if wpm <= b.results[tier].WPM {
		return false, nil
	}
	b.results[tier] = model.Best{WPM: wpm}
	return true, nil
}

type harness struct {
	ctrl  *Controller
	view  *fakePresenter
	clock *fakeClock
	best  *fakeBest
}

func newHarness(t *testing.T, tier model.Tier) *harness {
	t.Helper()
	h := &harness{
		view:  &fakePresenter{},
		clock: newFakeClock(),
		best:  &fakeBest{results: model.BestResults{}},
	}
	sel := passage.NewSelectorWithSource(passage.NewLibrary(), rand.NewSource(7))
	ctrl, err := New(Options{
		Presenter: h.view,
		Selector:  sel,
		Best:      h.best,
		Clock:     h.clock,
		Tier:      tier,
	})
	require.NoError(t, err)
	h.ctrl = ctrl
	ctrl.Init(context.Background())
	return h
}

func TestNewMissingSurface(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingSurface))
	assert.Contains(t, err.Error(), "presenter")
	assert.Contains(t, err.Error(), "passage selector")
	assert.Contains(t, err.Error(), "best score store")
}

func TestInitShowsPassageAndIdleControls(t *testing.T) {
	h := newHarness(t, model.TierMedium)
	assert.Equal(t, model.StateIdle, h.ctrl.State())
	assert.Equal(t, model.TierMedium, h.ctrl.Passage().Tier)
	assert.Equal(t, h.ctrl.Passage().Text, h.view.passageText)
	assert.Equal(t, model.Metrics{Level: "Medium"}, h.view.metrics)
	assert.Equal(t, idleControls, h.view.controls)
	assert.False(t, h.view.inputEnabled)
	assert.Equal(t, model.DefaultBestResults(), h.view.best)
}

func TestInitUnknownTierDefaultsToEasy(t *testing.T) {
	h := newHarness(t, model.Tier("bogus"))
	assert.Equal(t, model.TierEasy, h.ctrl.Tier())
}

func TestStartIsIdempotent(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.ctrl.Start()
	started := h.ctrl.Session().StartedAt
	h.view.typed = "The"
	h.clock.Advance(5 * time.Second)

	h.ctrl.Start()
	assert.Equal(t, started, h.ctrl.Session().StartedAt)
	assert.Equal(t, "The", h.view.typed, "second start must not clear input")
}

func TestStartEnablesInputAndResetsHighlight(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.view.typed = "leftover"
	h.ctrl.Start()
	assert.Equal(t, model.StateRunning, h.ctrl.State())
	assert.Empty(t, h.view.typed)
	assert.True(t, h.view.inputEnabled)
	assert.Equal(t, runningControls, h.view.controls)
	classes := h.view.classes()
	require.Len(t, classes, len([]rune(h.ctrl.Passage().Text)))
	for _, c := range classes {
		assert.Equal(t, scoring.Pending, c)
	}
}

func TestStopWhileIdleLeavesMetrics(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	before := h.view.metrics
	writes := h.view.metricWrites
	h.ctrl.Stop(context.Background())
	assert.Equal(t, before, h.view.metrics)
	assert.Equal(t, writes, h.view.metricWrites)
	assert.Zero(t, h.best.records)
	_, ok := h.ctrl.Result()
	assert.False(t, ok)
}

func TestInputChangedHighlightsWhileRunning(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	text := h.ctrl.Passage().Text

	h.view.typed = "zz"
	h.ctrl.InputChanged()
	for _, c := range h.view.classes() {
		assert.Equal(t, scoring.Pending, c, "no highlight updates while idle")
	}

	h.ctrl.Start()
	h.view.typed = text[:2] + "#"
	h.ctrl.InputChanged()
	classes := h.view.classes()
	require.Len(t, classes, len([]rune(text)))
	assert.Equal(t, []scoring.Class{scoring.Correct, scoring.Correct, scoring.Incorrect}, classes[:3])
	assert.Equal(t, scoring.Pending, classes[3])
}

func TestEndToEndMediumFullPassage(t *testing.T) {
	h := newHarness(t, model.TierMedium)
	h.best.results[model.TierMedium] = model.Best{WPM: 3}

	h.ctrl.Start()
	text := h.ctrl.Passage().Text
	h.view.typed = text
	h.ctrl.InputChanged()
	h.clock.Advance(60 * time.Second)
	h.ctrl.Stop(context.Background())

	words := len(strings.Fields(text))
	res, ok := h.ctrl.Result()
	require.True(t, ok)
	assert.Equal(t, words, res.WPM)
	assert.Equal(t, words, res.CorrectWords)
	assert.InDelta(t, 60.0, res.ElapsedSeconds, 1e-9)
	assert.Equal(t, model.Metrics{Level: "Medium", ElapsedSeconds: 60, WPM: words}, h.view.metrics)
	assert.Equal(t, model.StateStopped, h.ctrl.State())
	assert.Equal(t, idleControls, h.view.controls)
	assert.False(t, h.view.inputEnabled)
	assert.Equal(t, words, h.view.best.WPM(model.TierMedium))
}

func TestStopDoesNotLowerBest(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.best.results[model.TierEasy] = model.Best{WPM: 500}
	h.view.best = nil

	h.ctrl.Start()
	h.view.typed = h.ctrl.Passage().Text
	h.clock.Advance(60 * time.Second)
	h.ctrl.Stop(context.Background())

	assert.Equal(t, 1, h.best.records)
	assert.Nil(t, h.view.best, "best surface is refreshed only on improvement")
	assert.Equal(t, 500, h.best.results[model.TierEasy].WPM)
}

func TestStopKeepsResultOnStoreError(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.best.err = errors.New("disk full")
	h.ctrl.Start()
	h.view.typed = h.ctrl.Passage().Text
	h.clock.Advance(30 * time.Second)
	h.ctrl.Stop(context.Background())
	res, ok := h.ctrl.Result()
	require.True(t, ok)
	assert.Positive(t, res.WPM)
	assert.Equal(t, model.StateStopped, h.ctrl.State())
}

func TestStartAfterStopRestarts(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.ctrl.Start()
	h.clock.Advance(10 * time.Second)
	h.ctrl.Stop(context.Background())
	passageText := h.ctrl.Passage().Text

	h.clock.Advance(time.Minute)
	h.ctrl.Start()
	assert.Equal(t, model.StateRunning, h.ctrl.State())
	assert.Equal(t, h.clock.now, h.ctrl.Session().StartedAt)
	assert.Equal(t, passageText, h.ctrl.Passage().Text, "start keeps the displayed passage")
	assert.Equal(t, model.Metrics{Level: "Easy"}, h.view.metrics)
}

func TestRetryWhileRunningDoesNotRecord(t *testing.T) {
	h := newHarness(t, model.TierHard)
	h.ctrl.Start()
	prev := h.ctrl.Passage().Text
	h.view.typed = prev
	h.clock.Advance(20 * time.Second)

	h.ctrl.Retry()
	assert.Equal(t, model.StateIdle, h.ctrl.State())
	assert.Zero(t, h.best.records)
	assert.Equal(t, model.Metrics{Level: "Hard"}, h.view.metrics)
	assert.Empty(t, h.view.typed)
	assert.False(t, h.view.inputEnabled)
	assert.Equal(t, idleControls, h.view.controls)
	assert.NotEqual(t, prev, h.ctrl.Passage().Text)
	assert.Equal(t, model.TierHard, h.ctrl.Passage().Tier)
	assert.Equal(t, h.ctrl.Passage().Text, h.view.highlightText(), "highlight shows the new passage")
	for _, c := range h.view.classes() {
		assert.Equal(t, scoring.Pending, c)
	}
	_, ok := h.ctrl.Result()
	assert.False(t, ok)
}

func TestRetryFromStoppedClearsResult(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.ctrl.Start()
	h.view.typed = h.ctrl.Passage().Text
	h.clock.Advance(10 * time.Second)
	h.ctrl.Stop(context.Background())
	require.Equal(t, 1, h.best.records)

	h.ctrl.Retry()
	assert.Equal(t, model.Metrics{Level: "Easy"}, h.view.metrics)
	assert.Equal(t, h.ctrl.Passage().Text, h.view.highlightText())
	_, ok := h.ctrl.Result()
	assert.False(t, ok)
	assert.Equal(t, 1, h.best.records)
}

func TestChangeTierIgnoredWhileRunning(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.ctrl.Start()
	p := h.ctrl.Passage()
	h.ctrl.ChangeTier(model.TierHard)
	assert.Equal(t, model.TierEasy, h.ctrl.Tier())
	assert.Equal(t, p, h.ctrl.Passage())
	assert.Equal(t, model.StateRunning, h.ctrl.State())
}

func TestChangeTierDrawsPassage(t *testing.T) {
	h := newHarness(t, model.TierEasy)
	h.ctrl.Start()
	h.clock.Advance(10 * time.Second)
	h.ctrl.Stop(context.Background())

	h.ctrl.ChangeTier(model.TierHard)
	assert.Equal(t, model.TierHard, h.ctrl.Tier())
	assert.Equal(t, model.TierHard, h.ctrl.Passage().Tier)
	assert.Equal(t, h.ctrl.Passage().Text, h.view.passageText)
	assert.Equal(t, model.Metrics{Level: "Hard"}, h.view.metrics)
	assert.Equal(t, model.StateIdle, h.ctrl.State())

	hard := passage.NewLibrary().Passages(model.TierHard)
	texts := make([]string, len(hard))
	for i, p := range hard {
		texts[i] = p.Text
	}
	assert.True(t, slices.Contains(texts, h.ctrl.Passage().Text))
}

func TestInitLogsBestLoadFailure(t *testing.T) {
	h := &harness{view: &fakePresenter{}, clock: newFakeClock(), best: &fakeBest{results: model.BestResults{}, err: errors.New("corrupt")}}
	ctrl, err := New(Options{
		Presenter: h.view,
		Selector:  passage.NewSelector(passage.NewLibrary()),
		Best:      h.best,
		Clock:     h.clock,
	})
	require.NoError(t, err)
	ctrl.Init(context.Background())
	assert.Equal(t, model.DefaultBestResults(), h.view.best)
}

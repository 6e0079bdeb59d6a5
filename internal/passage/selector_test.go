package passage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/speedtype/internal/model"
)

func newTestSelector(lib *Library) *Selector {
	return NewSelectorWithSource(lib, rand.NewSource(1))
}

func TestSelectBelongsToTier(t *testing.T) {
	lib := NewLibrary()
	sel := newTestSelector(lib)
	for _, tier := range model.Tiers() {
		texts := map[string]bool{}
		for _, p := range lib.Passages(tier) {
			texts[p.Text] = true
		}
		prev := ""
		for i := 0; i < 50; i++ {
			p := sel.Select(tier, prev)
			assert.Equal(t, tier, p.Tier)
			assert.True(t, texts[p.Text], "passage %q not in tier %s", p.Text, tier)
			prev = p.Text
		}
	}
}

func TestSelectNeverRepeats(t *testing.T) {
	sel := newTestSelector(NewLibrary())
	for _, tier := range model.Tiers() {
		prev := sel.Select(tier, "")
		for i := 0; i < 200; i++ {
			next := sel.Select(tier, prev.Text)
			require.NotEqual(t, prev.Text, next.Text)
			prev = next
		}
	}
}

func TestSelectUnknownTierFallsBackToEasy(t *testing.T) {
	sel := newTestSelector(NewLibrary())
	p := sel.Select(model.Tier("expert"), "")
	assert.Equal(t, model.TierEasy, p.Tier)
}

func TestSelectSingleEntryTier(t *testing.T) {
	lib := NewLibrary()
	require.True(t, lib.Replace(model.TierHard, []string{"only one"}))
	sel := newTestSelector(lib)
	p := sel.Select(model.TierHard, "only one")
	assert.Equal(t, "only one", p.Text)
}

func TestSelectIdenticalEntries(t *testing.T) {
	lib := NewLibrary()
	require.True(t, lib.Replace(model.TierMedium, []string{"same", "same"}))
	sel := newTestSelector(lib)
	assert.Equal(t, "same", sel.Select(model.TierMedium, "same").Text)
}

func TestSelectCoversAllOtherPassages(t *testing.T) {
	lib := NewLibrary()
	sel := newTestSelector(lib)
	list := lib.Passages(model.TierEasy)
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[sel.Select(model.TierEasy, list[0].Text).Text] = true
	}
	assert.Len(t, seen, len(list)-1)
	assert.False(t, seen[list[0].Text])
}

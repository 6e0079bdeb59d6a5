// Package passage holds the passage catalog and random selection.
package passage

import (
	"strings"

	"github.com/verte-zerg/speedtype/internal/model"
)

var builtin = map[model.Tier][]string{
	model.TierEasy: {
		"The sun set and the sky turned a soft pink above the calm lake.",
		"Typing well takes practice. Start slow and stay relaxed.",
		"Small steps every day can build strong typing habits.",
	},
	model.TierMedium: {
		"Consistent rhythm and light keystrokes help improve both accuracy and speed over weeks of deliberate effort.",
		"When learning to type faster, focus first on precision; velocity comes naturally as your fingers trust the layout.",
		"Erasing hesitation requires mindful repetition, balanced breaks, and posture that prevents early fatigue.",
	},
	model.TierHard: {
		"Sustained excellence in typing emerges from iterative refinement: calibrated ergonomics, disciplined drills, and reflective analysis of error patterns.",
		"Adaptive neuromuscular coordination accelerates when feedback loops emphasize error attribution, encouraging conscious correction before automation.",
		"Granular metrics variance in interval timing, character cluster latency, and cumulative drift enable targeted micro adjustments for peak proficiency.",
	},
}

// Library is a catalog of passages grouped by tier. Every tier holds at
// least one passage.
type Library struct {
	tiers map[model.Tier][]string
}

// NewLibrary returns a library with the built-in passages.
func NewLibrary() *Library {
	l := &Library{tiers: make(map[model.Tier][]string, len(builtin))}
	for tier, texts := range builtin {
		l.tiers[tier] = append([]string(nil), texts...)
	}
	return l
}

// Passages returns the passages of a tier. Unknown tiers fall back to easy.
func (l *Library) Passages(tier model.Tier) []model.Passage {
	if !tier.Valid() {
		tier = model.TierEasy
	}
	texts := l.tiers[tier]
	out := make([]model.Passage, len(texts))
	for i, text := range texts {
		out[i] = model.Passage{Tier: tier, Text: text}
	}
	return out
}

// Replace swaps the passages of a tier. Blank entries are dropped; if
// nothing remains the tier is left unchanged and false is returned.
func (l *Library) Replace(tier model.Tier, texts []string) bool {
	if !tier.Valid() {
		return false
	}
	kept := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		kept = append(kept, text)
	}
	if len(kept) == 0 {
		return false
	}
	l.tiers[tier] = kept
	return true
}

// Apply replaces every tier present in set.
func (l *Library) Apply(set map[model.Tier][]string) {
	for _, tier := range model.Tiers() {
		if texts, ok := set[tier]; ok {
			l.Replace(tier, texts)
		}
	}
}

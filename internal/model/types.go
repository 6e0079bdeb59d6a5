// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Tier is a difficulty bucket grouping passages of similar complexity.
type Tier string

// Difficulty tiers.
const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers returns all tiers in display order.
func Tiers() []Tier {
	return []Tier{TierEasy, TierMedium, TierHard}
}

// ParseTier maps a tier name to a Tier. Unrecognized names map to easy.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierMedium:
		return TierMedium
	case TierHard:
		return TierHard
	default:
		return TierEasy
	}
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// Label returns the tier name with its first letter capitalized.
func (t Tier) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next returns the tier after t, wrapping around.
func (t Tier) Next() Tier {
	tiers := Tiers()
	for i, tier := range tiers {
		if tier == t {
			return tiers[(i+1)%len(tiers)]
		}
	}
	return TierEasy
}

// Prev returns the tier before t, wrapping around.
func (t Tier) Prev() Tier {
	tiers := Tiers()
	for i, tier := range tiers {
		if tier == t {
			return tiers[(i+len(tiers)-1)%len(tiers)]
		}
	}
	return TierEasy
}

// Passage is a sample text belonging to one tier.
type Passage struct {
	Tier Tier
	Text string
}

// State is the lifecycle state of a test session.
type State int

// Session states. Stopped behaves like Idle but keeps the last result shown.
const (
	StateIdle State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Session is the single active typing test.
type Session struct {
	Tier      Tier
	Passage   Passage
	StartedAt time.Time
	State     State
}

// ScoreResult summarizes a stopped session.
type ScoreResult struct {
	ElapsedSeconds float64
	CorrectWords   int
	WPM            int
	Accuracy       float64
}

// Best holds the best score recorded for a tier.
type Best struct {
	WPM int `json:"wpm"`
}

// BestResults maps each tier to its best score.
type BestResults map[Tier]Best

// DefaultBestResults returns zero scores for every tier.
func DefaultBestResults() BestResults {
	out := BestResults{}
	for _, t := range Tiers() {
		out[t] = Best{}
	}
	return out
}

// WPM returns the best WPM for a tier, 0 when absent.
func (b BestResults) WPM(t Tier) int {
	return b[t].WPM
}

// Metrics is what the metrics surface displays.
type Metrics struct {
	Level          string
	ElapsedSeconds float64
	WPM            int
}

// Controls holds the enabled flag of each control.
type Controls struct {
	Start bool
	Stop  bool
	Retry bool
	Tier  bool
}

// Config defines test settings after merging file, env and flags.
type Config struct {
	Tier         Tier
	PassagesFile string
	Passages     map[Tier][]string
	DBPath       string
	LogPath      string
	Debug        bool
}

package passage

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/speedtype/internal/model"
)

// Selector picks random passages from a library.
type Selector struct {
	lib *Library
	rnd *rand.Rand
}

// NewSelector returns a Selector seeded with the current time.
func NewSelector(lib *Library) *Selector {
	return NewSelectorWithSource(lib, rand.NewSource(time.Now().UnixNano()))
}

// NewSelectorWithSource returns a Selector drawing from src.
func NewSelectorWithSource(lib *Library, src rand.Source) *Selector {
	return &Selector{lib: lib, rnd: rand.New(src)}
}

// Library returns the catalog the selector draws from.
func (s *Selector) Library() *Library {
	return s.lib
}

// Select picks a passage of tier uniformly at random. When the tier has more
// than one passage the result never equals previous.
func (s *Selector) Select(tier model.Tier, previous string) model.Passage {
	list := s.lib.Passages(tier)
	if len(list) == 1 {
		return list[0]
	}
	candidates := make([]model.Passage, 0, len(list))
	for _, p := range list {
		if p.Text != previous {
			candidates = append(candidates, p)
		}
	}
	// Every entry equals previous; nothing else to offer.
	if len(candidates) == 0 {
		return list[s.rnd.Intn(len(list))]
	}
	return candidates[s.rnd.Intn(len(candidates))]
}

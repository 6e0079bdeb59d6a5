package scoring

import "iter"

// Class is the correctness of a single character.
type Class int

// Character classes.
const (
	Pending Class = iota
	Correct
	Incorrect
)

func (c Class) String() string {
	switch c {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "pending"
	}
}

// Char is one classified position. Typed is 0 for pending positions and
// Sample is 0 for positions typed past the end of the sample.
type Char struct {
	Index  int
	Typed  rune
	Sample rune
	Class  Class
}

// Rune returns the character to display for this position.
func (c Char) Rune() rune {
	if c.Sample != 0 {
		return c.Sample
	}
	return c.Typed
}

// Classify marks every typed rune correct or incorrect against sample, then
// yields the untyped remainder of sample as pending.
func Classify(typed, sample string) iter.Seq[Char] {
	typedRunes := []rune(typed)
	sampleRunes := []rune(sample)
	return func(yield func(Char) bool) {
		for i, r := range typedRunes {
			c := Char{Index: i, Typed: r, Class: Incorrect}
			if i < len(sampleRunes) {
				c.Sample = sampleRunes[i]
				if r == sampleRunes[i] {
					c.Class = Correct
				}
			}
			if !yield(c) {
				return
			}
		}
		for i := len(typedRunes); i < len(sampleRunes); i++ {
			if !yield(Char{Index: i, Sample: sampleRunes[i], Class: Pending}) {
				return
			}
		}
	}
}

// Accuracy is the fraction of typed runes that match the sample.
func Accuracy(typed, sample string) float64 {
	total, correct := 0, 0
	for c := range Classify(typed, sample) {
		if c.Class == Pending {
			break
		}
		total++
		if c.Class == Correct {
			correct++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

package reconcile

// Outcome is the result of looking a task text up on one side of a pairing.
type Outcome int

const (
	Unmatched Outcome = iota
	Matched
	Ambiguous
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Ambiguous:
		return "ambiguous"
	default:
		return "unmatched"
	}
}

// Matcher indexes task texts by exact string equality.
type Matcher struct {
	counts map[string]int
}

func NewMatcher(texts []string) Matcher {
	m := Matcher{counts: make(map[string]int, len(texts))}
	for _, t := range texts {
		m.counts[t]++
	}
	return m
}

func (m Matcher) Count(text string) int { return m.counts[text] }

// Match reports whether text occurs exactly once (Matched), more than once
// (Ambiguous) or not at all (Unmatched).
func (m Matcher) Match(text string) Outcome {
	switch n := m.counts[text]; {
	case n == 0:
		return Unmatched
	case n == 1:
		return Matched
	default:
		return Ambiguous
	}
}

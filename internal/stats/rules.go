package stats

import "clanpulse/internal/roster"

// Rule pairs a predicate with the label it assigns. Rules are evaluated in
// order and the first match wins, so overlapping predicates are resolved by
// position rather than by the data.
type Rule struct {
	Status   string
	Priority string
	Matches  func(roster.Member) bool
}

// Verdict is the outcome of evaluating a rule set against one member.
// The zero value means the member was not flagged.
type Verdict struct {
	Flagged  bool
	Status   string
	Priority string
}

// NotFlagged is the verdict for members no rule matched.
var NotFlagged = Verdict{}

// Evaluate returns the verdict of the first matching rule.
func Evaluate(rules []Rule, m roster.Member) Verdict {
	for _, r := range rules {
		if r.Matches(m) {
			return Verdict{Flagged: true, Status: r.Status, Priority: r.Priority}
		}
	}
	return NotFlagged
}

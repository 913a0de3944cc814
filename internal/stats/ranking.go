package stats

import (
	"cmp"
	"slices"
	"strings"
	"sync"

	"clanpulse/internal/roster"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Order is the sort direction of a ranking. The zero value is Descending.
type Order int

const (
	Descending Order = iota
	Ascending
)

// ParseOrder accepts "desc"/"asc"; empty means descending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(s) {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, &InvalidMetricError{Metric: "order:" + s}
}

func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// NoLimit disables truncation in Rank.
const NoLimit = -1

// RankedEntry is a read-only projection of a member at a leaderboard position.
type RankedEntry struct {
	Member roster.Member `json:"member"`
	Value  float64       `json:"value"`
	Rank   int           `json:"rank"` // 1-based
}

// Collators keep internal buffers and are not safe for concurrent use.
var collatorPool = sync.Pool{
	New: func() any {
		return collate.New(language.English, collate.IgnoreCase)
	},
}

// CompareUsernames orders names case-insensitively using English collation,
// falling back to byte order so that distinct names never compare equal.
func CompareUsernames(a, b string) int {
	c := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(c)
	return compareUsernames(c, a, b)
}

func compareUsernames(c *collate.Collator, a, b string) int {
	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// Rank sorts members by accessor and returns the top limit entries.
//
// Ties are broken by username so that repeated calls on the same input always
// produce the same order. The input slice is never reordered. A negative
// limit returns the whole population; a limit larger than the population is
// not an error.
func Rank(members []roster.Member, accessor Accessor, order Order, limit int) []RankedEntry {
	type scored struct {
		member roster.Member
		value  float64
	}

	items := make([]scored, len(members))
	for i, m := range members {
		items[i] = scored{member: m, value: accessor(m)}
	}

	c := collatorPool.Get().(*collate.Collator)
	defer collatorPool.Put(c)

	slices.SortStableFunc(items, func(a, b scored) int {
		var r int
		if order == Ascending {
			r = cmp.Compare(a.value, b.value)
		} else {
			r = cmp.Compare(b.value, a.value)
		}
		if r != 0 {
			return r
		}
		return compareUsernames(c, a.member.Username, b.member.Username)
	})

	n := len(items)
	if limit >= 0 && limit < n {
		n = limit
	}

	ranked := make([]RankedEntry, n)
	for i := 0; i < n; i++ {
		ranked[i] = RankedEntry{
			Member: items[i].member,
			Value:  items[i].value,
			Rank:   i + 1,
		}
	}
	return ranked
}

// RankBy ranks members by a logical metric under the context's period.
func RankBy(members []roster.Member, ctx ComputationContext, metric Metric, order Order, limit int) ([]RankedEntry, Selection, error) {
	sel, err := ctx.Select(metric)
	if err != nil {
		return nil, Selection{}, err
	}
	return Rank(members, sel.Field.Accessor(), order, limit), sel, nil
}

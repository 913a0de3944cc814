package roster

// Member is the canonical, normalized activity record for one clan member.
// Values are never negative; consistency between windows (TotalXP >= XP30d)
// is expected but not enforced.
type Member struct {
	Username string `json:"username"`
	Role     string `json:"role"`

	XP7d    int64 `json:"xp_7d"`
	XP30d   int64 `json:"xp_30d"`
	TotalXP int64 `json:"total_xp"`

	Boss7d    int64 `json:"boss_7d"`
	Boss30d   int64 `json:"boss_30d"`
	TotalBoss int64 `json:"total_boss"`
	// HasBoss30d reports whether the source record carried a usable boss_30d
	// value. Older snapshots omit it entirely.
	HasBoss30d bool `json:"has_boss_30d"`

	Msgs7d    int64 `json:"msgs_7d"`
	Msgs30d   int64 `json:"msgs_30d"`
	MsgsTotal int64 `json:"msgs_total"`

	DaysInClan int64 `json:"days_in_clan"`

	FavoriteBoss        string `json:"favorite_boss,omitempty"`
	FavoriteBossAllTime string `json:"favorite_boss_all_time,omitempty"`
}

// HistoryPoint is one day of clan-wide activity from the snapshot's
// historical series.
type HistoryPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD
	XP       int64  `json:"xp"`
	Messages int64  `json:"msgs"`
}

// HourlyObservation is a message count observed at one hour of the day.
// Day is the weekday (0 = Sunday) when the source provided it, -1 otherwise.
type HourlyObservation struct {
	Day   int   `json:"day"`
	Hour  int   `json:"hour"`
	Value int64 `json:"value"`
}

// AnyBoss30d reports whether at least one member carries the 30-day boss field.
func AnyBoss30d(members []Member) bool {
	for _, m := range members {
		if m.HasBoss30d {
			return true
		}
	}
	return false
}

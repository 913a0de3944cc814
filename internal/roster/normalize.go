package roster

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw record keys as emitted by the snapshot exporter.
const (
	KeyUsername            = "username"
	KeyRole                = "role"
	KeyXP7d                = "xp_7d"
	KeyXP30d               = "xp_30d"
	KeyTotalXP             = "total_xp"
	KeyBoss7d              = "boss_7d"
	KeyBoss30d             = "boss_30d"
	KeyTotalBoss           = "total_boss"
	KeyMsgs7d              = "msgs_7d"
	KeyMsgs30d             = "msgs_30d"
	KeyMsgsTotal           = "msgs_total"
	KeyDaysInClan          = "days_in_clan"
	KeyFavoriteBoss        = "favorite_boss"
	KeyFavoriteBossAllTime = "favorite_boss_all_time"
)

// Normalize converts a loosely-typed record into a Member. It never fails:
// any numeric field that is absent, null, non-numeric, negative or not
// finite becomes 0. Availability of the snapshot wins over strictness.
func Normalize(raw map[string]any) Member {
	m, _ := normalize(raw)
	return m
}

// NormalizeAll normalizes every record and returns how many present fields
// had to be degraded to 0. The count is informational only.
func NormalizeAll(raws []map[string]any) ([]Member, int) {
	members := make([]Member, 0, len(raws))
	degraded := 0
	for _, raw := range raws {
		m, d := normalize(raw)
		members = append(members, m)
		degraded += d
	}
	return members, degraded
}

func normalize(raw map[string]any) (Member, int) {
	degraded := 0
	count := func(key string) (int64, bool) {
		v, present := raw[key]
		if !present {
			return 0, false
		}
		n, ok := ParseCount(v)
		if !ok && v != nil {
			degraded++
		}
		return n, ok
	}
	num := func(key string) int64 {
		n, _ := count(key)
		return n
	}

	m := Member{
		Username:            text(raw[KeyUsername]),
		Role:                text(raw[KeyRole]),
		XP7d:                num(KeyXP7d),
		XP30d:               num(KeyXP30d),
		TotalXP:             num(KeyTotalXP),
		Boss7d:              num(KeyBoss7d),
		TotalBoss:           num(KeyTotalBoss),
		Msgs7d:              num(KeyMsgs7d),
		Msgs30d:             num(KeyMsgs30d),
		MsgsTotal:           num(KeyMsgsTotal),
		DaysInClan:          num(KeyDaysInClan),
		FavoriteBoss:        text(raw[KeyFavoriteBoss]),
		FavoriteBossAllTime: text(raw[KeyFavoriteBossAllTime]),
	}
	m.Boss30d, m.HasBoss30d = count(KeyBoss30d)

	return m, degraded
}

// ParseCount interprets v as a non-negative whole count. The second return
// is false when v was not a usable number; the count is then 0.
func ParseCount(v any) (int64, bool) {
	f, ok := ParseNumber(v)
	if !ok || f < 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseNumber interprets v as a finite float. Strings are trimmed and parsed;
// booleans, maps and slices are not numbers.
func ParseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

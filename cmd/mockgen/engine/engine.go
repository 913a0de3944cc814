package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"clanpulse/internal/roster"
	"clanpulse/internal/stats"
)

// GeneratorConfig controls the synthetic clan.
type GeneratorConfig struct {
	Scenario     string // "mild", "churn" or "drift"
	Distribution string // "uniform" or "weibull"
	Count        int    // members
	Days         int    // history length
	Seed         int64
	Noise        bool // inject malformed fields the loader must degrade
	Now          time.Time
}

// MemberRecord is one exported member row. Boss30d is a pointer so that
// legacy rows can omit the column entirely.
type MemberRecord struct {
	Username     string `json:"username"`
	Role         string `json:"role"`
	XP7d         any    `json:"xp_7d"`
	XP30d        any    `json:"xp_30d"`
	TotalXP      int64  `json:"total_xp"`
	Boss7d       any    `json:"boss_7d"`
	Boss30d      *int64 `json:"boss_30d,omitempty"`
	TotalBoss    int64  `json:"total_boss"`
	Msgs7d       int64  `json:"msgs_7d"`
	Msgs30d      int64  `json:"msgs_30d"`
	MsgsTotal    int64  `json:"msgs_total"`
	DaysInClan   int64  `json:"days_in_clan"`
	FavoriteBoss string `json:"favorite_boss,omitempty"`
}

// Document mirrors the layout written by the clan exporter.
type Document struct {
	GeneratedAt string                `json:"generated_at"`
	Members     []MemberRecord        `json:"allMembers"`
	History     []roster.HistoryPoint `json:"history"`
	Heatmap     []float64             `json:"activity_heatmap"`
	Config      map[string]any        `json:"config"`
}

var (
	namePrefixes = []string{"Iron", "Zulrah", "Bandos", "Rune", "Sara", "Zammy", "Guthix", "Dragon", "Abyss", "Crystal"}
	bosses       = []string{"Vorkath", "Zulrah", "Nex", "Tombs of Amascut", "Chambers of Xeric", "Theatre of Blood"}
	roles        = []string{"Member", "Member", "Member", "Recruit", "Officer"}
)

// Generate builds a deterministic snapshot document for cfg.Seed.
func Generate(cfg GeneratorConfig) Document {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Days <= 0 {
		cfg.Days = 28
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	doc := Document{
		GeneratedAt: cfg.Now.UTC().Format(time.RFC3339),
		Config: map[string]any{
			stats.KeyBossWeight:         3,
			stats.KeyMsgWeight:          6,
			stats.KeyPurgeThresholdDays: 30,
			stats.KeyPurgeMinXP:         0,
			stats.KeyPurgeMinBoss:       0,
			stats.KeyPurgeMinMsgs:       0,
			stats.KeyLeaderboardSize:    10,
			stats.KeyTopBossCards:       5,
		},
	}

	for i := 0; i < cfg.Count; i++ {
		doc.Members = append(doc.Members, generateMember(rng, cfg, i))
	}
	doc.History = generateHistory(rng, cfg)
	doc.Heatmap = generateHeatmap(rng)
	return doc
}

func generateMember(rng *rand.Rand, cfg GeneratorConfig, i int) MemberRecord {
	// Weekly experience in units of 100k.
	var weekly float64
	if cfg.Distribution == "weibull" {
		weekly = weibullSample(rng, 1.2, 8.0)
	} else {
		weekly = rng.Float64() * 20
	}
	tenure := int64(1 + rng.Intn(1500))

	silent := false
	switch cfg.Scenario {
	case "churn":
		silent = rng.Float64() < 0.3
	case "drift":
		// Later recruits are the active ones.
		if i < cfg.Count/2 {
			weekly *= 0.2
		}
	}

	xp7d := int64(weekly * 100_000)
	xp30d := int64(float64(xp7d) * (3.8 + rng.Float64()))
	msgs7d := int64(rng.Intn(200))
	msgs30d := msgs7d*4 + int64(rng.Intn(40))
	boss7d := int64(rng.Intn(60))
	boss30d := boss7d*4 + int64(rng.Intn(20))
	if silent {
		xp7d, xp30d, msgs7d, msgs30d, boss7d, boss30d = 0, 0, 0, 0, 0, 0
	}
	if tenure < 30 {
		xp30d = min(xp30d, xp7d*(tenure/7+1))
	}

	months := tenure/30 + 1
	m := MemberRecord{
		Username:     fmt.Sprintf("%s%d", namePrefixes[i%len(namePrefixes)], i+1),
		Role:         roles[rng.Intn(len(roles))],
		XP7d:         xp7d,
		XP30d:        xp30d,
		TotalXP:      xp30d*months + int64(rng.Intn(5_000_000)),
		Boss7d:       boss7d,
		TotalBoss:    boss30d*months + int64(rng.Intn(100)),
		Msgs7d:       msgs7d,
		Msgs30d:      msgs30d,
		MsgsTotal:    msgs30d*months + int64(rng.Intn(50)),
		DaysInClan:   tenure,
		FavoriteBoss: bosses[rng.Intn(len(bosses))],
	}
	// Rows exported before the monthly boss column existed.
	if cfg.Scenario != "churn" || rng.Float64() > 0.2 {
		m.Boss30d = &boss30d
	}

	if cfg.Noise && i%7 == 3 {
		m.XP30d = "n/a"
		m.Boss7d = -1
	}
	if cfg.Noise && i%11 == 5 {
		m.XP7d = nil
	}
	return m
}

func generateHistory(rng *rand.Rand, cfg GeneratorConfig) []roster.HistoryPoint {
	start := cfg.Now.UTC().AddDate(0, 0, -cfg.Days)
	baseXP := float64(cfg.Count) * 150_000
	baseMsgs := float64(cfg.Count) * 12

	points := make([]roster.HistoryPoint, 0, cfg.Days)
	for d := 0; d < cfg.Days; d++ {
		level := 1.0
		if cfg.Scenario == "drift" && d >= cfg.Days/2 {
			level = 2.0
		}
		noise := 0.9 + rng.Float64()*0.2
		points = append(points, roster.HistoryPoint{
			Date:     start.AddDate(0, 0, d).Format(time.DateOnly),
			XP:       int64(baseXP * level * noise),
			Messages: int64(baseMsgs * level * noise),
		})
	}
	return points
}

// generateHeatmap peaks in the evening (19:00 UTC) and bottoms out at night.
func generateHeatmap(rng *rand.Rand) []float64 {
	heat := make([]float64, stats.HoursPerDay)
	for h := range heat {
		wave := math.Cos(float64(h-19) * 2 * math.Pi / stats.HoursPerDay)
		heat[h] = math.Round(math.Max(0, 20+18*wave+rng.Float64()*3))
	}
	return heat
}

func weibullSample(rng *rand.Rand, k, lambda float64) float64 {
	u := rng.Float64()
	if u == 0 {
		u = 0.0001
	}
	// X = lambda * (-ln(1-u))^(1/k)
	return lambda * math.Pow(-math.Log(1.0-u), 1.0/k)
}

// Save writes doc as indented JSON to path, creating parent folders.
func Save(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

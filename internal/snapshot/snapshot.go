package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"clanpulse/internal/roster"
	"clanpulse/internal/stats"

	"github.com/rs/zerolog/log"
)

// Snapshot is one fully normalized export of clan activity. It is never
// modified after Decode returns.
type Snapshot struct {
	Source      string                     `json:"source,omitempty"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Members     []roster.Member            `json:"members"`
	History     []roster.HistoryPoint      `json:"history"`
	Heatmap     []stats.TemporalBucket     `json:"heatmap"`
	Settings    stats.Settings             `json:"settings"`
	Degraded    int                        `json:"degraded_fields"`
	Warnings    []string                   `json:"warnings,omitempty"`
	Hourly      []roster.HourlyObservation `json:"-"`
}

// document mirrors the exporter's top-level layout. Every block is decoded
// separately so that one malformed block does not discard the others.
type document struct {
	GeneratedAt json.RawMessage `json:"generated_at"`
	Members     json.RawMessage `json:"allMembers"`
	History     json.RawMessage `json:"history"`
	Heatmap     json.RawMessage `json:"activity_heatmap"`
	Config      json.RawMessage `json:"config"`
}

var generatedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

// Load reads and decodes the snapshot document at path.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	snap, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	snap.Source = path

	log.Info().
		Str("path", path).
		Int("members", len(snap.Members)).
		Int("history_days", len(snap.History)).
		Int("degraded_fields", snap.Degraded).
		Msg("Snapshot loaded")
	return snap, nil
}

// Decode parses a snapshot document. Only unreadable input or a top level
// that is not a JSON object is an error; bad blocks degrade to empty values
// and are listed in Warnings.
func Decode(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	snap := &Snapshot{
		Members: []roster.Member{},
		History: []roster.HistoryPoint{},
	}

	snap.GeneratedAt = decodeGeneratedAt(doc.GeneratedAt, snap)

	raws, err := decodeObjects(doc.Members)
	if err != nil {
		snap.warn("allMembers: %v", err)
	}
	snap.Members, snap.Degraded = roster.NormalizeAll(raws)
	if snap.Degraded > 0 {
		log.Debug().Int("count", snap.Degraded).Msg("Degraded unusable member fields to 0")
	}

	snap.History = decodeHistory(doc.History, snap)
	snap.Heatmap, snap.Hourly = decodeHeatmap(doc.Heatmap, snap)

	var cfg map[string]any
	if err := decodeNumbers(doc.Config, &cfg); err != nil {
		snap.warn("config: %v", err)
	}
	snap.Settings = resolveSettings(cfg, snap)

	return snap, nil
}

// resolveSettings drops each out-of-range key in turn so that only that key
// falls back to its default.
func resolveSettings(cfg map[string]any, snap *Snapshot) stats.Settings {
	for range len(cfg) + 1 {
		settings, err := stats.ResolveSettings(cfg)
		if err == nil {
			return settings
		}
		var invalid *stats.InvalidSettingsError
		if !errors.As(err, &invalid) {
			snap.warn("config: %v; using defaults", err)
			break
		}
		if _, ok := cfg[invalid.Key]; !ok {
			snap.warn("config: %v; using defaults", err)
			break
		}
		snap.warn("config: %v; using default for %s", err, invalid.Key)
		delete(cfg, invalid.Key)
	}
	return stats.DefaultSettings()
}

func (s *Snapshot) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.Warnings = append(s.Warnings, msg)
	log.Warn().Msg("Snapshot: " + msg)
}

// Context derives a computation context for the snapshot.
func (s *Snapshot) Context(period stats.Period) stats.ComputationContext {
	return stats.NewComputationContext(s.Members, period, s.Settings)
}

// Trend returns the daily trend series of the snapshot.
func (s *Snapshot) Trend() []stats.TrendPoint {
	return stats.DailyTrend(s.History)
}

func decodeNumbers(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// decodeObjects returns the object elements of a JSON array, skipping
// elements that are not objects.
func decodeObjects(raw json.RawMessage) ([]map[string]any, error) {
	var items []any
	if err := decodeNumbers(raw, &items); err != nil {
		return nil, err
	}
	objects := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			objects = append(objects, obj)
		}
	}
	if skipped := len(items) - len(objects); skipped > 0 {
		return objects, fmt.Errorf("skipped %d non-object entries", skipped)
	}
	return objects, nil
}

func decodeGeneratedAt(raw json.RawMessage, snap *Snapshot) time.Time {
	var s string
	if err := decodeNumbers(raw, &s); err != nil || s == "" {
		return time.Time{}
	}
	for _, layout := range generatedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	snap.warn("generated_at: unrecognized timestamp %q", s)
	return time.Time{}
}

func decodeHistory(raw json.RawMessage, snap *Snapshot) []roster.HistoryPoint {
	rows, err := decodeObjects(raw)
	if err != nil {
		snap.warn("history: %v", err)
	}

	history := make([]roster.HistoryPoint, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		date, _ := row["date"].(string)
		if _, err := stats.ParseDay(date); err != nil {
			dropped++
			continue
		}
		xp, _ := roster.ParseCount(row["xp"])
		msgs, _ := roster.ParseCount(row["msgs"])
		history = append(history, roster.HistoryPoint{Date: date, XP: xp, Messages: msgs})
	}
	if dropped > 0 {
		snap.warn("history: dropped %d rows with unparseable dates", dropped)
	}
	return history
}

// decodeHeatmap accepts both exporter layouts: a positional array of 24
// hourly counts, or a list of {day, hour, value} observations.
func decodeHeatmap(raw json.RawMessage, snap *Snapshot) ([]stats.TemporalBucket, []roster.HourlyObservation) {
	var items []any
	if err := decodeNumbers(raw, &items); err != nil {
		snap.warn("activity_heatmap: %v", err)
		return stats.HourlyHeatmap(nil), nil
	}

	var counts []float64
	var observations []roster.HourlyObservation
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			hour, okHour := roster.ParseNumber(obj["hour"])
			if !okHour {
				continue
			}
			day := -1
			if d, ok := roster.ParseNumber(obj["day"]); ok {
				day = int(d)
			}
			value, _ := roster.ParseCount(obj["value"])
			observations = append(observations, roster.HourlyObservation{Day: day, Hour: int(hour), Value: value})
			continue
		}
		n, _ := roster.ParseNumber(item)
		counts = append(counts, n)
	}

	if len(observations) > 0 {
		return stats.HourlyHeatmap(observations), observations
	}
	return stats.HeatmapFromCounts(counts), nil
}

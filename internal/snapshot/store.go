package snapshot

import (
	"errors"
	"fmt"
	"sync"

	"clanpulse/internal/stats"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrNoSnapshot is returned when the store has nothing loaded yet.
var ErrNoSnapshot = errors.New("no snapshot loaded")

// Store holds the active snapshot and computation context. Both are
// replaced as whole values; a context handed out earlier keeps describing
// the state it was taken from.
type Store struct {
	mu   sync.RWMutex
	path string
	snap *Snapshot
	ctx  stats.ComputationContext

	// loads collapses concurrent reads of the same file into one decode.
	loads singleflight.Group
}

// NewStore creates an empty store reading the given period by default.
func NewStore(period stats.Period) *Store {
	return &Store{
		ctx: stats.ComputationContext{Period: period, Settings: stats.DefaultSettings()},
	}
}

// Load reads path and makes it the active snapshot. The current period is
// kept; settings come from the new snapshot.
func (s *Store) Load(path string) error {
	v, err, shared := s.loads.Do(path, func() (any, error) {
		return Load(path)
	})
	if err != nil {
		return err
	}
	if shared {
		log.Debug().Str("path", path).Msg("Joined in-flight snapshot load")
	}
	snap := v.(*Snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
	s.swapLocked(snap)
	return nil
}

// Reload re-reads the snapshot file last passed to Load.
func (s *Store) Reload() error {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()

	if path == "" {
		return ErrNoSnapshot
	}
	return s.Load(path)
}

// Swap installs snap as the active snapshot.
func (s *Store) Swap(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapLocked(snap)
}

func (s *Store) swapLocked(snap *Snapshot) {
	s.snap = snap
	s.ctx = snap.Context(s.ctx.Period)
	log.Debug().
		Str("period", string(s.ctx.Period)).
		Bool("boss_30d", s.ctx.Boss30dAvailable).
		Msg("Computation context replaced")
}

// Current returns the active snapshot and its context.
func (s *Store) Current() (*Snapshot, stats.ComputationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, s.ctx, ErrNoSnapshot
	}
	return s.snap, s.ctx, nil
}

// SetPeriod switches the reporting window and returns the new context.
func (s *Store) SetPeriod(p stats.Period) (stats.ComputationContext, error) {
	if _, err := stats.ParsePeriod(string(p)); err != nil || p == "" {
		return stats.ComputationContext{}, &stats.InvalidMetricError{Period: string(p)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx = s.ctx.WithPeriod(p)
	log.Info().Str("period", string(p)).Msg("Reporting period changed")
	return s.ctx, nil
}

// Override applies settings overrides on top of the active settings.
func (s *Store) Override(overrides map[string]any) (stats.ComputationContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.ctx.Settings.WithOverrides(overrides)
	if err != nil {
		return stats.ComputationContext{}, fmt.Errorf("override settings: %w", err)
	}
	s.ctx = s.ctx.WithSettings(next)
	return s.ctx, nil
}

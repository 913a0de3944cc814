package stats

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"clanpulse/internal/roster"

	"github.com/go-playground/validator/v10"
)

// Settings keys as they appear in the snapshot's config block.
const (
	KeyBossWeight         = "leaderboard_weight_boss"
	KeyMsgWeight          = "leaderboard_weight_msgs"
	KeyXPDivisor          = "xp_divisor"
	KeyPurgeThresholdDays = "purge_threshold_days"
	KeyPurgeMinXP         = "purge_min_xp"
	KeyPurgeMinBoss       = "purge_min_boss"
	KeyPurgeMinMsgs       = "purge_min_msgs"
	KeyLeaderboardSize    = "leaderboard_size"
	KeyTopBossCards       = "top_boss_cards"
)

// Settings holds the thresholds and weights consumed by the classifier and the
// composite score. A Settings value is never mutated after resolution; use
// WithOverrides to derive a new one.
type Settings struct {
	LeaderboardBossWeight float64 `json:"leaderboard_weight_boss" validate:"gte=0"`
	LeaderboardMsgWeight  float64 `json:"leaderboard_weight_msgs" validate:"gte=0"`
	XPDivisor             float64 `json:"xp_divisor" validate:"gt=0"`

	PurgeThresholdDays int64 `json:"purge_threshold_days" validate:"gte=0"`
	PurgeMinXP         int64 `json:"purge_min_xp" validate:"gte=0"`
	PurgeMinBoss       int64 `json:"purge_min_boss" validate:"gte=0"`
	PurgeMinMsgs       int64 `json:"purge_min_msgs" validate:"gte=0"`

	LeaderboardSize int `json:"leaderboard_size" validate:"gte=1"`
	TopBossCards    int `json:"top_boss_cards" validate:"gte=1"`
}

// DefaultSettings returns the built-in defaults used for every absent key.
func DefaultSettings() Settings {
	return Settings{
		LeaderboardBossWeight: 3,
		LeaderboardMsgWeight:  6,
		XPDivisor:             100000,
		PurgeThresholdDays:    30,
		PurgeMinXP:            0,
		PurgeMinBoss:          0,
		PurgeMinMsgs:          0,
		LeaderboardSize:       10,
		TopBossCards:          5,
	}
}

// ErrInvalidSettings is matched by every InvalidSettingsError.
var ErrInvalidSettings = errors.New("invalid settings")

// InvalidSettingsError reports a configured value that is numeric but
// outside the range the engine can work with.
type InvalidSettingsError struct {
	Key   string
	Rule  string
	Value any
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("setting %s=%v violates %s", e.Key, e.Value, e.Rule)
}

func (e *InvalidSettingsError) Is(target error) bool {
	return target == ErrInvalidSettings
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// report json key names so errors match the config block
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})
		validate = v
	})
	return validate
}

// Validate checks every field against its allowed range.
func (s Settings) Validate() error {
	return validateStruct(s)
}

func validateStruct(v any) error {
	err := settingsValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		return &InvalidSettingsError{Key: fe.Field(), Rule: rule, Value: fe.Value()}
	}
	return fmt.Errorf("validate settings: %w", err)
}

// ResolveSettings builds Settings from a flat key/value block. Keys that are
// absent, null or non-numeric fall back to their default; numeric values
// that are out of range fail with an InvalidSettingsError.
func ResolveSettings(raw map[string]any) (Settings, error) {
	s := DefaultSettings()

	float := func(key string, dst *float64) {
		if f, ok := roster.ParseNumber(raw[key]); ok {
			*dst = f
		}
	}
	whole := func(key string, dst *int64) {
		if f, ok := roster.ParseNumber(raw[key]); ok {
			*dst = int64(f)
		}
	}
	small := func(key string, dst *int) {
		if f, ok := roster.ParseNumber(raw[key]); ok {
			*dst = int(f)
		}
	}

	float(KeyBossWeight, &s.LeaderboardBossWeight)
	float(KeyMsgWeight, &s.LeaderboardMsgWeight)
	float(KeyXPDivisor, &s.XPDivisor)
	whole(KeyPurgeThresholdDays, &s.PurgeThresholdDays)
	whole(KeyPurgeMinXP, &s.PurgeMinXP)
	whole(KeyPurgeMinBoss, &s.PurgeMinBoss)
	whole(KeyPurgeMinMsgs, &s.PurgeMinMsgs)
	small(KeyLeaderboardSize, &s.LeaderboardSize)
	small(KeyTopBossCards, &s.TopBossCards)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WithOverrides returns a copy of s with the given keys replaced, validated
// the same way as ResolveSettings. s itself is left untouched.
func (s Settings) WithOverrides(overrides map[string]any) (Settings, error) {
	merged := s.asMap()
	for k, v := range overrides {
		merged[k] = v
	}
	return ResolveSettings(merged)
}

// Weights extracts the composite score weights.
func (s Settings) Weights() Weights {
	return Weights{
		Messages:  s.LeaderboardMsgWeight,
		Boss:      s.LeaderboardBossWeight,
		XPDivisor: s.XPDivisor,
	}
}

func (s Settings) asMap() map[string]any {
	return map[string]any{
		KeyBossWeight:         s.LeaderboardBossWeight,
		KeyMsgWeight:          s.LeaderboardMsgWeight,
		KeyXPDivisor:          s.XPDivisor,
		KeyPurgeThresholdDays: s.PurgeThresholdDays,
		KeyPurgeMinXP:         s.PurgeMinXP,
		KeyPurgeMinBoss:       s.PurgeMinBoss,
		KeyPurgeMinMsgs:       s.PurgeMinMsgs,
		KeyLeaderboardSize:    s.LeaderboardSize,
		KeyTopBossCards:       s.TopBossCards,
	}
}

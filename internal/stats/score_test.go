package stats

import (
	"errors"
	"testing"

	"clanpulse/internal/roster"
)

func TestScore_WeightedSum(t *testing.T) {
	w := Weights{Messages: 6, Boss: 3, XPDivisor: 100000}
	m := roster.Member{Username: "ann", Msgs7d: 50, Boss7d: 10, XP7d: 1000000}

	if got := Score(m, w); got != 340 {
		t.Errorf("Score() = %v, want 340", got)
	}
	if got := DisplayScore(Score(m, w)); got != 340 {
		t.Errorf("DisplayScore() = %v, want 340", got)
	}
}

func TestScore_DefaultWeights(t *testing.T) {
	w := DefaultSettings().Weights()
	if w.Messages != 6 || w.Boss != 3 || w.XPDivisor != 100000 {
		t.Errorf("Unexpected default weights: %+v", w)
	}
}

func TestScore_MonotonicInEachInput(t *testing.T) {
	w := DefaultSettings().Weights()
	base := roster.Member{Msgs7d: 10, Boss7d: 10, XP7d: 10}
	bumps := []func(*roster.Member){
		func(m *roster.Member) { m.Msgs7d++ },
		func(m *roster.Member) { m.Boss7d++ },
		func(m *roster.Member) { m.XP7d += 1000 },
	}

	for i, bump := range bumps {
		next := base
		bump(&next)
		if Score(next, w) < Score(base, w) {
			t.Errorf("bump %d decreased the score", i)
		}
	}
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		weights Weights
		wantErr bool
	}{
		{"Valid", Weights{Messages: 6, Boss: 3, XPDivisor: 100000}, false},
		{"ZeroWeights", Weights{XPDivisor: 1}, false},
		{"NegativeMessages", Weights{Messages: -1, Boss: 3, XPDivisor: 1}, true},
		{"NegativeBoss", Weights{Messages: 1, Boss: -3, XPDivisor: 1}, true},
		{"ZeroDivisor", Weights{Messages: 1, Boss: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("Expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestLeaderboard_RanksOnUnroundedScore(t *testing.T) {
	members := []roster.Member{
		{Username: "aa", Msgs7d: 1, XP7d: 20000}, // 6.2
		{Username: "zz", Msgs7d: 1, XP7d: 40000}, // 6.4
	}
	ctx := NewComputationContext(members, Period7d, DefaultSettings())

	board, err := Leaderboard(members, ctx, NoLimit)
	if err != nil {
		t.Fatalf("Leaderboard() unexpected error: %v", err)
	}
	if board[0].Member.Username != "zz" {
		t.Errorf("Expected zz first, got %s", board[0].Member.Username)
	}
	if DisplayScore(board[0].Value) != DisplayScore(board[1].Value) {
		t.Errorf("Expected equal display scores, got %v and %v", board[0].Value, board[1].Value)
	}
}

func TestLeaderboard_ThirtyDayScorer(t *testing.T) {
	members := []roster.Member{
		{Username: "m", Msgs7d: 1, Msgs30d: 10, Boss7d: 1, Boss30d: 4, HasBoss30d: true, XP7d: 0, XP30d: 200000},
	}
	ctx := NewComputationContext(members, Period30d, DefaultSettings())

	board, err := Leaderboard(members, ctx, 1)
	if err != nil {
		t.Fatalf("Leaderboard() unexpected error: %v", err)
	}
	// 10*6 + 4*3 + 200000/100000
	if board[0].Value != 74 {
		t.Errorf("Expected 30d score 74, got %v", board[0].Value)
	}
}

func TestLeaderboard_InvalidWeights(t *testing.T) {
	s := DefaultSettings()
	s.XPDivisor = 0
	ctx := NewComputationContext(nil, Period7d, s)

	if _, err := Leaderboard(nil, ctx, 10); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("Expected ErrInvalidSettings, got %v", err)
	}
}

package difficulty

import (
	"testing"

	"github.com/abhisek/mathmood/internal/emotion"
)

func rec(correct bool, l emotion.Label) PerformanceRecord {
	return PerformanceRecord{Correct: correct, Emotion: l}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		window []PerformanceRecord
		want   Decision
	}{
		{"nil window", nil, Maintain},
		{"empty window", []PerformanceRecord{}, Maintain},
		{
			"three correct no confusion",
			[]PerformanceRecord{
				rec(true, emotion.Confident), rec(true, emotion.Neutral), rec(true, emotion.Happy),
				rec(false, emotion.Neutral), rec(false, emotion.Neutral),
			},
			Increase,
		},
		{
			"two confused",
			[]PerformanceRecord{
				rec(true, emotion.Confused), rec(true, emotion.Confused), rec(true, emotion.Neutral),
				rec(false, emotion.Neutral), rec(false, emotion.Neutral),
			},
			Decrease,
		},
		{
			"one correct",
			[]PerformanceRecord{
				rec(true, emotion.Neutral), rec(false, emotion.Neutral), rec(false, emotion.Neutral),
			},
			Decrease,
		},
		{
			"two correct one confused",
			[]PerformanceRecord{
				rec(true, emotion.Neutral), rec(true, emotion.Neutral), rec(false, emotion.Confused),
			},
			Maintain,
		},
		{
			"three correct with one confused",
			[]PerformanceRecord{
				rec(true, emotion.Neutral), rec(true, emotion.Confused), rec(true, emotion.Neutral),
			},
			Maintain,
		},
		{
			"five records four correct none confused",
			[]PerformanceRecord{
				rec(true, emotion.Happy), rec(true, emotion.Confident), rec(false, emotion.Neutral),
				rec(true, emotion.Neutral), rec(true, emotion.Curious),
			},
			Increase,
		},
		{
			"five records one correct one confused",
			[]PerformanceRecord{
				rec(false, emotion.Neutral), rec(true, emotion.Neutral), rec(false, emotion.Confused),
				rec(false, emotion.Frustrated), rec(false, emotion.Neutral),
			},
			Decrease,
		},
		{
			"five records two correct one confused",
			[]PerformanceRecord{
				rec(true, emotion.Neutral), rec(false, emotion.Confused), rec(true, emotion.Happy),
				rec(false, emotion.Neutral), rec(false, emotion.Neutral),
			},
			Maintain,
		},
		{"single correct", []PerformanceRecord{rec(true, emotion.Confident)}, Decrease},
		{
			"frustrated is not confused",
			[]PerformanceRecord{
				rec(true, emotion.Frustrated), rec(true, emotion.Frustrated), rec(true, emotion.Frustrated),
			},
			Increase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.window); got != tt.want {
				t.Errorf("Decide() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecide_OrderIndependent(t *testing.T) {
	window := []PerformanceRecord{
		rec(true, emotion.Neutral), rec(false, emotion.Confused), rec(true, emotion.Neutral), rec(true, emotion.Happy),
	}
	want := Decide(window)
	reversed := make([]PerformanceRecord, len(window))
	for i, r := range window {
		reversed[len(window)-1-i] = r
	}
	if got := Decide(reversed); got != want {
		t.Fatalf("reversed window = %q, want %q", got, want)
	}
}

func TestDecide_MonotonicUnderConfusedFailures(t *testing.T) {
	windows := [][]PerformanceRecord{
		{rec(false, emotion.Neutral)},
		{rec(true, emotion.Confused), rec(true, emotion.Confused)},
		{rec(true, emotion.Neutral), rec(false, emotion.Neutral), rec(false, emotion.Confused)},
	}
	for _, w := range windows {
		if Decide(w) != Decrease {
			t.Fatalf("precondition: %v should decrease", w)
		}
		grown := append(append([]PerformanceRecord{}, w...), rec(false, emotion.Confused))
		if got := Decide(grown); got != Decrease {
			t.Errorf("adding a confused failure to %v gave %q", w, got)
		}
	}
}

func TestLevel_Apply(t *testing.T) {
	tests := []struct {
		from Level
		d    Decision
		want Level
	}{
		{5, Increase, 6},
		{5, Decrease, 4},
		{5, Maintain, 5},
		{10, Increase, 10},
		{1, Decrease, 1},
		{0, Maintain, 1},
		{42, Decrease, 10},
	}
	for _, tt := range tests {
		if got := tt.from.Apply(tt.d); got != tt.want {
			t.Errorf("Level(%d).Apply(%s) = %d, want %d", tt.from, tt.d, got, tt.want)
		}
	}
}

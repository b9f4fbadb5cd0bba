package scoring

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scoreboard/internal/domain"
)

func TestCalculateWeightedTotal(t *testing.T) {
	res := Calculate([]int{1, 2, 3, 4, 5})
	if res.Total != 55 {
		t.Fatalf("expected total 55, got %d", res.Total)
	}
	if diff := cmp.Diff([5]int{1, 2, 3, 4, 5}, res.Trials); diff != "" {
		t.Fatalf("unexpected trials (-want +got):\n%s", diff)
	}
}

func TestCalculateClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		in     []int
		trials [5]int
		total  int
	}{
		{"negative first", []int{-3, 0, 0, 0, 0}, [5]int{0, 0, 0, 0, 0}, 0},
		{"above max", []int{9, 9, 9, 9, 9}, [5]int{5, 5, 5, 5, 5}, 75},
		{"mixed", []int{-1, 6, 2, 0, 5}, [5]int{0, 5, 2, 0, 5}, 41},
		{"short input", []int{5}, [5]int{5, 0, 0, 0, 0}, 5},
		{"nil input", nil, [5]int{}, 0},
		{"extra values ignored", []int{1, 1, 1, 1, 1, 5, 5}, [5]int{1, 1, 1, 1, 1}, 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Calculate(tt.in)
			if res.Trials != tt.trials {
				t.Fatalf("expected trials %v, got %v", tt.trials, res.Trials)
			}
			if res.Total != tt.total {
				t.Fatalf("expected total %d, got %d", tt.total, res.Total)
			}
		})
	}
}

func TestParseTrial(t *testing.T) {
	cases := map[string]int{
		"3":     3,
		" 4 ":   4,
		"":      0,
		"abc":   0,
		"2.5":   2,
		"4.5":   4,
		"3abc":  3,
		"+2":    2,
		"-2":    0,
		"-":     0,
		"12":    5,
		"1e400": 1,
	}
	for in, want := range cases {
		if got := ParseTrial(in); got != want {
			t.Errorf("ParseTrial(%q) = %d, want %d", in, got, want)
		}
	}

	huge := "99999999999999999999999999"
	if got := ParseTrial(huge); got != domain.MaxTrial {
		t.Errorf("ParseTrial(%q) = %d, want %d", huge, got, domain.MaxTrial)
	}
}

func TestTrialFromNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{4.5, 4},
		{4.999, 4},
		{-0.5, 0},
		{-3, 0},
		{7, 5},
		{math.Inf(1), 5},
		{math.Inf(-1), 0},
		{math.NaN(), 0},
	}
	for _, tt := range cases {
		if got := TrialFromNumber(tt.in); got != tt.want {
			t.Errorf("TrialFromNumber(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCalculateMatchesScoreRecalculate(t *testing.T) {
	res := Calculate([]int{2, 0, 5, 1, 3})
	s := domain.Score{Trials: res.Trials}
	s.Recalculate()
	if s.TotalScore != res.Total {
		t.Fatalf("expected recalculated total %d, got %d", res.Total, s.TotalScore)
	}
}

// Package scoring turns raw trial inputs into a weighted score.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"scoreboard/internal/domain"
)

type Result struct {
	Trials [domain.TrialCount]int
	Total  int
}

// ClampTrial bounds a trial value to [MinTrial, MaxTrial].
func ClampTrial(v int) int {
	return max(domain.MinTrial, min(domain.MaxTrial, v))
}

// ParseTrial reads a form value by its leading integer, so "4.5" is 4 and
// "3abc" is 3. Input without leading digits counts as 0.
func ParseTrial(s string) int {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	if neg {
		return domain.MinTrial
	}

	v, err := strconv.Atoi(s[:end])
	if err != nil {
		// only overflow is possible on a run of digits
		return domain.MaxTrial
	}
	return ClampTrial(v)
}

// TrialFromNumber truncates a numeric value toward zero and clamps it.
// Infinities clamp to the nearest bound and NaN counts as 0.
func TrialFromNumber(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	return int(math.Max(math.Min(f, domain.MaxTrial), domain.MinTrial))
}

func WeightedTrial(value, index int) int {
	return value * (index + 1)
}

// Calculate sanitizes trials and computes their weighted total.
// Missing positions are 0 and values past the fifth are ignored.
func Calculate(trials []int) Result {
	var res Result
	for i := 0; i < domain.TrialCount && i < len(trials); i++ {
		res.Trials[i] = ClampTrial(trials[i])
	}
	for i, v := range res.Trials {
		res.Total += WeightedTrial(v, i)
	}
	return res
}

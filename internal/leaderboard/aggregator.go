package leaderboard

import (
	"cmp"
	"slices"

	"scoreboard/internal/domain"
)

// Aggregate sums totals per player and ranks them by summed total, highest
// first. Players are keyed by id so two players sharing a display name stay
// separate. Equal totals keep the order in which the players first appear in
// records and still receive consecutive ranks.
func Aggregate(records []domain.ScoreRecord) []domain.LeaderboardEntry {
	index := make(map[int64]int, len(records))
	entries := make([]domain.LeaderboardEntry, 0, len(records))

	for _, r := range records {
		if i, ok := index[r.PlayerID]; ok {
			entries[i].TotalScore += r.TotalScore
			continue
		}
		index[r.PlayerID] = len(entries)
		entries = append(entries, domain.LeaderboardEntry{
			PlayerID:   r.PlayerID,
			PlayerName: r.PlayerName,
			TotalScore: r.TotalScore,
		})
	}

	slices.SortStableFunc(entries, func(a, b domain.LeaderboardEntry) int {
		return cmp.Compare(b.TotalScore, a.TotalScore)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

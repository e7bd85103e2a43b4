package stats

import (
	"sort"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// TopEntries returns the n best-ranked entries. When the current user falls
// outside the top n, their row is appended so the learner always sees it.
func TopEntries(entries []model.LeaderboardEntry, n int) []model.LeaderboardEntry {
	if len(entries) == 0 {
		return nil
	}
	items := append([]model.LeaderboardEntry(nil), entries...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Rank < items[j].Rank
	})
	if n <= 0 || n >= len(items) {
		return items
	}
	out := items[:n:n]
	for _, e := range items[n:] {
		if e.IsCurrentUser {
			out = append(out, e)
			break
		}
	}
	return out
}

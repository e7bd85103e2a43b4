// Package community simulates the leaderboard, achievements and learner profile.
package community

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/M94KO/MrEdesPlayground/internal/model"
)

// CurrentUserID identifies the learner on every board.
const CurrentUserID = "current-user"

// weeklyCap bounds the simulated weekly XP of the learner.
const weeklyCap = 200

const maxPeerStreak = 15

type peer struct {
	name     string
	avatar   string
	xp       int
	weeklyXP int
	lessons  int
}

var peers = []peer{
	{name: "Adebayo", avatar: "🧑", xp: 2450, weeklyXP: 180, lessons: 25},
	{name: "Funke", avatar: "👩", xp: 2380, weeklyXP: 165, lessons: 23},
	{name: "Oluwaseun", avatar: "👨", xp: 2200, weeklyXP: 145, lessons: 21},
	{name: "Kemi", avatar: "👩", xp: 2150, weeklyXP: 140, lessons: 20},
	{name: "Tunde", avatar: "🧑", xp: 2000, weeklyXP: 120, lessons: 18},
	{name: "Yemi", avatar: "👨", xp: 1950, weeklyXP: 115, lessons: 17},
	{name: "Bola", avatar: "👩", xp: 1900, weeklyXP: 110, lessons: 16},
	{name: "Seun", avatar: "🧑", xp: 1850, weeklyXP: 105, lessons: 15},
	{name: "Folake", avatar: "👩", xp: 1800, weeklyXP: 100, lessons: 14},
	{name: "Dayo", avatar: "👨", xp: 1750, weeklyXP: 95, lessons: 13},
}

// RecomputeLeaderboard ranks the learner against the simulated peers.
// The weekly board is an independent copy ranked by weekly XP. On equal
// scores the learner is listed first.
func RecomputeLeaderboard(p model.UserProgress, profile model.Profile, rnd *rand.Rand) (leaderboard, weekly []model.LeaderboardEntry) {
	entries := make([]model.LeaderboardEntry, 0, len(peers)+1)
	entries = append(entries, model.LeaderboardEntry{
		ID:            CurrentUserID,
		Name:          profile.Name,
		XP:            p.XP,
		Avatar:        profile.Avatar,
		Streak:        p.Streak,
		IsCurrentUser: true,
		WeeklyXP:      min(p.XP, weeklyCap),
		TotalLessons:  len(p.CompletedLessons),
	})
	for i, u := range peers {
		entries = append(entries, model.LeaderboardEntry{
			ID:           peerID(i),
			Name:         u.name,
			XP:           u.xp,
			Avatar:       u.avatar,
			Streak:       rnd.Intn(maxPeerStreak) + 1,
			WeeklyXP:     u.weeklyXP,
			TotalLessons: u.lessons,
		})
	}

	leaderboard = rank(entries, func(e model.LeaderboardEntry) int { return e.XP })
	weekly = rank(entries, func(e model.LeaderboardEntry) int { return e.WeeklyXP })
	return leaderboard, weekly
}

func peerID(i int) string {
	return "user-" + strconv.Itoa(i+2)
}

func rank(entries []model.LeaderboardEntry, score func(model.LeaderboardEntry) int) []model.LeaderboardEntry {
	out := make([]model.LeaderboardEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return score(out[i]) > score(out[j])
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func findCurrent(entries []model.LeaderboardEntry) (model.LeaderboardEntry, bool) {
	for _, e := range entries {
		if e.IsCurrentUser {
			return e, true
		}
	}
	return model.LeaderboardEntry{}, false
}

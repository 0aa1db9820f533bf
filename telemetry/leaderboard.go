package telemetry

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/pthm-cable/rtscore/components"
)

// LeaderboardEntry ranks a single unit's contribution to a match.
type LeaderboardEntry struct {
	EntityID         components.EntityId
	FactionID        components.FactionId
	Score            float64
	Kills            int
	DamageDealt      int64
	SurvivalTicks    uint64
	UnitsProduced    int
	ResourceGathered int64
}

// Leaderboard keeps the top performers of a match, ranked by a
// composite score. Unlike the evolutionary archive it replaces, there
// is no sampling step: a match is a single deterministic run and its
// leaderboard is purely descriptive, produced once at the end (or
// periodically, for a live scoreboard) and never fed back into the
// simulation.
type Leaderboard struct {
	entries []LeaderboardEntry
	maxSize int
}

// NewLeaderboard creates a leaderboard holding at most maxSize entries.
func NewLeaderboard(maxSize int) *Leaderboard {
	if maxSize < 1 {
		maxSize = 10
	}
	return &Leaderboard{
		entries: make([]LeaderboardEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// score weighs kills and damage highest, production and gathering as
// secondary contributions, and rewards surviving longer.
func calculateScore(e LeaderboardEntry) float64 {
	score := float64(e.Kills)*100 + float64(e.DamageDealt)*0.5
	score += float64(e.UnitsProduced) * 10
	score += float64(e.ResourceGathered) * 0.01
	score += float64(e.SurvivalTicks) * 0.001
	return score
}

// Consider inserts or updates a unit's entry, keeping the leaderboard
// sorted descending by score and trimmed to maxSize.
func (l *Leaderboard) Consider(e LeaderboardEntry) {
	e.Score = calculateScore(e)

	for i := range l.entries {
		if l.entries[i].EntityID == e.EntityID {
			l.entries[i] = e
			l.resort()
			return
		}
	}

	idx := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].Score < e.Score
	})

	l.entries = append(l.entries, LeaderboardEntry{})
	copy(l.entries[idx+1:], l.entries[idx:])
	l.entries[idx] = e

	if len(l.entries) > l.maxSize {
		l.entries = l.entries[:l.maxSize]
	}
}

func (l *Leaderboard) resort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].Score > l.entries[j].Score
	})
	if len(l.entries) > l.maxSize {
		l.entries = l.entries[:l.maxSize]
	}
}

// Top returns the current ranking, best first.
func (l *Leaderboard) Top() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Size returns the number of entries currently tracked.
func (l *Leaderboard) Size() int {
	return len(l.entries)
}

type leaderboardEntryJSON struct {
	EntityID         uint64  `json:"entity_id"`
	FactionID        uint32  `json:"faction_id"`
	Score            float64 `json:"score"`
	Kills            int     `json:"kills"`
	DamageDealt      int64   `json:"damage_dealt"`
	SurvivalTicks    uint64  `json:"survival_ticks"`
	UnitsProduced    int     `json:"units_produced"`
	ResourceGathered int64   `json:"resource_gathered"`
}

// MarshalJSON renders the leaderboard as a flat, ordered array for
// export alongside a match's other telemetry artifacts.
func (l *Leaderboard) MarshalJSON() ([]byte, error) {
	out := make([]leaderboardEntryJSON, len(l.entries))
	for i, e := range l.entries {
		out[i] = leaderboardEntryJSON{
			EntityID:         uint64(e.EntityID),
			FactionID:        uint32(e.FactionID),
			Score:            e.Score,
			Kills:            e.Kills,
			DamageDealt:      e.DamageDealt,
			SurvivalTicks:    e.SurvivalTicks,
			UnitsProduced:    e.UnitsProduced,
			ResourceGathered: e.ResourceGathered,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// LoadLeaderboardFromFile reads a previously written leaderboard JSON
// file, for host tooling that wants to inspect or compare match
// results after the fact.
func LoadLeaderboardFromFile(path string) ([]LeaderboardEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw []leaderboardEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	out := make([]LeaderboardEntry, len(raw))
	for i, r := range raw {
		out[i] = LeaderboardEntry{
			EntityID:         components.EntityId(r.EntityID),
			FactionID:        components.FactionId(r.FactionID),
			Score:            r.Score,
			Kills:            r.Kills,
			DamageDealt:      r.DamageDealt,
			SurvivalTicks:    r.SurvivalTicks,
			UnitsProduced:    r.UnitsProduced,
			ResourceGathered: r.ResourceGathered,
		}
	}
	return out, nil
}

package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/rtscore/components"
)

// SnapshotVersion is incremented when the format changes. This is a
// human-readable export for debugging and spectating, distinct from
// the deterministic binary state snapshot a replay host uses to
// resume a match (see the simulation package's serialization).
const SnapshotVersion = 1

// Snapshot holds a human-readable view of match state at a point in time.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	WorldWidth  uint32 `json:"world_width"`
	WorldHeight uint32 `json:"world_height"`

	Tick uint64 `json:"tick"`

	Entities []EntitySummary         `json:"entities"`
	Factions []FactionEconomySummary `json:"factions"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// EntitySummary holds one entity's display state, with fixed-point
// values rendered as plain floats via fixed.Fixed.ToFloat64.
type EntitySummary struct {
	ID      uint64 `json:"id"`
	Faction uint32 `json:"faction"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	HealthCurrent int32 `json:"health_current"`
	HealthMax     int32 `json:"health_max"`

	IsBuilding bool `json:"is_building,omitempty"`

	Lifetime *LifetimeSummary `json:"lifetime,omitempty"`
}

// FactionEconomySummary holds one faction's aggregate economic state.
type FactionEconomySummary struct {
	Faction         uint32 `json:"faction"`
	StoredResources int32  `json:"stored_resources"`
	UnitCount       int    `json:"unit_count"`
	BuildingCount   int    `json:"building_count"`
}

// LifetimeSummary is the JSON-serializable form of UnitLifetimeStats.
type LifetimeSummary struct {
	BirthTick        uint64 `json:"birth_tick"`
	SurvivalTicks    uint64 `json:"survival_ticks"`
	ShotsFired       int    `json:"shots_fired"`
	HitsLanded       int    `json:"hits_landed"`
	Kills            int    `json:"kills"`
	DamageDone       int64  `json:"damage_done"`
	DamageTaken      int64  `json:"damage_taken"`
	ResourceGathered int64  `json:"resource_gathered"`
}

// ToSummary converts UnitLifetimeStats to its JSON form, as observed at
// currentTick (used to compute SurvivalTicks for still-living units).
func (s *UnitLifetimeStats) ToSummary(currentTick uint64) *LifetimeSummary {
	if s == nil {
		return nil
	}
	return &LifetimeSummary{
		BirthTick:        s.BirthTick,
		SurvivalTicks:    s.SurvivalTicks(currentTick),
		ShotsFired:       s.ShotsFired,
		HitsLanded:       s.HitsLanded,
		Kills:            s.Kills,
		DamageDone:       s.DamageDone,
		DamageTaken:      s.DamageTaken,
		ResourceGathered: s.ResourceGathered,
	}
}

// EntityIDFromSummary parses the original EntityId back out of a summary.
func EntityIDFromSummary(e EntitySummary) components.EntityId {
	return components.EntityId(e.ID)
}

// SaveSnapshot writes a snapshot to disk and returns the path it wrote to.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

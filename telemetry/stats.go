package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a tick window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end.
	UnitsAlive     int `csv:"units_alive"`
	BuildingsAlive int `csv:"buildings_alive"`
	ActiveFactions int `csv:"active_factions"`

	// Events during the window.
	CommandsIssued int   `csv:"commands_issued"`
	DamageDealt    int64 `csv:"damage_dealt"`
	Kills          int   `csv:"kills"`
	UnitsLost      int   `csv:"units_lost"`
	UnitsProduced  int   `csv:"units_produced"`
	BuildingsBuilt int   `csv:"buildings_built"`

	// Economy.
	ResourceGathered  int64 `csv:"resource_gathered"`
	ResourceDeposited int64 `csv:"resource_deposited"`

	// Per-faction stored-resource distribution, used to gauge how evenly
	// matched the economies are.
	FeedstockMean float64 `csv:"feedstock_mean"`
	FeedstockStd  float64 `csv:"feedstock_std"`
	FeedstockP10  float64 `csv:"feedstock_p10"`
	FeedstockP50  float64 `csv:"feedstock_p50"`
	FeedstockP90  float64 `csv:"feedstock_p90"`
}

// windowInputs bundles everything computeWindowStats needs; Collector.Flush
// builds one of these from its running counters plus the host-supplied
// live counts.
type windowInputs struct {
	WindowStartTick   uint64
	WindowEndTick     uint64
	CommandsIssued    int
	DamageDealt       int64
	Kills             int
	UnitsLost         int
	UnitsProduced     int
	BuildingsBuilt    int
	ResourceGathered  int64
	ResourceDeposited int64
	UnitsAlive        int
	BuildingsAlive    int
	ActiveFactions    int
	FeedstockAmounts  []float64
}

// TickDuration is the wall-clock duration of a single simulation tick
// for a host running at a fixed simulation rate (e.g. the standard
// 20 ticks/sec lockstep cadence). It only affects SimTimeSec, a display
// convenience; it has no bearing on determinism.
const TickDuration = 1.0 / 20.0

func computeWindowStats(in windowInputs) WindowStats {
	mean, std, p10, p50, p90 := computeDispersion(in.FeedstockAmounts)

	return WindowStats{
		WindowStartTick: in.WindowStartTick,
		WindowEndTick:   in.WindowEndTick,
		SimTimeSec:      float64(in.WindowEndTick) * TickDuration,

		UnitsAlive:     in.UnitsAlive,
		BuildingsAlive: in.BuildingsAlive,
		ActiveFactions: in.ActiveFactions,

		CommandsIssued: in.CommandsIssued,
		DamageDealt:    in.DamageDealt,
		Kills:          in.Kills,
		UnitsLost:      in.UnitsLost,
		UnitsProduced:  in.UnitsProduced,
		BuildingsBuilt: in.BuildingsBuilt,

		ResourceGathered:  in.ResourceGathered,
		ResourceDeposited: in.ResourceDeposited,

		FeedstockMean: mean,
		FeedstockStd:  std,
		FeedstockP10:  p10,
		FeedstockP50:  p50,
		FeedstockP90:  p90,
	}
}

// computeDispersion reports the mean, standard deviation, and 10/50/90th
// percentiles of a set of values, using gonum's stat package for the
// underlying statistics rather than hand-rolled accumulation.
func computeDispersion(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)
	if n > 1 {
		std = stat.StdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("units_alive", s.UnitsAlive),
		slog.Int("buildings_alive", s.BuildingsAlive),
		slog.Int("active_factions", s.ActiveFactions),
		slog.Int("commands_issued", s.CommandsIssued),
		slog.Int64("damage_dealt", s.DamageDealt),
		slog.Int("kills", s.Kills),
		slog.Int("units_lost", s.UnitsLost),
		slog.Int("units_produced", s.UnitsProduced),
		slog.Int("buildings_built", s.BuildingsBuilt),
		slog.Int64("resource_gathered", s.ResourceGathered),
		slog.Int64("resource_deposited", s.ResourceDeposited),
		slog.Float64("feedstock_mean", s.FeedstockMean),
		slog.Float64("feedstock_std", s.FeedstockStd),
		slog.Float64("feedstock_p10", s.FeedstockP10),
		slog.Float64("feedstock_p50", s.FeedstockP50),
		slog.Float64("feedstock_p90", s.FeedstockP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"units_alive", s.UnitsAlive,
		"buildings_alive", s.BuildingsAlive,
		"active_factions", s.ActiveFactions,
		"commands_issued", s.CommandsIssued,
		"damage_dealt", s.DamageDealt,
		"kills", s.Kills,
		"units_lost", s.UnitsLost,
		"units_produced", s.UnitsProduced,
		"buildings_built", s.BuildingsBuilt,
		"resource_gathered", s.ResourceGathered,
		"resource_deposited", s.ResourceDeposited,
		"feedstock_mean", s.FeedstockMean,
		"feedstock_std", s.FeedstockStd,
		"feedstock_p10", s.FeedstockP10,
		"feedstock_p50", s.FeedstockP50,
		"feedstock_p90", s.FeedstockP90,
	)
}

package telemetry

import (
	"math"
	"testing"
)

func TestComputeDispersion(t *testing.T) {
	values := []float64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	mean, std, p10, p50, p90 := computeDispersion(values)

	if math.Abs(mean-550) > 0.001 {
		t.Errorf("mean = %v, want 550", mean)
	}
	if std <= 0 {
		t.Error("expected positive standard deviation for dispersed values")
	}
	if !(p10 <= p50 && p50 <= p90) {
		t.Errorf("expected p10 <= p50 <= p90, got %v %v %v", p10, p50, p90)
	}
	if p10 < values[0] || p90 > values[len(values)-1] {
		t.Errorf("expected percentiles within range of input, got p10=%v p90=%v", p10, p90)
	}
}

func TestComputeDispersionEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := computeDispersion(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty input should return all zeros")
	}
}

func TestComputeDispersionSingleValue(t *testing.T) {
	mean, std, p10, p50, p90 := computeDispersion([]float64{42})
	if mean != 42 {
		t.Errorf("mean = %v, want 42", mean)
	}
	if std != 0 {
		t.Errorf("std = %v, want 0 for single value", std)
	}
	if p10 != 42 || p50 != 42 || p90 != 42 {
		t.Errorf("expected all percentiles to equal the single value, got %v %v %v", p10, p50, p90)
	}
}

func TestComputeWindowStats(t *testing.T) {
	in := windowInputs{
		WindowStartTick:   0,
		WindowEndTick:     100,
		CommandsIssued:    12,
		DamageDealt:       450,
		Kills:             3,
		UnitsLost:         2,
		UnitsProduced:     5,
		BuildingsBuilt:    1,
		ResourceGathered:  800,
		ResourceDeposited: 750,
		UnitsAlive:        20,
		BuildingsAlive:    6,
		ActiveFactions:    2,
		FeedstockAmounts:  []float64{500, 700},
	}

	stats := computeWindowStats(in)

	if stats.WindowEndTick != 100 {
		t.Errorf("window end = %v, want 100", stats.WindowEndTick)
	}
	if stats.Kills != 3 {
		t.Errorf("kills = %v, want 3", stats.Kills)
	}
	if stats.SimTimeSec != 100*TickDuration {
		t.Errorf("sim time = %v, want %v", stats.SimTimeSec, 100*TickDuration)
	}
	if math.Abs(stats.FeedstockMean-600) > 0.001 {
		t.Errorf("feedstock mean = %v, want 600", stats.FeedstockMean)
	}
}

package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/rtscore/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstBlood    BookmarkType = "first_blood"
	BookmarkEconomicBoom  BookmarkType = "economic_boom"
	BookmarkComeback      BookmarkType = "comeback"
	BookmarkBaseUnderSiege BookmarkType = "base_under_siege"
	BookmarkStalemate     BookmarkType = "stalemate"
)

// Bookmark represents an automatically triggered match highlight.
type Bookmark struct {
	Type        BookmarkType
	Tick        uint64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a match from the
// window stats a Collector flushes.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	firstBloodSeen bool

	recentUnitsMin     int // minimum UnitsAlive in recent history, for comebacks
	recentUnitsPeak    int // peak UnitsAlive in recent history, for sieges
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size,
// using thresholds from cfg.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stalemate detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkFirstBlood(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkEconomicBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkComeback(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBaseUnderSiege(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkStalemate(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.UnitsAlive < bd.recentUnitsMin || bd.recentUnitsMin == 0 {
		bd.recentUnitsMin = stats.UnitsAlive
	}
	if stats.UnitsAlive > bd.recentUnitsPeak {
		bd.recentUnitsPeak = stats.UnitsAlive
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkFirstBlood(stats WindowStats) *Bookmark {
	if bd.firstBloodSeen || stats.Kills == 0 {
		return nil
	}
	bd.firstBloodSeen = true
	return &Bookmark{
		Type:        BookmarkFirstBlood,
		Tick:        stats.WindowEndTick,
		Description: "First kill of the match",
	}
}

func (bd *BookmarkDetector) checkEconomicBoom(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalGathered int64
	for _, h := range history {
		totalGathered += h.ResourceGathered
	}
	avgGathered := float64(totalGathered) / float64(len(history))
	if avgGathered == 0 {
		return nil
	}

	current := float64(stats.ResourceGathered)
	if current > avgGathered*bd.cfg.EconomicBoomMultiplier && stats.ResourceGathered >= int64(bd.cfg.EconomicBoomMinIncome) {
		return &Bookmark{
			Type:        BookmarkEconomicBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Resource income %.0f is %.1fx average (%.0f)", current, current/avgGathered, avgGathered),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkComeback(stats WindowStats) *Bookmark {
	if bd.recentUnitsMin == 0 || bd.recentUnitsMin > bd.cfg.ComebackMinUnits {
		return nil
	}

	threshold := bd.recentUnitsMin * bd.cfg.ComebackRecoveryFactor
	if stats.UnitsAlive >= threshold && stats.UnitsAlive >= bd.cfg.ComebackMinFinal {
		oldMin := bd.recentUnitsMin
		bd.recentUnitsMin = stats.UnitsAlive

		return &Bookmark{
			Type:        BookmarkComeback,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Army recovered from %d units to %d", oldMin, stats.UnitsAlive),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkBaseUnderSiege(stats WindowStats) *Bookmark {
	if bd.recentUnitsPeak == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.UnitsAlive)/float64(bd.recentUnitsPeak)
	if dropPercent > bd.cfg.SiegeDropPercent && stats.UnitsAlive < bd.recentUnitsPeak-bd.cfg.SiegeMinDrop {
		oldPeak := bd.recentUnitsPeak
		bd.recentUnitsPeak = stats.UnitsAlive

		return &Bookmark{
			Type:        BookmarkBaseUnderSiege,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Army strength dropped %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.UnitsAlive),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStalemate(stats WindowStats) *Bookmark {
	if stats.UnitsAlive < bd.cfg.StalemateMinUnits {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += float64(h.UnitsAlive)
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		diff := float64(h.UnitsAlive) - mean
		variance += diff * diff
	}
	variance /= 4

	cv := 0.0
	if mean > 0 {
		cv = variance / (mean * mean)
	}

	if cv < bd.cfg.StalemateCVThreshold {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == bd.cfg.StalemateWindows {
		return &Bookmark{
			Type:        BookmarkStalemate,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stalemate at %d units over %d+ windows", stats.UnitsAlive, bd.cfg.StalemateWindows),
		}
	}
	return nil
}

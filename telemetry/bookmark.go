package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkFirstPass         BookmarkType = "first_pass"
	BookmarkScoreRecord       BookmarkType = "score_record"
	BookmarkScoreBreakthrough BookmarkType = "score_breakthrough"
	BookmarkFitnessCollapse   BookmarkType = "fitness_collapse"
	BookmarkPlateau           BookmarkType = "plateau"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// plateauGenerations is how many generations without a new best fitness
// trigger a plateau bookmark.
const plateauGenerations = 10

// BookmarkDetector detects notable generations in a run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []GenerationStats
	historySize int
	historyIdx  int
	historyFull bool

	bestScore        int
	bestFitness      float64
	haveBest         bool
	peakMean         float64
	sinceImprovement int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]GenerationStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest generation and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkScore(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkBreakthrough(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPlateau(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	if stats.MeanFitness > bd.peakMean {
		bd.peakMean = stats.MeanFitness
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats GenerationStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []GenerationStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkScore fires when the run first clears an obstacle, and on every new
// score record after that.
func (bd *BookmarkDetector) checkScore(stats GenerationStats) *Bookmark {
	if stats.Score <= bd.bestScore {
		return nil
	}
	old := bd.bestScore
	bd.bestScore = stats.Score

	if old == 0 {
		return &Bookmark{
			Type:        BookmarkFirstPass,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("First obstacle cleared (score %d)", stats.Score),
		}
	}
	return &Bookmark{
		Type:        BookmarkScoreRecord,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Score record %d (previous %d)", stats.Score, old),
	}
}

// checkBreakthrough fires when the score is at least 3 and more than twice
// the rolling average.
func (bd *BookmarkDetector) checkBreakthrough(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Score
	}
	avg := float64(total) / float64(len(history))

	if stats.Score >= 3 && float64(stats.Score) > avg*2 {
		return &Bookmark{
			Type:        BookmarkScoreBreakthrough,
			Generation:  stats.Generation,
			Description: fmt.Sprintf("Score %d is above twice the rolling average (%.1f)", stats.Score, avg),
		}
	}
	return nil
}

// checkCollapse fires when mean fitness drops more than 30% from its peak.
// The peak resets after firing.
func (bd *BookmarkDetector) checkCollapse(stats GenerationStats) *Bookmark {
	if bd.peakMean <= 0 {
		return nil
	}

	drop := 1.0 - stats.MeanFitness/bd.peakMean
	if drop <= 0.30 {
		return nil
	}
	oldPeak := bd.peakMean
	bd.peakMean = stats.MeanFitness

	return &Bookmark{
		Type:        BookmarkFitnessCollapse,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Mean fitness fell %.0f%% from peak %.2f to %.2f", drop*100, oldPeak, stats.MeanFitness),
	}
}

// checkPlateau fires once when the best fitness has not improved for
// plateauGenerations generations.
func (bd *BookmarkDetector) checkPlateau(stats GenerationStats) *Bookmark {
	if !bd.haveBest || stats.BestFitness > bd.bestFitness {
		bd.bestFitness = stats.BestFitness
		bd.haveBest = true
		bd.sinceImprovement = 0
		return nil
	}

	bd.sinceImprovement++
	if bd.sinceImprovement != plateauGenerations {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkPlateau,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("Best fitness %.2f unchanged for %d generations", bd.bestFitness, plateauGenerations),
	}
}

package game

import (
	"context"
	"fmt"
)

// ReelEngine is the reference grid engine shipped with the service. It fills
// the grid with weighted symbol draws and scores horizontal lines, the two
// main diagonals, and overall symbol counts. Studios replace it with their
// own EngineAdapter at wiring time; nothing in the runtime depends on its
// internals.
type ReelEngine struct {
	// MinLineMatch is the minimum run length that scores a horizontal or
	// diagonal combination. Defaults to 3.
	MinLineMatch int

	// MinSymbolCount is the minimum total occurrences of a symbol that
	// scores a symbolCount combination. Defaults to 5.
	MinSymbolCount int

	// JackpotSymbol, when non-empty, turns a full top row of this symbol
	// into a jackpot combination.
	JackpotSymbol string
}

// NewReelEngine creates a reference engine with default thresholds.
func NewReelEngine() *ReelEngine {
	return &ReelEngine{
		MinLineMatch:   3,
		MinSymbolCount: 5,
	}
}

// Play implements EngineAdapter. Deterministic in cfg and the rng sequence.
func (e *ReelEngine) Play(ctx context.Context, cfg *SlotGameConfig, rng func() float64) (*EngineResult, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("engine: grid dimensions %dx%d invalid", cfg.Rows, cfg.Cols)
	}
	if len(cfg.Symbols) == 0 {
		return nil, fmt.Errorf("engine: no symbols configured")
	}

	grid := make([][]string, cfg.Rows)
	for r := 0; r < cfg.Rows; r++ {
		grid[r] = make([]string, cfg.Cols)
		for c := 0; c < cfg.Cols; c++ {
			grid[r][c] = e.draw(cfg.Symbols, rng())
		}
	}

	var combos []WinningCombination
	combos = append(combos, e.scanHorizontal(grid)...)
	combos = append(combos, e.scanDiagonals(grid)...)
	combos = append(combos, e.scanSymbolCounts(grid)...)

	jackpot := false
	if e.JackpotSymbol != "" && fullRowOf(grid[0], e.JackpotSymbol) {
		jackpot = true
		combos = append(combos, WinningCombination{
			Type:   CombinationJackpot,
			Symbol: e.JackpotSymbol,
			Count:  len(grid[0]),
		})
	}

	var payout float64
	for _, wc := range combos {
		payout += wc.Payout
	}

	return &EngineResult{
		Grid:                grid,
		IsWin:               len(combos) > 0,
		Payout:              payout,
		WinningCombinations: combos,
		IsJackpot:           jackpot,
	}, nil
}

// draw picks a symbol by weight from a float in [0,1).
func (e *ReelEngine) draw(symbols []SymbolConfig, f float64) string {
	total := 0
	for _, s := range symbols {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		total += w
	}
	target := int(f * float64(total))
	for _, s := range symbols {
		w := s.Weight
		if w <= 0 {
			w = 1
		}
		if target < w {
			return s.Name
		}
		target -= w
	}
	return symbols[len(symbols)-1].Name
}

func (e *ReelEngine) minLine() int {
	if e.MinLineMatch > 0 {
		return e.MinLineMatch
	}
	return 3
}

func (e *ReelEngine) scanHorizontal(grid [][]string) []WinningCombination {
	var combos []WinningCombination
	for r, row := range grid {
		run := 1
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c] == row[c-1] {
				run++
				continue
			}
			if run >= e.minLine() {
				positions := make([][2]int, run)
				for i := 0; i < run; i++ {
					positions[i] = [2]int{r, c - run + i}
				}
				combos = append(combos, WinningCombination{
					Type:      CombinationHorizontal,
					Symbol:    row[c-1],
					Count:     run,
					Positions: positions,
				})
			}
			run = 1
		}
	}
	return combos
}

func (e *ReelEngine) scanDiagonals(grid [][]string) []WinningCombination {
	n := len(grid)
	if n == 0 || len(grid[0]) < n {
		return nil
	}

	var combos []WinningCombination

	// Top-left to bottom-right.
	right := true
	for i := 1; i < n; i++ {
		if grid[i][i] != grid[0][0] {
			right = false
			break
		}
	}
	if right && n >= e.minLine() {
		positions := make([][2]int, n)
		for i := 0; i < n; i++ {
			positions[i] = [2]int{i, i}
		}
		combos = append(combos, WinningCombination{
			Type:      CombinationDiagonalRight,
			Symbol:    grid[0][0],
			Count:     n,
			Positions: positions,
		})
	}

	// Top-right to bottom-left, anchored on the first n columns.
	left := true
	for i := 1; i < n; i++ {
		if grid[i][n-1-i] != grid[0][n-1] {
			left = false
			break
		}
	}
	if left && n >= e.minLine() {
		positions := make([][2]int, n)
		for i := 0; i < n; i++ {
			positions[i] = [2]int{i, n - 1 - i}
		}
		combos = append(combos, WinningCombination{
			Type:      CombinationDiagonalLeft,
			Symbol:    grid[0][n-1],
			Count:     n,
			Positions: positions,
		})
	}

	return combos
}

func (e *ReelEngine) scanSymbolCounts(grid [][]string) []WinningCombination {
	min := e.MinSymbolCount
	if min <= 0 {
		min = 5
	}

	counts := make(map[string]int)
	for _, row := range grid {
		for _, sym := range row {
			counts[sym]++
		}
	}

	var combos []WinningCombination
	for _, row := range grid {
		for _, sym := range row {
			// Emit each qualifying symbol once, in grid order for determinism.
			n, ok := counts[sym]
			if !ok || n < min {
				continue
			}
			delete(counts, sym)
			combos = append(combos, WinningCombination{
				Type:        CombinationSymbolCount,
				Symbol:      sym,
				Count:       n,
				ActualCount: n,
			})
		}
	}
	return combos
}

func fullRowOf(row []string, symbol string) bool {
	if len(row) == 0 {
		return false
	}
	for _, s := range row {
		if s != symbol {
			return false
		}
	}
	return true
}

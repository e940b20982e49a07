package game

import (
	"context"
	"testing"
)

// sequenceRNG replays a fixed list of floats, cycling when exhausted.
func sequenceRNG(values ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := values[i%len(values)]
		i++
		return v
	}
}

func engineConfig(rows, cols int, symbols ...SymbolConfig) *SlotGameConfig {
	return &SlotGameConfig{
		Currency: "SPINS",
		SpinCost: 1,
		Rows:     rows,
		Cols:     cols,
		Symbols:  symbols,
	}
}

func TestReelEngineDeterministicGrid(t *testing.T) {
	e := NewReelEngine()
	cfg := engineConfig(2, 2, SymbolConfig{Name: "a", Weight: 1}, SymbolConfig{Name: "b", Weight: 1})

	first, err := e.Play(context.Background(), cfg, sequenceRNG(0.1, 0.9, 0.1, 0.9))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	second, err := e.Play(context.Background(), cfg, sequenceRNG(0.1, 0.9, 0.1, 0.9))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	for r := range first.Grid {
		for c := range first.Grid[r] {
			if first.Grid[r][c] != second.Grid[r][c] {
				t.Fatalf("grid[%d][%d] differs across identical rng streams", r, c)
			}
		}
	}
	if first.Grid[0][0] != "a" || first.Grid[0][1] != "b" {
		t.Errorf("grid row 0 = %v, want [a b]", first.Grid[0])
	}
}

func TestReelEngineWeightedDraw(t *testing.T) {
	e := NewReelEngine()
	symbols := []SymbolConfig{
		{Name: "common", Weight: 9},
		{Name: "rare", Weight: 1},
	}

	if got := e.draw(symbols, 0.0); got != "common" {
		t.Errorf("draw(0.0) = %s, want common", got)
	}
	if got := e.draw(symbols, 0.89); got != "common" {
		t.Errorf("draw(0.89) = %s, want common", got)
	}
	if got := e.draw(symbols, 0.95); got != "rare" {
		t.Errorf("draw(0.95) = %s, want rare", got)
	}
}

func TestReelEngineHorizontalRun(t *testing.T) {
	e := NewReelEngine()

	combos := e.scanHorizontal([][]string{
		{"a", "a", "a", "b"},
		{"b", "a", "b", "a"},
	})
	if len(combos) != 1 {
		t.Fatalf("found %d combos, want 1", len(combos))
	}
	wc := combos[0]
	if wc.Type != CombinationHorizontal || wc.Symbol != "a" || wc.Count != 3 {
		t.Errorf("combo = %+v, want horizontal a x3", wc)
	}
	wantPositions := [][2]int{{0, 0}, {0, 1}, {0, 2}}
	for i, p := range wc.Positions {
		if p != wantPositions[i] {
			t.Errorf("position %d = %v, want %v", i, p, wantPositions[i])
		}
	}
}

func TestReelEngineDiagonals(t *testing.T) {
	e := NewReelEngine()

	combos := e.scanDiagonals([][]string{
		{"a", "x", "b"},
		{"y", "a", "b"},
		{"b", "z", "a"},
	})
	if len(combos) != 1 {
		t.Fatalf("found %d combos, want 1", len(combos))
	}
	if combos[0].Type != CombinationDiagonalRight || combos[0].Symbol != "a" {
		t.Errorf("combo = %+v, want diagonal-right a", combos[0])
	}

	combos = e.scanDiagonals([][]string{
		{"x", "y", "b"},
		{"y", "b", "x"},
		{"b", "z", "a"},
	})
	if len(combos) != 1 || combos[0].Type != CombinationDiagonalLeft {
		t.Fatalf("combos = %+v, want one diagonal-left", combos)
	}
}

func TestReelEngineSymbolCountOncePerSymbol(t *testing.T) {
	e := NewReelEngine()

	combos := e.scanSymbolCounts([][]string{
		{"a", "a", "a"},
		{"a", "a", "b"},
		{"b", "b", "b"},
	})
	if len(combos) != 1 {
		t.Fatalf("found %d combos, want 1 (a only, b is below threshold)", len(combos))
	}
	wc := combos[0]
	if wc.Symbol != "a" || wc.Count != 5 || wc.ActualCount != 5 {
		t.Errorf("combo = %+v, want symbolCount a count=5 actual=5", wc)
	}
}

func TestReelEngineJackpotTopRow(t *testing.T) {
	e := NewReelEngine()
	e.JackpotSymbol = "seven"
	cfg := engineConfig(2, 3, SymbolConfig{Name: "seven", Weight: 1})

	result, err := e.Play(context.Background(), cfg, sequenceRNG(0.0))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !result.IsJackpot {
		t.Fatal("full top row of jackpot symbol not flagged as jackpot")
	}

	found := false
	for _, wc := range result.WinningCombinations {
		if wc.Type == CombinationJackpot && wc.Symbol == "seven" {
			found = true
		}
	}
	if !found {
		t.Error("jackpot combination missing from result")
	}
}

func TestReelEngineRejectsBadConfig(t *testing.T) {
	e := NewReelEngine()

	if _, err := e.Play(context.Background(), engineConfig(0, 3, SymbolConfig{Name: "a"}), sequenceRNG(0)); err == nil {
		t.Error("Play() accepted zero rows")
	}
	if _, err := e.Play(context.Background(), engineConfig(3, 3), sequenceRNG(0)); err == nil {
		t.Error("Play() accepted empty symbol set")
	}
}

func TestReelEngineLossIsNotWin(t *testing.T) {
	e := NewReelEngine()
	// Alternating draws produce no line of 3 and no 5-of-a-kind on 2x2.
	cfg := engineConfig(2, 2, SymbolConfig{Name: "a", Weight: 1}, SymbolConfig{Name: "b", Weight: 1})

	result, err := e.Play(context.Background(), cfg, sequenceRNG(0.1, 0.9))
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if result.IsWin {
		t.Errorf("result = %+v, want loss", result)
	}
}

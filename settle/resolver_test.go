package settle

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/ledger"
)

func floatPtr(f float64) *float64 { return &f }

func testPayouts() *game.PayoutConfig {
	return &game.PayoutConfig{
		Rewards: map[string]game.RewardBasis{
			"cherry":  {MBX: 10, XPP: 5, RTP: 2},
			"diamond": {MBX: 100, XPP: 50, RTP: 20},
			"blank":   {},
		},
	}
}

func TestResolveMultiplierPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		payouts *game.PayoutConfig
		combo   game.WinningCombination
		want    float64
	}{
		{
			name:    "explicit multiplier wins over every table",
			payouts: &game.PayoutConfig{EnableMatchMultipliers: true, HorizontalMatches: map[int]float64{3: 5}, SymbolCountMultipliers: map[int]float64{3: 7}},
			combo:   game.WinningCombination{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3, Multiplier: floatPtr(2.5)},
			want:    2.5,
		},
		{
			name:    "horizontal match table when enabled",
			payouts: &game.PayoutConfig{EnableMatchMultipliers: true, HorizontalMatches: map[int]float64{3: 5}},
			combo:   game.WinningCombination{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3},
			want:    5,
		},
		{
			name:    "horizontal match table ignored when disabled",
			payouts: &game.PayoutConfig{EnableMatchMultipliers: false, HorizontalMatches: map[int]float64{3: 5}},
			combo:   game.WinningCombination{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3},
			want:    3,
		},
		{
			name:    "diagonal tables apply to both directions",
			payouts: &game.PayoutConfig{EnableMatchMultipliers: true, DiagonalMatches: map[int]float64{4: 8}},
			combo:   game.WinningCombination{Type: game.CombinationDiagonalLeft, Symbol: "cherry", Count: 4},
			want:    8,
		},
		{
			name:    "per-symbol count table beats generic count table",
			payouts: &game.PayoutConfig{SymbolCountMultipliersBySymbol: map[string]map[int]float64{"cherry": {5: 4}}, SymbolCountMultipliers: map[int]float64{5: 9}},
			combo:   game.WinningCombination{Type: game.CombinationSymbolCount, Symbol: "cherry", Count: 5, ActualCount: 5},
			want:    4,
		},
		{
			name:    "generic count table when symbol has no entry",
			payouts: &game.PayoutConfig{SymbolCountMultipliersBySymbol: map[string]map[int]float64{"cherry": {6: 4}}, SymbolCountMultipliers: map[int]float64{5: 9}},
			combo:   game.WinningCombination{Type: game.CombinationSymbolCount, Symbol: "cherry", Count: 5, ActualCount: 5},
			want:    9,
		},
		{
			name:    "actual count overrides threshold count for table lookup",
			payouts: &game.PayoutConfig{SymbolCountMultipliers: map[int]float64{7: 12}},
			combo:   game.WinningCombination{Type: game.CombinationSymbolCount, Symbol: "cherry", Count: 5, ActualCount: 7},
			want:    12,
		},
		{
			name:    "fallback is the match count",
			payouts: &game.PayoutConfig{},
			combo:   game.WinningCombination{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 4},
			want:    4,
		},
		{
			name:    "fallback never drops below one",
			payouts: &game.PayoutConfig{},
			combo:   game.WinningCombination{Type: game.CombinationJackpot, Symbol: "cherry", Count: 0},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveMultiplier(tt.payouts, tt.combo); got != tt.want {
				t.Errorf("ResolveMultiplier() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveTruncatesPerCombination(t *testing.T) {
	resolver := NewResolver(ledger.NewMemoryLedger(), zerolog.Nop())
	payouts := &game.PayoutConfig{
		Rewards: map[string]game.RewardBasis{"cherry": {MBX: 1}},
	}

	// Two combinations worth 1.5 MBX each settle as 1+1, not floor(3).
	combos := []game.WinningCombination{
		{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3, Multiplier: floatPtr(1.5)},
		{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3, Multiplier: floatPtr(1.5)},
	}

	rewards := resolver.Resolve(payouts, combos)
	if rewards.MBX != 2 {
		t.Errorf("MBX = %d, want 2 (per-combination truncation)", rewards.MBX)
	}
}

func TestResolveAccumulatesAcrossCombinations(t *testing.T) {
	resolver := NewResolver(ledger.NewMemoryLedger(), zerolog.Nop())

	combos := []game.WinningCombination{
		{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3},
		{Type: game.CombinationSymbolCount, Symbol: "diamond", Count: 5, ActualCount: 6},
	}

	rewards := resolver.Resolve(testPayouts(), combos)
	// cherry: base {10,5,2} x3, diamond: base {100,50,20} x6.
	want := game.Rewards{MBX: 630, XPP: 315, RTP: 126}
	if rewards != want {
		t.Errorf("Resolve() = %+v, want %+v", rewards, want)
	}
}

func TestResolveSkipsUnknownSymbols(t *testing.T) {
	resolver := NewResolver(ledger.NewMemoryLedger(), zerolog.Nop())

	combos := []game.WinningCombination{
		{Type: game.CombinationHorizontal, Symbol: "ghost", Count: 3},
	}

	rewards := resolver.Resolve(testPayouts(), combos)
	if rewards != (game.Rewards{}) {
		t.Errorf("Resolve() = %+v, want zero rewards", rewards)
	}
}

func TestResolveZeroBasisYieldsZeroRewards(t *testing.T) {
	resolver := NewResolver(ledger.NewMemoryLedger(), zerolog.Nop())

	combos := []game.WinningCombination{
		{Type: game.CombinationHorizontal, Symbol: "blank", Count: 5, Multiplier: floatPtr(10)},
	}

	rewards := resolver.Resolve(testPayouts(), combos)
	if rewards != (game.Rewards{}) {
		t.Errorf("Resolve() = %+v, want zero rewards", rewards)
	}
}

func TestSettleEmitsZeroDebitBeforeEachCredit(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	resolver := NewResolver(bridge, zerolog.Nop())
	player := &game.PlayerContext{PlayerID: "p1"}

	err := resolver.Settle(context.Background(), player, game.Rewards{MBX: 25, RTP: 3}, "txn-1", "round-1", "game-1")
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	movements := bridge.Movements()
	if len(movements) != 4 {
		t.Fatalf("recorded %d movements, want 4", len(movements))
	}

	wantKinds := []string{"debit", "credit", "debit", "credit"}
	wantAmounts := []int64{0, 25, 0, 3}
	wantCurrencies := []string{"MBX", "MBX", "RTP", "RTP"}
	for i, m := range movements {
		if m.Kind != wantKinds[i] || m.Request.Amount != wantAmounts[i] || m.Request.Currency != wantCurrencies[i] {
			t.Errorf("movement %d = %s %s %d, want %s %s %d",
				i, m.Kind, m.Request.Currency, m.Request.Amount,
				wantKinds[i], wantCurrencies[i], wantAmounts[i])
		}
		if m.Request.TransactionID != "txn-1" || m.Request.RoundID != "round-1" || m.Request.GameID != "game-1" {
			t.Errorf("movement %d ids = %s/%s/%s, want txn-1/round-1/game-1",
				i, m.Request.TransactionID, m.Request.RoundID, m.Request.GameID)
		}
	}
}

func TestSettleSkipsZeroCurrencies(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	resolver := NewResolver(bridge, zerolog.Nop())
	player := &game.PlayerContext{PlayerID: "p1"}

	if err := resolver.Settle(context.Background(), player, game.Rewards{}, "txn-1", "round-1", "game-1"); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if len(bridge.Movements()) != 0 {
		t.Error("zero rewards produced ledger movements")
	}
}

package game

import (
	"fmt"
)

// PlayerContext identifies the acting player for one request.
// It is resolved once per request by a PlayerProvider and never persisted.
type PlayerContext struct {
	PlayerID  string                 `json:"playerId"`
	SessionID string                 `json:"sessionId"`
	Currency  string                 `json:"currency,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// GameDefinition identifies a playable game. Immutable, process-wide,
// loaded at startup.
type GameDefinition struct {
	StudioID string          `mapstructure:"studio_id" json:"studioId"`
	GameID   string          `mapstructure:"game_id" json:"gameId"`
	Config   *SlotGameConfig `mapstructure:"config" json:"config,omitempty"`
}

// Matches reports whether the given studio/game identity matches this definition.
func (d *GameDefinition) Matches(studioID, gameID string) bool {
	return d.StudioID == studioID && d.GameID == gameID
}

// RewardBasis is the base reward triple for a symbol, in the smallest unit
// of each reward currency.
type RewardBasis struct {
	MBX int64 `mapstructure:"mbx" json:"MBX"`
	XPP int64 `mapstructure:"xpp" json:"XPP"`
	RTP int64 `mapstructure:"rtp" json:"RTP"`
}

// IsZero reports whether every component of the basis is zero.
func (b RewardBasis) IsZero() bool {
	return b.MBX == 0 && b.XPP == 0 && b.RTP == 0
}

// PayoutConfig holds per-symbol base rewards plus the optional multiplier
// tables consulted by the settlement resolver. Table keys are match counts.
type PayoutConfig struct {
	Rewards                        map[string]RewardBasis         `mapstructure:"rewards" json:"rewards"`
	EnableMatchMultipliers         bool                           `mapstructure:"enable_match_multipliers" json:"enableMatchMultipliers"`
	HorizontalMatches              map[int]float64                `mapstructure:"horizontal_matches" json:"horizontalMatches,omitempty"`
	DiagonalMatches                map[int]float64                `mapstructure:"diagonal_matches" json:"diagonalMatches,omitempty"`
	SymbolCountMultipliersBySymbol map[string]map[int]float64     `mapstructure:"symbol_count_multipliers_by_symbol" json:"symbolCountMultipliersBySymbol,omitempty"`
	SymbolCountMultipliers         map[int]float64                `mapstructure:"symbol_count_multipliers" json:"symbolCountMultipliers,omitempty"`
}

// RandomnessConfig declares the commitment scheme a game uses. Meta is
// surfaced to clients verbatim so they can verify independently.
type RandomnessConfig struct {
	Type string                 `mapstructure:"type" json:"type"`
	Meta map[string]interface{} `mapstructure:"meta" json:"meta,omitempty"`
}

// SymbolConfig holds one reel symbol with its draw weight.
type SymbolConfig struct {
	Name   string `mapstructure:"name" json:"name"`
	Weight int    `mapstructure:"weight" json:"weight"`
}

// SlotGameConfig is the rule set of a specific slot game. Long-lived,
// loaded at startup, read-only during play.
type SlotGameConfig struct {
	Currency   string                 `mapstructure:"currency" json:"currency"`
	SpinCost   int64                  `mapstructure:"spin_cost" json:"spinCost"`
	Rows       int                    `mapstructure:"rows" json:"rows"`
	Cols       int                    `mapstructure:"cols" json:"cols"`
	Symbols    []SymbolConfig         `mapstructure:"symbols" json:"symbols"`
	Payouts    PayoutConfig           `mapstructure:"payouts" json:"payouts"`
	Visuals    map[string]interface{} `mapstructure:"visuals" json:"visuals,omitempty"`
	Randomness RandomnessConfig       `mapstructure:"randomness" json:"randomness"`
}

// Validate checks the config invariants: a positive spin cost and a base
// reward entry for every symbol the engine can emit.
func (c *SlotGameConfig) Validate() error {
	if c.SpinCost <= 0 {
		return fmt.Errorf("spin_cost must be > 0, got %d", c.SpinCost)
	}
	if c.Currency == "" {
		return fmt.Errorf("currency is required")
	}
	for _, sym := range c.Symbols {
		if _, ok := c.Payouts.Rewards[sym.Name]; !ok {
			return fmt.Errorf("payouts.rewards missing base reward for symbol %q", sym.Name)
		}
	}
	return nil
}

// Normalize converts the config to a response-friendly map. Visuals are
// included because the front end renders from this; multiplier tables are
// not, they are settlement-side detail.
func (c *SlotGameConfig) Normalize() map[string]interface{} {
	symbols := make([]string, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		symbols = append(symbols, s.Name)
	}
	return map[string]interface{}{
		"currency":   c.Currency,
		"spinCost":   c.SpinCost,
		"rows":       c.Rows,
		"cols":       c.Cols,
		"symbols":    symbols,
		"visuals":    c.Visuals,
		"randomness": c.Randomness,
	}
}

// CombinationType identifies how a winning combination was scored.
type CombinationType string

const (
	CombinationHorizontal    CombinationType = "horizontal"
	CombinationDiagonalRight CombinationType = "diagonal-right"
	CombinationDiagonalLeft  CombinationType = "diagonal-left"
	CombinationSymbolCount   CombinationType = "symbolCount"
	CombinationJackpot       CombinationType = "jackpot"
)

// WinningCombination is one scoring unit from a spin. Produced only by the
// grid engine; consumed read-only by settlement.
type WinningCombination struct {
	Type        CombinationType `json:"type"`
	Symbol      string          `json:"symbol"`
	Count       int             `json:"count"`
	Payout      float64         `json:"payout"`
	ActualCount int             `json:"actualCount,omitempty"`
	Multiplier  *float64        `json:"multiplier,omitempty"`
	Positions   [][2]int        `json:"positions,omitempty"`
}

// EngineResult is the raw outcome of one grid-engine invocation.
type EngineResult struct {
	Grid                [][]string           `json:"grid"`
	IsWin               bool                 `json:"isWin"`
	Payout              float64              `json:"payout"`
	WinningCombinations []WinningCombination `json:"winningCombinations"`
	IsJackpot           bool                 `json:"isJackpot"`
}

// RewardCurrencies is the fixed settlement order of the reward currencies.
var RewardCurrencies = []string{"MBX", "XPP", "RTP"}

// Rewards is the per-currency settled reward map for one spin. The three
// reward currencies are fixed.
type Rewards struct {
	MBX int64 `json:"MBX"`
	XPP int64 `json:"XPP"`
	RTP int64 `json:"RTP"`
}

// ToMap returns the map form used on the wire.
func (r Rewards) ToMap() map[string]int64 {
	return map[string]int64{
		"MBX": r.MBX,
		"XPP": r.XPP,
		"RTP": r.RTP,
	}
}

// SlotPlayResult is the full outcome of one spin, constructed once and
// never mutated afterwards. SpinsRemaining is the post-settlement balance
// in the stake currency (conventionally a spin-count ledger).
type SlotPlayResult struct {
	Grid                [][]string           `json:"grid"`
	IsWin               bool                 `json:"isWin"`
	Payout              float64              `json:"payout"`
	WinningCombinations []WinningCombination `json:"winningCombinations"`
	IsJackpot           bool                 `json:"isJackpot"`
	SpinsRemaining      int64                `json:"spinsRemaining"`
	Rewards             map[string]int64     `json:"rewards"`
}

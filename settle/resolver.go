// Package settle turns a grid engine's winning combinations into settled
// per-currency rewards and moves the money through the ledger bridge.
package settle

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/ledger"
)

// Resolver computes reward amounts from winning combinations and
// settles them against the ledger.
type Resolver struct {
	bridge ledger.Bridge
	logger zerolog.Logger
}

// NewResolver creates a settlement resolver.
func NewResolver(bridge ledger.Bridge, logger zerolog.Logger) *Resolver {
	return &Resolver{
		bridge: bridge,
		logger: logger.With().Str("component", "settle_resolver").Logger(),
	}
}

// Resolve computes the settled rewards for a set of winning
// combinations. Each combination's base rewards are scaled by its
// resolved multiplier and truncated toward zero per combination, then
// accumulated. Symbols without a base reward entry contribute nothing.
func (r *Resolver) Resolve(payouts *game.PayoutConfig, combos []game.WinningCombination) game.Rewards {
	var total game.Rewards
	for _, combo := range combos {
		basis, ok := payouts.Rewards[combo.Symbol]
		if !ok {
			r.logger.Warn().
				Str("symbol", combo.Symbol).
				Str("type", string(combo.Type)).
				Msg("No base reward for winning symbol")
			continue
		}

		multiplier := ResolveMultiplier(payouts, combo)
		total.MBX += scale(basis.MBX, multiplier)
		total.XPP += scale(basis.XPP, multiplier)
		total.RTP += scale(basis.RTP, multiplier)
	}
	return total
}

// ResolveMultiplier applies the multiplier precedence for one
// combination: an explicit multiplier wins outright, then the
// line-match tables when enabled, then the per-symbol and generic
// count tables, then the match count itself (never below 1).
func ResolveMultiplier(payouts *game.PayoutConfig, combo game.WinningCombination) float64 {
	if combo.Multiplier != nil {
		return *combo.Multiplier
	}

	if payouts.EnableMatchMultipliers {
		switch combo.Type {
		case game.CombinationHorizontal:
			if m, ok := payouts.HorizontalMatches[combo.Count]; ok {
				return m
			}
		case game.CombinationDiagonalRight, game.CombinationDiagonalLeft:
			if m, ok := payouts.DiagonalMatches[combo.Count]; ok {
				return m
			}
		}
	}

	count := combo.Count
	if combo.ActualCount > 0 {
		count = combo.ActualCount
	}

	if bySymbol, ok := payouts.SymbolCountMultipliersBySymbol[combo.Symbol]; ok {
		if m, ok := bySymbol[count]; ok {
			return m
		}
	}
	if m, ok := payouts.SymbolCountMultipliers[count]; ok {
		return m
	}

	if count < 1 {
		return 1
	}
	return float64(count)
}

// Settle credits the resolved rewards to the player. Each non-zero
// currency gets a zero-amount debit immediately before its credit so
// downstream audit consumers see a symmetric movement pair. All
// movements share the transaction, round and game ids of the spin.
func (r *Resolver) Settle(ctx context.Context, player *game.PlayerContext, rewards game.Rewards, transactionID, roundID, gameID string) error {
	amounts := rewards.ToMap()
	for _, currency := range game.RewardCurrencies {
		amount := amounts[currency]
		if amount == 0 {
			continue
		}

		req := ledger.MovementRequest{
			PlayerID:      player.PlayerID,
			Currency:      currency,
			Amount:        0,
			TransactionID: transactionID,
			RoundID:       roundID,
			GameID:        gameID,
		}
		if _, err := r.bridge.Debit(ctx, req); err != nil {
			return apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to record settlement debit")
		}

		req.Amount = amount
		if _, err := r.bridge.Credit(ctx, req); err != nil {
			return apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to credit reward")
		}

		r.logger.Info().
			Str("player_id", player.PlayerID).
			Str("currency", currency).
			Int64("amount", amount).
			Str("round_id", roundID).
			Msg("Reward credited")
	}
	return nil
}

func scale(base int64, multiplier float64) int64 {
	if base == 0 {
		return 0
	}
	return decimal.NewFromInt(base).
		Mul(decimal.NewFromFloat(multiplier)).
		Truncate(0).
		IntPart()
}

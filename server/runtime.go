package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/ledger"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/pkg/feed"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/provider"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/random"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/settle"
)

// InitRequest asks for a game session to be prepared. Currency defaults
// to the game's stake currency when empty.
type InitRequest struct {
	StudioID string `json:"studioId" binding:"required"`
	GameID   string `json:"gameId" binding:"required"`
	Currency string `json:"currency"`
}

// RandomnessInfo describes the committed randomness for a session.
type RandomnessInfo struct {
	Type   string                 `json:"type"`
	Hash   string                 `json:"hash"`
	Config map[string]interface{} `json:"config,omitempty"`
}

// InitResponse carries the commitment and game setup for the client.
type InitResponse struct {
	StudioID   string                 `json:"studioId"`
	GameID     string                 `json:"gameId"`
	Game       map[string]interface{} `json:"game"`
	Randomness RandomnessInfo         `json:"randomness"`
	Balances   map[string]int64       `json:"balances"`
}

// PlayRequest asks for one spin to be played and settled.
type PlayRequest struct {
	StudioID   string `json:"studioId" binding:"required"`
	GameID     string `json:"gameId" binding:"required"`
	Wager      int64  `json:"wager"`
	ClientSeed string `json:"clientSeed"`
}

// RandomnessReveal is the provably-fair reveal attached to a settled spin.
type RandomnessReveal struct {
	Type         string `json:"type"`
	Hash         string `json:"hash"`
	ServerSeed   string `json:"serverSeed"`
	ClientSeed   string `json:"clientSeed"`
	CombinedSeed string `json:"combinedSeed"`
	NextHash     string `json:"nextHash"`
}

// BalanceChange reports the stake currency balance around a spin.
type BalanceChange struct {
	Before int64 `json:"before"`
	After  int64 `json:"after"`
}

// PlayResponse is the settled outcome of one spin.
type PlayResponse struct {
	TransactionID string              `json:"transactionId"`
	RoundID       string              `json:"roundId"`
	Wager         int64               `json:"wager"`
	Result        game.SlotPlayResult `json:"result"`
	Balance       BalanceChange       `json:"balance"`
	Randomness    RandomnessReveal    `json:"randomness"`
	Timestamp     time.Time           `json:"timestamp"`
}

// Runtime orchestrates a spin end to end: identity check, stake debit,
// randomness reveal, grid evaluation, reward settlement and event
// publication. It holds no per-round state of its own; every spin is
// settled within the single Play call.
type Runtime struct {
	registry *game.Registry
	strategy random.Strategy
	bridge   ledger.Bridge
	engine   game.EngineAdapter
	resolver *settle.Resolver
	events   provider.EventPublisher
	feed     *feed.Service
	logger   zerolog.Logger
}

// RuntimeConfig wires the runtime's collaborators. Events and Feed are
// optional.
type RuntimeConfig struct {
	Registry *game.Registry
	Strategy random.Strategy
	Bridge   ledger.Bridge
	Engine   game.EngineAdapter
	Resolver *settle.Resolver
	Events   provider.EventPublisher
	Feed     *feed.Service
	Logger   zerolog.Logger
}

// NewRuntime creates the game runtime.
func NewRuntime(cfg RuntimeConfig) *Runtime {
	events := cfg.Events
	if events == nil {
		events = provider.NoopEventPublisher{}
	}

	return &Runtime{
		registry: cfg.Registry,
		strategy: cfg.Strategy,
		bridge:   cfg.Bridge,
		engine:   cfg.Engine,
		resolver: cfg.Resolver,
		events:   events,
		feed:     cfg.Feed,
		logger:   cfg.Logger.With().Str("component", "runtime").Logger(),
	}
}

// Init prepares a session: it validates the game identity, reads the
// balance in the requested currency (the stake currency by default),
// commits the randomness for the first spin and returns the
// client-facing game config.
func (r *Runtime) Init(ctx context.Context, player *game.PlayerContext, req InitRequest) (*InitResponse, error) {
	def, err := r.lookup(req.StudioID, req.GameID)
	if err != nil {
		return nil, err
	}
	cfg := def.Config

	currency := req.Currency
	if currency == "" {
		currency = cfg.Currency
	}

	balance, err := r.bridge.Balance(ctx, ledger.BalanceRequest{PlayerID: player.PlayerID, Currency: currency})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to read balance")
	}

	commitment, err := r.strategy.Commit(ctx, player, def)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("player_id", player.PlayerID).
		Str("game_id", def.GameID).
		Str("hash", commitment.Hash).
		Msg("Session initialized")

	return &InitResponse{
		StudioID: def.StudioID,
		GameID:   def.GameID,
		Game:     cfg.Normalize(),
		Randomness: RandomnessInfo{
			Type:   r.strategy.Type(),
			Hash:   commitment.Hash,
			Config: r.strategy.Config(),
		},
		Balances: map[string]int64{currency: balance.Amount},
	}, nil
}

// Play runs one spin. The stake is debited before the grid engine is
// invoked; once the debit has landed the spin is always evaluated and
// settled, never rolled back.
func (r *Runtime) Play(ctx context.Context, player *game.PlayerContext, req PlayRequest) (*PlayResponse, error) {
	def, err := r.lookup(req.StudioID, req.GameID)
	if err != nil {
		return nil, err
	}
	cfg := def.Config

	if req.Wager > 0 && req.Wager != cfg.SpinCost {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "wager does not match the configured spin cost")
	}

	before, err := r.bridge.Balance(ctx, ledger.BalanceRequest{PlayerID: player.PlayerID, Currency: cfg.Currency})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to read balance")
	}
	if before.Amount < cfg.SpinCost {
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "No free spins left")
	}

	transactionID := uuid.NewString()
	roundID := uuid.NewString()

	if _, err := r.bridge.Debit(ctx, ledger.MovementRequest{
		PlayerID:      player.PlayerID,
		Currency:      cfg.Currency,
		Amount:        cfg.SpinCost,
		TransactionID: transactionID,
		RoundID:       roundID,
		GameID:        def.GameID,
	}); err != nil {
		if apperrors.CodeIs(err, apperrors.ErrInsufficientBalance) {
			return nil, apperrors.New(apperrors.ErrInsufficientBalance, "No free spins left")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to debit stake")
	}

	spin, err := r.strategy.PrepareSpin(ctx, player, def, req.ClientSeed)
	if err != nil {
		return nil, err
	}

	result, err := r.engine.Play(ctx, cfg, spin.RNG)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrEngineError, "grid engine failed")
	}

	// A losing spin reports nil rewards; the all-zero map is reserved for a
	// win whose combinations all resolve to zero.
	var rewards game.Rewards
	var rewardsMap map[string]int64
	if result.IsWin {
		rewards = r.resolver.Resolve(&cfg.Payouts, result.WinningCombinations)
		if err := r.resolver.Settle(ctx, player, rewards, transactionID, roundID, def.GameID); err != nil {
			return nil, err
		}
		rewardsMap = rewards.ToMap()
	}

	after, err := r.bridge.Balance(ctx, ledger.BalanceRequest{PlayerID: player.PlayerID, Currency: cfg.Currency})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to read balance")
	}

	now := time.Now().UTC()

	r.events.PublishRoundSettled(provider.RoundSettledEvent{
		RoundID:       roundID,
		TransactionID: transactionID,
		PlayerID:      player.PlayerID,
		StudioID:      def.StudioID,
		GameID:        def.GameID,
		Wager:         cfg.SpinCost,
		IsWin:         result.IsWin,
		IsJackpot:     result.IsJackpot,
		Rewards:       rewardsMap,
		SettledAt:     now,
	})

	if r.feed != nil {
		r.feed.Publish(feed.Update{
			RoundID:   roundID,
			PlayerID:  player.PlayerID,
			GameID:    def.GameID,
			Wager:     cfg.SpinCost,
			IsWin:     result.IsWin,
			IsJackpot: result.IsJackpot,
			Rewards:   rewardsMap,
			Timestamp: now,
		})
	}

	r.logger.Info().
		Str("player_id", player.PlayerID).
		Str("game_id", def.GameID).
		Str("round_id", roundID).
		Bool("is_win", result.IsWin).
		Bool("is_jackpot", result.IsJackpot).
		Int64("mbx", rewards.MBX).
		Int64("xpp", rewards.XPP).
		Int64("rtp", rewards.RTP).
		Msg("Round settled")

	return &PlayResponse{
		TransactionID: transactionID,
		RoundID:       roundID,
		Wager:         cfg.SpinCost,
		Result: game.SlotPlayResult{
			Grid:                result.Grid,
			IsWin:               result.IsWin,
			Payout:              result.Payout,
			WinningCombinations: result.WinningCombinations,
			IsJackpot:           result.IsJackpot,
			SpinsRemaining:      after.Amount,
			Rewards:             rewardsMap,
		},
		Balance: BalanceChange{Before: before.Amount, After: after.Amount},
		Randomness: RandomnessReveal{
			Type:         r.strategy.Type(),
			Hash:         spin.Hash,
			ServerSeed:   spin.ServerSeed,
			ClientSeed:   spin.ClientSeed,
			CombinedSeed: spin.CombinedSeed,
			NextHash:     spin.NextHash,
		},
		Timestamp: now,
	}, nil
}

func (r *Runtime) lookup(studioID, gameID string) (*game.GameDefinition, error) {
	def, ok := r.registry.Find(studioID, gameID)
	if !ok || !def.Matches(studioID, gameID) {
		return nil, apperrors.New(apperrors.ErrUnsupportedGame, "unsupported game")
	}
	if def.Config == nil {
		return nil, apperrors.New(apperrors.ErrUnsupportedGame, "game configuration unavailable")
	}
	return def, nil
}

package server

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/ledger"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/random"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/settle"
)

func testConfig() *game.SlotGameConfig {
	return &game.SlotGameConfig{
		Currency: "SPINS",
		SpinCost: 1,
		Rows:     3,
		Cols:     3,
		Symbols: []game.SymbolConfig{
			{Name: "cherry", Weight: 1},
		},
		Payouts: game.PayoutConfig{
			Rewards: map[string]game.RewardBasis{
				"cherry": {MBX: 10, XPP: 5, RTP: 2},
			},
		},
	}
}

func newTestRuntime(t *testing.T, bridge ledger.Bridge, engine game.EngineAdapter) *Runtime {
	t.Helper()

	registry := game.NewRegistry()
	registry.Register(&game.GameDefinition{StudioID: "studio-1", GameID: "game-1", Config: testConfig()})

	return NewRuntime(RuntimeConfig{
		Registry: registry,
		Strategy: random.NewProvablyFair(random.NewMemoryVault(), zerolog.Nop()),
		Bridge:   bridge,
		Engine:   engine,
		Resolver: settle.NewResolver(bridge, zerolog.Nop()),
		Logger:   zerolog.Nop(),
	})
}

func losingEngine() game.EngineAdapter {
	return game.EngineFunc(func(ctx context.Context, cfg *game.SlotGameConfig, rng func() float64) (*game.EngineResult, error) {
		return &game.EngineResult{
			Grid:  [][]string{{"cherry", "x", "y"}, {"x", "y", "cherry"}, {"y", "cherry", "x"}},
			IsWin: false,
		}, nil
	})
}

func winningEngine() game.EngineAdapter {
	return game.EngineFunc(func(ctx context.Context, cfg *game.SlotGameConfig, rng func() float64) (*game.EngineResult, error) {
		return &game.EngineResult{
			Grid:  [][]string{{"cherry", "cherry", "cherry"}, {"x", "y", "x"}, {"y", "x", "y"}},
			IsWin: true,
			WinningCombinations: []game.WinningCombination{
				{Type: game.CombinationHorizontal, Symbol: "cherry", Count: 3},
			},
		}, nil
	})
}

func TestPlayDebitsStakeBeforeEngine(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	engineSawDebit := false
	engine := game.EngineFunc(func(ctx context.Context, cfg *game.SlotGameConfig, rng func() float64) (*game.EngineResult, error) {
		engineSawDebit = len(bridge.Movements()) == 1
		return &game.EngineResult{Grid: [][]string{{"x"}}, IsWin: false}, nil
	})

	runtime := newTestRuntime(t, bridge, engine)
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	_, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !engineSawDebit {
		t.Error("engine ran before the stake debit landed")
	}
}

func TestPlayInsufficientBalanceNoDebit(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 0)

	runtime := newTestRuntime(t, bridge, winningEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	_, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if !apperrors.CodeIs(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("Play() error = %v, want insufficient balance", err)
	}
	if appErr, ok := err.(*apperrors.AppError); !ok || appErr.Message != "No free spins left" {
		t.Errorf("Play() message = %v, want 'No free spins left'", err)
	}
	if len(bridge.Movements()) != 0 {
		t.Error("ledger movements recorded for a rejected spin")
	}
}

func TestPlayUnknownGame(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	runtime := newTestRuntime(t, bridge, winningEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	_, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "nope"})
	if !apperrors.CodeIs(err, apperrors.ErrUnsupportedGame) {
		t.Fatalf("Play() error = %v, want unsupported game", err)
	}
}

func TestConfiglessDefinitionRejected(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	registry := game.NewRegistry()
	registry.Register(&game.GameDefinition{StudioID: "studio-1", GameID: "bare"})

	runtime := NewRuntime(RuntimeConfig{
		Registry: registry,
		Strategy: random.NewProvablyFair(random.NewMemoryVault(), zerolog.Nop()),
		Bridge:   bridge,
		Engine:   winningEngine(),
		Resolver: settle.NewResolver(bridge, zerolog.Nop()),
		Logger:   zerolog.Nop(),
	})
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}
	ctx := context.Background()

	if _, err := runtime.Play(ctx, player, PlayRequest{StudioID: "studio-1", GameID: "bare"}); !apperrors.CodeIs(err, apperrors.ErrUnsupportedGame) {
		t.Fatalf("Play() error = %v, want unsupported game", err)
	}
	if _, err := runtime.Init(ctx, player, InitRequest{StudioID: "studio-1", GameID: "bare"}); !apperrors.CodeIs(err, apperrors.ErrUnsupportedGame) {
		t.Fatalf("Init() error = %v, want unsupported game", err)
	}
	if len(bridge.Movements()) != 0 {
		t.Error("ledger movements recorded for an unplayable game")
	}
}

func TestInitReadsRequestedCurrency(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "MBX", 42)

	runtime := newTestRuntime(t, bridge, losingEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	resp, err := runtime.Init(context.Background(), player, InitRequest{StudioID: "studio-1", GameID: "game-1", Currency: "MBX"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if resp.Balances["MBX"] != 42 {
		t.Errorf("Init balances = %v, want MBX=42", resp.Balances)
	}
}

func TestPlayWagerMismatch(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)
	runtime := newTestRuntime(t, bridge, winningEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	_, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1", Wager: 7})
	if !apperrors.CodeIs(err, apperrors.ErrInvalidRequest) {
		t.Fatalf("Play() error = %v, want invalid request", err)
	}
}

func TestPlayWinSettlesRewards(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	runtime := newTestRuntime(t, bridge, winningEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	resp, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	// cherry base {10,5,2} with 3 matches and no tables resolves at x3.
	if got := resp.Result.Rewards["MBX"]; got != 30 {
		t.Errorf("MBX reward = %d, want 30", got)
	}
	if resp.Balance.Before != 5 || resp.Balance.After != 4 {
		t.Errorf("balance = %d -> %d, want 5 -> 4", resp.Balance.Before, resp.Balance.After)
	}
	if resp.Result.SpinsRemaining != 4 {
		t.Errorf("SpinsRemaining = %d, want 4", resp.Result.SpinsRemaining)
	}

	// Stake debit, then zero-debit + credit per non-zero currency.
	movements := bridge.Movements()
	if len(movements) != 7 {
		t.Fatalf("recorded %d movements, want 7", len(movements))
	}
	if movements[0].Kind != "debit" || movements[0].Request.Currency != "SPINS" || movements[0].Request.Amount != 1 {
		t.Errorf("first movement = %+v, want stake debit of 1 SPINS", movements[0])
	}
	for i := 1; i < 7; i += 2 {
		if movements[i].Kind != "debit" || movements[i].Request.Amount != 0 {
			t.Errorf("movement %d = %+v, want zero debit", i, movements[i])
		}
		if movements[i+1].Kind != "credit" || movements[i+1].Request.Amount == 0 {
			t.Errorf("movement %d = %+v, want non-zero credit", i+1, movements[i+1])
		}
		if movements[i].Request.Currency != movements[i+1].Request.Currency {
			t.Errorf("movement pair %d/%d currencies differ", i, i+1)
		}
	}

	balances := map[string]int64{}
	for _, cur := range game.RewardCurrencies {
		snap, _ := bridge.Balance(context.Background(), ledger.BalanceRequest{PlayerID: "p1", Currency: cur})
		balances[cur] = snap.Amount
	}
	if balances["MBX"] != 30 || balances["XPP"] != 15 || balances["RTP"] != 6 {
		t.Errorf("reward balances = %v, want MBX=30 XPP=15 RTP=6", balances)
	}
}

func TestPlayLossCreditsNothing(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	runtime := newTestRuntime(t, bridge, losingEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	resp, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if resp.Result.IsWin {
		t.Error("loss reported as win")
	}
	if resp.Result.Rewards != nil {
		t.Errorf("loss rewards = %v, want nil", resp.Result.Rewards)
	}
	if len(bridge.Movements()) != 1 {
		t.Errorf("recorded %d movements, want only the stake debit", len(bridge.Movements()))
	}
}

func TestPlayZeroBasisWinReportsZeroMap(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	cfg := testConfig()
	cfg.Payouts.Rewards["cherry"] = game.RewardBasis{}

	registry := game.NewRegistry()
	registry.Register(&game.GameDefinition{StudioID: "studio-1", GameID: "game-1", Config: cfg})

	runtime := NewRuntime(RuntimeConfig{
		Registry: registry,
		Strategy: random.NewProvablyFair(random.NewMemoryVault(), zerolog.Nop()),
		Bridge:   bridge,
		Engine:   winningEngine(),
		Resolver: settle.NewResolver(bridge, zerolog.Nop()),
		Logger:   zerolog.Nop(),
	})
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	resp, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !resp.Result.IsWin {
		t.Fatal("win reported as loss")
	}
	// Distinct from a loss: the map is present, every entry zero.
	if resp.Result.Rewards == nil {
		t.Fatal("zero-basis win rewards = nil, want the zero map")
	}
	for cur, amount := range resp.Result.Rewards {
		if amount != 0 {
			t.Errorf("reward %s = %d, want 0", cur, amount)
		}
	}
	if len(bridge.Movements()) != 1 {
		t.Errorf("recorded %d movements, want only the stake debit", len(bridge.Movements()))
	}
}

func TestInitCommitMatchesPlayReveal(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	runtime := newTestRuntime(t, bridge, losingEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}
	ctx := context.Background()

	initResp, err := runtime.Init(ctx, player, InitRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if initResp.Balances["SPINS"] != 5 {
		t.Errorf("Init balances = %v, want SPINS=5", initResp.Balances)
	}
	if initResp.Randomness.Hash == "" {
		t.Fatal("Init returned empty commitment hash")
	}

	playResp, err := runtime.Play(ctx, player, PlayRequest{StudioID: "studio-1", GameID: "game-1", ClientSeed: "client"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	reveal := playResp.Randomness
	if reveal.Hash != initResp.Randomness.Hash {
		t.Errorf("revealed hash = %s, committed %s", reveal.Hash, initResp.Randomness.Hash)
	}
	if !random.Verify(reveal.ServerSeed, reveal.Hash) {
		t.Error("revealed seed does not verify against committed hash")
	}
	if reveal.ClientSeed != "client" {
		t.Errorf("client seed = %s, want client", reveal.ClientSeed)
	}
	if reveal.NextHash == "" {
		t.Error("reveal missing next commitment hash")
	}

	// The chained commitment is consumed by the following spin.
	playResp2, err := runtime.Play(ctx, player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("second Play() error = %v", err)
	}
	if playResp2.Randomness.Hash != reveal.NextHash {
		t.Errorf("second spin hash = %s, want chained %s", playResp2.Randomness.Hash, reveal.NextHash)
	}
}

func TestPlayWithoutInitStillVerifiable(t *testing.T) {
	bridge := ledger.NewMemoryLedger()
	bridge.Seed("p1", "SPINS", 5)

	runtime := newTestRuntime(t, bridge, losingEngine())
	player := &game.PlayerContext{PlayerID: "p1", Currency: "SPINS"}

	resp, err := runtime.Play(context.Background(), player, PlayRequest{StudioID: "studio-1", GameID: "game-1"})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if !random.Verify(resp.Randomness.ServerSeed, resp.Randomness.Hash) {
		t.Error("uncommitted spin reveal does not self-verify")
	}
}

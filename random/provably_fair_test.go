package random

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
)

func testPlayer() *game.PlayerContext {
	return &game.PlayerContext{PlayerID: "player-1", SessionID: "session-1", Currency: "SPINS"}
}

func testDefinition() *game.GameDefinition {
	return &game.GameDefinition{StudioID: "studio-1", GameID: "game-1"}
}

func TestCommitHashMatchesRevealedSeed(t *testing.T) {
	vault := NewMemoryVault()
	strategy := NewProvablyFair(vault, zerolog.Nop())
	ctx := context.Background()

	commitment, err := strategy.Commit(ctx, testPlayer(), testDefinition())
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if commitment.Hash == "" {
		t.Fatal("Commit() returned empty hash")
	}

	spin, err := strategy.PrepareSpin(ctx, testPlayer(), testDefinition(), "client-seed")
	if err != nil {
		t.Fatalf("PrepareSpin() error = %v", err)
	}

	if spin.Hash != commitment.Hash {
		t.Errorf("revealed hash = %s, committed hash = %s", spin.Hash, commitment.Hash)
	}
	if !Verify(spin.ServerSeed, commitment.Hash) {
		t.Error("Verify() = false for revealed seed against committed hash")
	}
	if spin.CombinedSeed != spin.ServerSeed+":client-seed" {
		t.Errorf("CombinedSeed = %s, want serverSeed:clientSeed", spin.CombinedSeed)
	}
}

func TestCommitmentIsSingleUse(t *testing.T) {
	vault := NewMemoryVault()
	strategy := NewProvablyFair(vault, zerolog.Nop())
	ctx := context.Background()

	commitment, err := strategy.Commit(ctx, testPlayer(), testDefinition())
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	first, err := strategy.PrepareSpin(ctx, testPlayer(), testDefinition(), "seed-a")
	if err != nil {
		t.Fatalf("PrepareSpin() error = %v", err)
	}
	second, err := strategy.PrepareSpin(ctx, testPlayer(), testDefinition(), "seed-a")
	if err != nil {
		t.Fatalf("PrepareSpin() error = %v", err)
	}

	if first.Hash != commitment.Hash {
		t.Errorf("first spin hash = %s, want committed %s", first.Hash, commitment.Hash)
	}
	if second.ServerSeed == first.ServerSeed {
		t.Error("second spin reused the consumed server seed")
	}
	if second.Hash != first.NextHash {
		t.Errorf("second spin hash = %s, want chained NextHash %s", second.Hash, first.NextHash)
	}
}

func TestPrepareSpinWithoutCommit(t *testing.T) {
	vault := NewMemoryVault()
	strategy := NewProvablyFair(vault, zerolog.Nop())

	spin, err := strategy.PrepareSpin(context.Background(), testPlayer(), testDefinition(), "")
	if err != nil {
		t.Fatalf("PrepareSpin() error = %v", err)
	}
	if spin.ServerSeed == "" {
		t.Fatal("PrepareSpin() minted empty server seed")
	}
	if spin.ClientSeed == "" {
		t.Error("PrepareSpin() left client seed empty")
	}
	if !Verify(spin.ServerSeed, spin.Hash) {
		t.Error("minted seed does not verify against its own hash")
	}
}

func TestRNGDeterministicReplay(t *testing.T) {
	const serverSeed = "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"
	const clientSeed = "my-client-seed"

	first := NewRNG(serverSeed, clientSeed)
	second := NewRNG(serverSeed, clientSeed)

	for i := 0; i < 256; i++ {
		a, b := first(), second()
		if a != b {
			t.Fatalf("draw %d diverged: %v != %v", i, a, b)
		}
		if a < 0 || a >= 1 {
			t.Fatalf("draw %d = %v, want [0,1)", i, a)
		}
	}
}

func TestRNGClientSeedChangesStream(t *testing.T) {
	const serverSeed = "0000000000000000000000000000000000000000000000000000000000000001"

	a := Floats(serverSeed, "client-a", 8)
	b := Floats(serverSeed, "client-b", 8)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different client seeds produced identical streams")
	}
}

func TestFloatsMatchesRNG(t *testing.T) {
	const serverSeed = "f00d"
	const clientSeed = "cafe"

	rng := NewRNG(serverSeed, clientSeed)
	batch := Floats(serverSeed, clientSeed, 16)

	for i, want := range batch {
		if got := rng(); got != want {
			t.Fatalf("Floats()[%d] = %v, rng() = %v", i, want, got)
		}
	}
}

func TestMemoryVaultTakeRemoves(t *testing.T) {
	vault := NewMemoryVault()
	ctx := context.Background()

	if err := vault.Put(ctx, "k", "seed"); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	seed, ok, err := vault.Take(ctx, "k")
	if err != nil || !ok || seed != "seed" {
		t.Fatalf("Take() = (%q, %v, %v), want (seed, true, nil)", seed, ok, err)
	}

	_, ok, err = vault.Take(ctx, "k")
	if err != nil {
		t.Fatalf("second Take() error = %v", err)
	}
	if ok {
		t.Error("second Take() found a consumed seed")
	}
}

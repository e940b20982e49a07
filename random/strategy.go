package random

import (
	"context"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
)

// Strategy type identifiers surfaced to clients.
const (
	TypeProvablyFair = "PF"
	TypeVRF          = "VRF"
	TypeOnChain      = "ON_CHAIN"
)

// Commitment is the hash published before any RNG use. Single-use per
// spin cycle: the next PrepareSpin for the same player+game consumes it.
type Commitment struct {
	Hash string `json:"hash"`
}

// SpinContext is the revealed seed material for one spin plus the derived
// RNG. RNG is a pure function of CombinedSeed: same seeds, same sequence.
// NextHash, when set, is the commitment for the following spin cycle.
type SpinContext struct {
	ServerSeed   string `json:"serverSeed"`
	ClientSeed   string `json:"clientSeed"`
	CombinedSeed string `json:"combinedSeed"`
	Hash         string `json:"hash"`
	NextHash     string `json:"nextHash,omitempty"`

	RNG func() float64 `json:"-"`
}

// Strategy is the commit/reveal capability. Implementations differ by proof
// mechanism (provably-fair hash chain, VRF, on-chain beacon) but share this
// contract; the orchestrator holds exactly one, selected at startup.
type Strategy interface {
	// Type returns the strategy type identifier (PF, VRF, ON_CHAIN).
	Type() string

	// Config returns metadata clients need for independent verification.
	Config() map[string]interface{}

	// Commit produces a hash binding the future seed choice without
	// revealing it. Called once per init.
	Commit(ctx context.Context, player *game.PlayerContext, def *game.GameDefinition) (*Commitment, error)

	// PrepareSpin reveals the seed material and derives the RNG. If
	// clientSeed is empty the strategy generates one and includes it in
	// the returned context so the player can verify afterwards.
	PrepareSpin(ctx context.Context, player *game.PlayerContext, def *game.GameDefinition, clientSeed string) (*SpinContext, error)
}

package random

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
)

// ProvablyFair implements the hash-commit scheme: the SHA-256 of the
// server seed is published before play, then the seed is revealed with
// the spin so the outcome can be re-derived by anyone.
type ProvablyFair struct {
	vault  SeedVault
	logger zerolog.Logger
}

// NewProvablyFair creates a provably-fair strategy backed by the given vault.
func NewProvablyFair(vault SeedVault, logger zerolog.Logger) *ProvablyFair {
	return &ProvablyFair{
		vault:  vault,
		logger: logger.With().Str("component", "randomness_pf").Logger(),
	}
}

// Type returns the strategy type identifier.
func (s *ProvablyFair) Type() string {
	return TypeProvablyFair
}

// Config returns the verification metadata surfaced to clients.
func (s *ProvablyFair) Config() map[string]interface{} {
	return map[string]interface{}{
		"scheme":    "hash-commit",
		"hash":      "sha256",
		"stream":    "hmac-sha256(serverSeed, clientSeed:round)",
		"floatSize": 4,
	}
}

// Commit mints a fresh server seed, stores it as pending for the
// player+game, and returns its hash.
func (s *ProvablyFair) Commit(ctx context.Context, player *game.PlayerContext, def *game.GameDefinition) (*Commitment, error) {
	seed, err := newServerSeed()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to generate server seed")
	}

	if err := s.vault.Put(ctx, vaultKey(player, def), seed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to store commitment")
	}

	hash := HashSeed(seed)
	s.logger.Debug().
		Str("player_id", player.PlayerID).
		Str("game_id", def.GameID).
		Str("hash", hash).
		Msg("Randomness committed")

	return &Commitment{Hash: hash}, nil
}

// PrepareSpin consumes the pending commitment (minting a fresh seed when
// none is pending, i.e. play without a prior init), derives the RNG, and
// commits the next cycle so NextHash is already published.
func (s *ProvablyFair) PrepareSpin(ctx context.Context, player *game.PlayerContext, def *game.GameDefinition, clientSeed string) (*SpinContext, error) {
	key := vaultKey(player, def)

	serverSeed, ok, err := s.vault.Take(ctx, key)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to load commitment")
	}
	if !ok {
		// No pending commitment: the hash is revealed with the spin
		// instead of ahead of it, still verifiable after the fact.
		serverSeed, err = newServerSeed()
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to generate server seed")
		}
	}

	if clientSeed == "" {
		clientSeed = uuid.NewString()
	}

	// Chain the next commitment so the reveal payload carries the hash
	// the following spin will be played under.
	nextSeed, err := newServerSeed()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to generate next server seed")
	}
	if err := s.vault.Put(ctx, key, nextSeed); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrRandomnessUnavailable, "failed to store next commitment")
	}

	return &SpinContext{
		ServerSeed:   serverSeed,
		ClientSeed:   clientSeed,
		CombinedSeed: CombineSeeds(serverSeed, clientSeed),
		Hash:         HashSeed(serverSeed),
		NextHash:     HashSeed(nextSeed),
		RNG:          NewRNG(serverSeed, clientSeed),
	}, nil
}

// HashSeed returns the hex SHA-256 commitment hash of a server seed.
func HashSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// CombineSeeds returns the combined seed string included in reveal payloads.
func CombineSeeds(serverSeed, clientSeed string) string {
	return serverSeed + ":" + clientSeed
}

// Verify recomputes the commitment hash from a revealed server seed and
// reports whether it matches the published hash.
func Verify(serverSeed, hash string) bool {
	return HashSeed(serverSeed) == hash
}

func newServerSeed() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("entropy source failed: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func vaultKey(player *game.PlayerContext, def *game.GameDefinition) string {
	return fmt.Sprintf("seed:%s:%s:%s", def.StudioID, def.GameID, player.PlayerID)
}

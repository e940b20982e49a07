package provider

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/auth"
	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
)

// PlayerProvider resolves the authenticated player for a request.
type PlayerProvider interface {
	Resolve(c *gin.Context) (*game.PlayerContext, error)
}

// JWTPlayerProvider resolves the player from JWT claims set by the
// auth middleware.
type JWTPlayerProvider struct {
	logger zerolog.Logger
}

// NewJWTPlayerProvider creates a JWT-backed player provider.
func NewJWTPlayerProvider(logger zerolog.Logger) *JWTPlayerProvider {
	return &JWTPlayerProvider{
		logger: logger.With().Str("component", "player_provider").Logger(),
	}
}

func (p *JWTPlayerProvider) Resolve(c *gin.Context) (*game.PlayerContext, error) {
	playerID, ok := auth.GetPlayerID(c)
	if !ok || playerID == "" {
		return nil, apperrors.New(apperrors.ErrPlayerUnauthorized, "player identity missing from session")
	}

	sessionID, _ := auth.GetSessionID(c)
	currency, _ := auth.GetCurrency(c)

	return &game.PlayerContext{
		PlayerID:  playerID,
		SessionID: sessionID,
		Currency:  currency,
	}, nil
}

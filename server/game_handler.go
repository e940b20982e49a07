package server

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/game"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/random"
)

// GameHandler handles the settlement HTTP endpoints
//
// Flow: HTTP Request -> routes -> GameHandler -> Runtime
//
// Responsibilities:
// - Resolve the player from the JWT session
// - Validate request parameters
// - Call the runtime for orchestration
// - Format and return HTTP responses
type GameHandler struct {
	app    *App
	logger zerolog.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(app *App) *GameHandler {
	return &GameHandler{
		app:    app,
		logger: app.logger.With().Str("handler", "game").Logger(),
	}
}

func (h *GameHandler) resolvePlayer(c *gin.Context) (*game.PlayerContext, bool) {
	player, err := h.app.players.Resolve(c)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to resolve player")
		Unauthorized(c, errors.New(errors.ErrPlayerUnauthorized, "Invalid or missing authentication token"))
		return nil, false
	}
	return player, true
}

// Init godoc
// @Summary      Initialize game session
// @Description  Commits the randomness for the next spin and returns game config plus balance
// @Tags         game
// @Accept       json
// @Produce      json
// @Param        request  body      InitRequest  true  "Game identity"
// @Success      200  {object}  BaseResponse{data=InitResponse}
// @Failure      401  {object}  BaseResponse
// @Failure      404  {object}  BaseResponse
// @Security     BearerAuth
// @Router       /api/game/init [post]
func (h *GameHandler) Init(c *gin.Context) {
	player, ok := h.resolvePlayer(c)
	if !ok {
		return
	}

	var req InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid request body"))
		return
	}

	resp, err := h.app.runtime.Init(c.Request.Context(), player, req)
	if err != nil {
		h.logger.Error().Err(err).Str("game_id", req.GameID).Msg("Init failed")
		HandleAppError(c, err)
		return
	}

	OK(c, resp)
}

// Play godoc
// @Summary      Play one spin
// @Description  Debits the stake, evaluates the grid and settles rewards in one round trip
// @Tags         game
// @Accept       json
// @Produce      json
// @Param        request  body      PlayRequest  true  "Spin request"
// @Success      200  {object}  BaseResponse{data=PlayResponse}
// @Failure      400  {object}  BaseResponse
// @Failure      401  {object}  BaseResponse
// @Failure      404  {object}  BaseResponse
// @Security     BearerAuth
// @Router       /api/game/play [post]
func (h *GameHandler) Play(c *gin.Context) {
	player, ok := h.resolvePlayer(c)
	if !ok {
		return
	}

	var req PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid request body"))
		return
	}

	resp, err := h.app.runtime.Play(c.Request.Context(), player, req)
	if err != nil {
		h.logger.Warn().Err(err).Str("game_id", req.GameID).Str("player_id", player.PlayerID).Msg("Play failed")
		HandleAppError(c, err)
		return
	}

	OK(c, resp)
}

// VerifyRequest asks for a revealed seed to be checked against its commitment.
type VerifyRequest struct {
	ServerSeed string `json:"serverSeed" binding:"required"`
	Hash       string `json:"hash" binding:"required"`
	ClientSeed string `json:"clientSeed"`
	Count      int    `json:"count"`
}

// VerifyResponse reports the verification outcome and the replayed draws.
type VerifyResponse struct {
	Valid  bool      `json:"valid"`
	Hash   string    `json:"hash"`
	Floats []float64 `json:"floats,omitempty"`
}

const maxVerifyFloats = 1024

// Verify godoc
// @Summary      Verify a revealed seed
// @Description  Recomputes the commitment hash and optionally replays the random draws
// @Tags         game
// @Accept       json
// @Produce      json
// @Param        request  body      VerifyRequest  true  "Reveal payload"
// @Success      200  {object}  BaseResponse{data=VerifyResponse}
// @Failure      400  {object}  BaseResponse
// @Router       /api/game/verify [post]
func (h *GameHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, errors.Wrap(err, errors.ErrInvalidRequest, "Invalid request body"))
		return
	}
	if req.Count < 0 || req.Count > maxVerifyFloats {
		BadRequest(c, errors.New(errors.ErrInvalidRequest, "count out of range"))
		return
	}

	resp := VerifyResponse{
		Valid: random.Verify(req.ServerSeed, req.Hash),
		Hash:  random.HashSeed(req.ServerSeed),
	}
	if resp.Valid && req.Count > 0 && req.ClientSeed != "" {
		resp.Floats = random.Floats(req.ServerSeed, req.ClientSeed, req.Count)
	}

	OK(c, resp)
}

// Games godoc
// @Summary      List available games
// @Description  Returns the registered game identities
// @Tags         game
// @Produce      json
// @Success      200  {object}  BaseResponse
// @Router       /api/games [get]
func (h *GameHandler) Games(c *gin.Context) {
	defs := h.app.registry.All()
	out := make([]gin.H, 0, len(defs))
	for _, def := range defs {
		out = append(out, gin.H{
			"studioId": def.StudioID,
			"gameId":   def.GameID,
		})
	}
	OK(c, out)
}

package ledger

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/config"
	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/httpclient"
)

// HTTPLedger is a Bridge backed by the external ledger service.
type HTTPLedger struct {
	client *httpclient.Client
	logger zerolog.Logger
}

// NewHTTPLedger creates a ledger bridge talking to the configured
// ledger service over HTTP.
func NewHTTPLedger(cfg config.LedgerConfig, logger zerolog.Logger) *HTTPLedger {
	headers := map[string]string{}
	if cfg.APIKey != "" {
		headers["X-API-Key"] = cfg.APIKey
	}

	return &HTTPLedger{
		client: httpclient.New(httpclient.Config{
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Logger:  logger,
			Headers: headers,
		}),
		logger: logger.With().Str("component", "http_ledger").Logger(),
	}
}

type balanceEnvelope struct {
	Data BalanceSnapshot `json:"data"`
}

func (l *HTTPLedger) Balance(ctx context.Context, req BalanceRequest) (*BalanceSnapshot, error) {
	var result balanceEnvelope
	path := "/ledger/balance?player_id=" + req.PlayerID + "&currency=" + req.Currency
	if err := l.client.GetJSON(ctx, path, nil, &result); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to read balance")
	}
	return &result.Data, nil
}

func (l *HTTPLedger) Debit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.move(ctx, "/ledger/debit", req)
}

func (l *HTTPLedger) Credit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.move(ctx, "/ledger/credit", req)
}

func (l *HTTPLedger) move(ctx context.Context, path string, req MovementRequest) (*BalanceSnapshot, error) {
	resp, err := l.client.Post(ctx, path, req, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "ledger service unreachable")
	}

	switch {
	case resp.IsSuccess():
		var result balanceEnvelope
		if err := resp.Unmarshal(&result); err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "malformed ledger response")
		}
		return &result.Data, nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusConflict:
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "insufficient balance")
	default:
		l.logger.Error().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("transaction_id", req.TransactionID).
			Msg("Ledger movement rejected")
		return nil, apperrors.NewWithDebug(apperrors.ErrLedgerError, "ledger movement failed", string(resp.Body))
	}
}

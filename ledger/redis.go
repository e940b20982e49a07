package ledger

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/db/redis"
	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
)

// RedisLedger is a Bridge backed by Redis hashes, used in environments
// where the real ledger service is not reachable. Balances live under
// one hash per player and applied transaction ids are tracked with an
// expiring marker key.
type RedisLedger struct {
	client *redis.Client
	txnTTL time.Duration
	logger zerolog.Logger
}

// NewRedisLedger creates a Redis-backed ledger bridge.
func NewRedisLedger(client *redis.Client, txnTTL time.Duration, logger zerolog.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		txnTTL: txnTTL,
		logger: logger.With().Str("component", "redis_ledger").Logger(),
	}
}

func (l *RedisLedger) Balance(ctx context.Context, req BalanceRequest) (*BalanceSnapshot, error) {
	raw, found, err := l.client.HGet(ctx, hashKey(req.PlayerID), req.Currency)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to read balance")
	}

	var amount int64
	if found {
		amount, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "corrupt balance value")
		}
	}

	return &BalanceSnapshot{PlayerID: req.PlayerID, Currency: req.Currency, Amount: amount}, nil
}

func (l *RedisLedger) Debit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.apply(ctx, "debit", req, -req.Amount)
}

func (l *RedisLedger) Credit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.apply(ctx, "credit", req, req.Amount)
}

// Seed sets a player balance directly, for local bootstrapping.
func (l *RedisLedger) Seed(ctx context.Context, playerID, currency string, amount int64) error {
	return l.client.GetClient().HSet(ctx, hashKey(playerID), currency, amount).Err()
}

func (l *RedisLedger) apply(ctx context.Context, kind string, req MovementRequest, delta int64) (*BalanceSnapshot, error) {
	if req.Amount < 0 {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "movement amount must not be negative")
	}

	fresh, err := l.client.SetNX(ctx, txnKey(req.TransactionID, req.Currency, kind), req.RoundID, l.txnTTL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to record transaction")
	}
	if !fresh {
		l.logger.Warn().
			Str("transaction_id", req.TransactionID).
			Str("currency", req.Currency).
			Str("kind", kind).
			Msg("Duplicate transaction ignored")
		return l.Balance(ctx, BalanceRequest{PlayerID: req.PlayerID, Currency: req.Currency})
	}

	next, err := l.client.HIncrBy(ctx, hashKey(req.PlayerID), req.Currency, delta)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrLedgerError, "failed to apply movement")
	}
	if next < 0 {
		// Roll the overdraw back rather than leaving a negative balance.
		if _, rbErr := l.client.HIncrBy(ctx, hashKey(req.PlayerID), req.Currency, -delta); rbErr != nil {
			l.logger.Error().Err(rbErr).
				Str("player_id", req.PlayerID).
				Str("currency", req.Currency).
				Msg("Failed to roll back overdraw")
		}
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "insufficient balance")
	}

	return &BalanceSnapshot{PlayerID: req.PlayerID, Currency: req.Currency, Amount: next}, nil
}

func hashKey(playerID string) string {
	return "ledger:balance:" + playerID
}

func txnKey(transactionID, currency, kind string) string {
	return "ledger:txn:" + transactionID + ":" + currency + ":" + kind
}

package ledger

import (
	"context"
	"sync"

	apperrors "github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
)

// Movement is a recorded ledger entry, kept in order of application.
type Movement struct {
	Kind    string // "debit" or "credit"
	Request MovementRequest
}

// MemoryLedger is an in-process Bridge used by tests and local runs.
// It records every movement it applies so callers can assert on the
// exact sequence of debits and credits.
type MemoryLedger struct {
	mu        sync.Mutex
	balances  map[string]int64 // playerID:currency
	seen      map[string]bool  // transactionID:currency:kind
	movements []Movement
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]int64),
		seen:     make(map[string]bool),
	}
}

// Seed sets a player balance directly, bypassing movement recording.
func (l *MemoryLedger) Seed(playerID, currency string, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey(playerID, currency)] = amount
}

func (l *MemoryLedger) Balance(ctx context.Context, req BalanceRequest) (*BalanceSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return &BalanceSnapshot{
		PlayerID: req.PlayerID,
		Currency: req.Currency,
		Amount:   l.balances[balanceKey(req.PlayerID, req.Currency)],
	}, nil
}

func (l *MemoryLedger) Debit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.apply(ctx, "debit", req, -req.Amount)
}

func (l *MemoryLedger) Credit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error) {
	return l.apply(ctx, "credit", req, req.Amount)
}

// Movements returns a copy of the recorded movement log.
func (l *MemoryLedger) Movements() []Movement {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Movement, len(l.movements))
	copy(out, l.movements)
	return out
}

func (l *MemoryLedger) apply(_ context.Context, kind string, req MovementRequest, delta int64) (*BalanceSnapshot, error) {
	if req.Amount < 0 {
		return nil, apperrors.New(apperrors.ErrInvalidRequest, "movement amount must not be negative")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := balanceKey(req.PlayerID, req.Currency)
	txnKey := req.TransactionID + ":" + req.Currency + ":" + kind
	if l.seen[txnKey] {
		return &BalanceSnapshot{PlayerID: req.PlayerID, Currency: req.Currency, Amount: l.balances[key]}, nil
	}

	next := l.balances[key] + delta
	if next < 0 {
		return nil, apperrors.New(apperrors.ErrInsufficientBalance, "insufficient balance")
	}

	l.balances[key] = next
	l.seen[txnKey] = true
	l.movements = append(l.movements, Movement{Kind: kind, Request: req})

	return &BalanceSnapshot{PlayerID: req.PlayerID, Currency: req.Currency, Amount: next}, nil
}

func balanceKey(playerID, currency string) string {
	return playerID + ":" + currency
}

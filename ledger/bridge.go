// Package ledger bridges the game runtime to the external balance
// system of record. Amounts are int64 in the smallest currency unit
// and every movement carries a transaction id for idempotency.
package ledger

import "context"

// BalanceRequest identifies a player balance to read.
type BalanceRequest struct {
	PlayerID string `json:"playerId"`
	Currency string `json:"currency"`
}

// BalanceSnapshot is a point-in-time balance read. It is advisory: the
// ledger is the system of record and concurrent movements may land
// between a read and a subsequent debit.
type BalanceSnapshot struct {
	PlayerID string `json:"playerId"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// MovementRequest describes a single debit or credit.
type MovementRequest struct {
	PlayerID      string `json:"playerId"`
	Currency      string `json:"currency"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transactionId"`
	RoundID       string `json:"roundId"`
	GameID        string `json:"gameId"`
}

// Bridge is the balance ledger contract. Implementations must treat
// TransactionID as an idempotency key and reject debits that would
// take a balance negative.
type Bridge interface {
	Balance(ctx context.Context, req BalanceRequest) (*BalanceSnapshot, error)
	Debit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error)
	Credit(ctx context.Context, req MovementRequest) (*BalanceSnapshot, error)
}

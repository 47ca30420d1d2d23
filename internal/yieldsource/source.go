// Package yieldsource abstracts the external yield-bearing pool the vault
// commits its float to. The pool accepts the underlying asset, mints a
// receipt ("ticket") token, and charges an early-exit fee on redemptions.
package yieldsource

import (
	"context"
	"errors"

	"cosmossdk.io/math"
)

// ErrFeeExceedsBound is returned by Redeem when the fee charged at execution
// time would exceed the caller-supplied bound. The redemption has no effect.
var ErrFeeExceedsBound = errors.New("yieldsource: exit fee exceeds bound")

// Source defines the interface for the external yield source.
type Source interface {
	// Deposit commits amount of the underlying asset from account into the
	// pool and mints receipt tokens to account. Returns the receipt actually
	// minted, which may be less than amount if the pool charges a deposit fee.
	Deposit(ctx context.Context, account string, amount math.Int) (math.Int, error)

	// Redeem burns amount of account's receipt tokens and returns the
	// underlying minus the early-exit fee to account. Fails with
	// ErrFeeExceedsBound, leaving all balances untouched, if the fee at
	// execution time exceeds maxFee. Returns the fee charged.
	Redeem(ctx context.Context, account string, amount math.Int, maxFee math.Int) (math.Int, error)

	// EarlyExitFee quotes the fee for redeeming amount right now. Read-only;
	// the quote can go stale before a subsequent Redeem executes.
	EarlyExitFee(ctx context.Context, amount math.Int) (math.Int, error)

	Name() string
}

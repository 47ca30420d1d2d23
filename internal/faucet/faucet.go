// Package faucet abstracts the external reward faucet that periodically
// credits the vault with secondary reward tokens proportional to its
// yield-receipt holdings.
package faucet

import (
	"context"

	"cosmossdk.io/math"
)

// Faucet defines the interface for claiming pending reward tokens.
type Faucet interface {
	// Claim pulls all reward tokens currently owed to account into account's
	// balance and returns the amount. Zero is a valid result.
	Claim(ctx context.Context, account string) (math.Int, error)

	Name() string
}

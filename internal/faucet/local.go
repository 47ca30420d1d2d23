package faucet

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"PodVault/internal/token"
)

// Local is an in-process faucet operating directly on the reward book.
// Pending credits are staged with Credit and handed out on Claim.
type Local struct {
	reward  *token.Book
	account string // faucet reserve account
	pending map[string]math.Int
}

// NewLocal creates a local faucet with its reserve under account.
func NewLocal(reward *token.Book, account string) *Local {
	return &Local{reward: reward, account: account, pending: make(map[string]math.Int)}
}

func (f *Local) Name() string { return "local" }

// Credit mints amount into the faucet reserve and marks it pending for account.
func (f *Local) Credit(account string, amount math.Int) {
	f.reward.Mint(f.account, amount)
	cur, ok := f.pending[account]
	if !ok {
		cur = math.ZeroInt()
	}
	f.pending[account] = cur.Add(amount)
}

func (f *Local) Claim(ctx context.Context, account string) (math.Int, error) {
	owed, ok := f.pending[account]
	if !ok || owed.IsZero() {
		return math.ZeroInt(), nil
	}
	if err := f.reward.Transfer(f.account, account, owed); err != nil {
		return math.ZeroInt(), fmt.Errorf("faucet claim: %w", err)
	}
	f.pending[account] = math.ZeroInt()
	return owed, nil
}

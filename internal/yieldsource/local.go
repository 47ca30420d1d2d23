package yieldsource

import (
	"context"
	"fmt"

	"cosmossdk.io/math"

	"PodVault/internal/token"
)

// Local is an in-process yield source operating directly on the token books.
// It charges a flat basis-point early-exit fee and is used in standalone mode
// and in tests; the production deployment talks to a remote pool over HTTP.
type Local struct {
	underlying *token.Book
	ticket     *token.Book
	account    string // the pool's reserve account on the underlying book
	exitFeeBps int64
}

// NewLocal creates a local source holding its reserve under account.
func NewLocal(underlying, ticket *token.Book, account string, exitFeeBps int64) *Local {
	return &Local{
		underlying: underlying,
		ticket:     ticket,
		account:    account,
		exitFeeBps: exitFeeBps,
	}
}

func (l *Local) Name() string { return "local" }

func (l *Local) Deposit(ctx context.Context, account string, amount math.Int) (math.Int, error) {
	if err := l.underlying.Transfer(account, l.account, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("source deposit: %w", err)
	}
	// 1:1 receipt, no deposit fee.
	l.ticket.Mint(account, amount)
	return amount, nil
}

func (l *Local) Redeem(ctx context.Context, account string, amount math.Int, maxFee math.Int) (math.Int, error) {
	fee := l.fee(amount)
	if fee.GT(maxFee) {
		return math.ZeroInt(), fmt.Errorf("%w: fee %s, bound %s", ErrFeeExceedsBound, fee, maxFee)
	}
	if err := l.ticket.Burn(account, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("source redeem: %w", err)
	}
	if err := l.underlying.Transfer(l.account, account, amount.Sub(fee)); err != nil {
		return math.ZeroInt(), fmt.Errorf("source redeem payout: %w", err)
	}
	return fee, nil
}

func (l *Local) EarlyExitFee(ctx context.Context, amount math.Int) (math.Int, error) {
	return l.fee(amount), nil
}

// SetExitFeeBps changes the fee curve, simulating external state moving
// between a quote and the redeem that follows it.
func (l *Local) SetExitFeeBps(bps int64) { l.exitFeeBps = bps }

// Accrue simulates yield: the pool mints extra receipt tokens to account and
// backs them with underlying in its reserve.
func (l *Local) Accrue(account string, amount math.Int) {
	l.ticket.Mint(account, amount)
	l.underlying.Mint(l.account, amount)
}

func (l *Local) fee(amount math.Int) math.Int {
	return amount.Mul(math.NewInt(l.exitFeeBps)).Quo(math.NewInt(10_000))
}

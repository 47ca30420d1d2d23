// Package tokendrop streams a reward asset to share holders using an
// exchange-rate accumulator: one global reward-per-share rate plus a lazy
// per-holder checkpoint, settled on interaction. Distribution is O(1) in the
// number of holders.
package tokendrop

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"

	"PodVault/internal/token"
)

var (
	// ErrInvalidMeasureToken is returned when constructed without a share ledger.
	ErrInvalidMeasureToken = errors.New("Pod:invalid-measure-token")
	// ErrInvalidAssetToken is returned when constructed without a reward asset book.
	ErrInvalidAssetToken = errors.New("Pod:invalid-asset-token")
)

// Measure is the read-only view of the share ledger the accumulator
// distributes against.
type Measure interface {
	BalanceOf(holder string) math.Int
	TotalSupply() math.Int
}

// UserState is a holder's checkpoint: reward already settled into the
// claimable balance, and the global rate at the last settlement.
type UserState struct {
	LastExchangeRateMantissa math.Int
	Balance                  math.Int
}

// TokenDrop is the reward accumulator attached to a pod.
type TokenDrop struct {
	measure Measure
	asset   *token.Book
	account string // the drop's own account on the reward book
	scale   math.Int

	exchangeRateMantissa math.Int
	totalUnclaimed       math.Int
	users                map[string]UserState
}

// New creates an accumulator distributing asset to holders of measure.
// account is the drop's own holding account on the reward book.
func New(measure Measure, asset *token.Book, account string) (*TokenDrop, error) {
	if measure == nil {
		return nil, ErrInvalidMeasureToken
	}
	if asset == nil || asset.Asset().IsZero() {
		return nil, ErrInvalidAssetToken
	}
	scale := math.NewIntWithDecimal(1, int(asset.Decimals()))
	return &TokenDrop{
		measure:              measure,
		asset:                asset,
		account:              account,
		scale:                scale,
		exchangeRateMantissa: math.ZeroInt(),
		totalUnclaimed:       math.ZeroInt(),
		users:                make(map[string]UserState),
	}, nil
}

// Measure returns the share ledger the accumulator distributes against.
func (d *TokenDrop) Measure() Measure { return d.measure }

// Asset returns the reward asset book.
func (d *TokenDrop) Asset() *token.Book { return d.asset }

// Account returns the drop's holding account on the reward book.
func (d *TokenDrop) Account() string { return d.account }

// ExchangeRateMantissa returns the cumulative reward-per-share rate.
func (d *TokenDrop) ExchangeRateMantissa() math.Int { return d.exchangeRateMantissa }

// TotalUnclaimed returns reward owed to holders but not yet paid out.
func (d *TokenDrop) TotalUnclaimed() math.Int { return d.totalUnclaimed }

// UserState returns the holder's checkpoint, zero-valued for holders that
// never interacted.
func (d *TokenDrop) UserState(holder string) UserState {
	if s, ok := d.users[holder]; ok {
		return s
	}
	return UserState{LastExchangeRateMantissa: math.ZeroInt(), Balance: math.ZeroInt()}
}

// Distribute folds any reward balance not yet accounted for into the
// exchange rate. When total share supply is zero the balance stays held but
// undistributed; a later call picks it up once supply exists. Returns the
// amount distributed.
func (d *TokenDrop) Distribute() math.Int {
	newTokens := d.asset.BalanceOf(d.account).Sub(d.totalUnclaimed)
	if !newTokens.IsPositive() {
		return math.ZeroInt()
	}
	supply := d.measure.TotalSupply()
	if supply.IsZero() {
		return math.ZeroInt()
	}
	d.exchangeRateMantissa = d.exchangeRateMantissa.Add(newTokens.Mul(d.scale).Quo(supply))
	d.totalUnclaimed = d.totalUnclaimed.Add(newTokens)
	return newTokens
}

// AddAssetToken pulls amount of the reward asset from the caller's account
// and routes it through Distribute.
func (d *TokenDrop) AddAssetToken(from string, amount math.Int) error {
	if err := d.asset.Transfer(from, d.account, amount); err != nil {
		return fmt.Errorf("add asset token: %w", err)
	}
	d.Distribute()
	return nil
}

// Settle folds the gap between the global rate and the holder's checkpoint
// into the holder's claimable balance. Must run against the holder's balance
// before any pending mint/burn/transfer is applied. Returns the newly owed
// amount; calling twice with no intervening change owes zero the second time.
func (d *TokenDrop) Settle(holder string) math.Int {
	state := d.UserState(holder)
	gap := d.exchangeRateMantissa.Sub(state.LastExchangeRateMantissa)
	owed := d.measure.BalanceOf(holder).Mul(gap).Quo(d.scale)
	state.Balance = state.Balance.Add(owed)
	state.LastExchangeRateMantissa = d.exchangeRateMantissa
	d.users[holder] = state
	return owed
}

// Claim settles the holder, pays out the claimable balance, and zeroes it.
// A zero payout is a valid, non-failing result.
func (d *TokenDrop) Claim(holder string) (math.Int, error) {
	d.Settle(holder)
	state := d.users[holder]
	paid := state.Balance
	if paid.IsZero() {
		return math.ZeroInt(), nil
	}
	if err := d.asset.Transfer(d.account, holder, paid); err != nil {
		return math.ZeroInt(), fmt.Errorf("claim payout: %w", err)
	}
	state.Balance = math.ZeroInt()
	d.users[holder] = state
	d.totalUnclaimed = d.totalUnclaimed.Sub(paid)
	return paid, nil
}

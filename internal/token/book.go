// Package token implements a fungible balance book: per-holder balances,
// a running total supply, and mint/burn/transfer operations.
//
// Books are not goroutine-safe. The pod engine serializes all access behind
// its own mutex, so every operation here runs to completion with no
// interleaving.
package token

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"

	"PodVault/internal/model"
)

// ErrInsufficientBalance is returned by Burn and Transfer when the source
// holder does not hold the requested amount.
var ErrInsufficientBalance = errors.New("token: insufficient balance")

// Hook runs before any balance mutation. For mints from is empty, for burns
// to is empty. Hooks observe pre-mutation balances, which is what the reward
// accumulator's settlement requires.
type Hook func(from, to string)

// Book tracks balances of a single asset across holder accounts.
type Book struct {
	asset    model.Asset
	decimals uint8
	balances map[string]math.Int
	supply   math.Int
	hook     Hook
}

// NewBook creates an empty book for the given asset.
func NewBook(asset model.Asset, decimals uint8) *Book {
	return &Book{
		asset:    asset,
		decimals: decimals,
		balances: make(map[string]math.Int),
		supply:   math.ZeroInt(),
	}
}

// SetHook installs the pre-mutation hook. At most one hook is supported;
// the pod installs the accumulator settlement routine here.
func (b *Book) SetHook(h Hook) { b.hook = h }

// Asset returns the asset identity this book tracks.
func (b *Book) Asset() model.Asset { return b.asset }

// Decimals returns the fixed decimal scale of the asset.
func (b *Book) Decimals() uint8 { return b.decimals }

// BalanceOf returns the holder's balance, zero for unknown holders.
func (b *Book) BalanceOf(holder string) math.Int {
	if v, ok := b.balances[holder]; ok {
		return v
	}
	return math.ZeroInt()
}

// TotalSupply returns the sum of all balances.
func (b *Book) TotalSupply() math.Int { return b.supply }

// Mint credits amount to holder and grows total supply.
func (b *Book) Mint(holder string, amount math.Int) {
	if amount.IsZero() {
		return
	}
	if b.hook != nil {
		b.hook("", holder)
	}
	b.balances[holder] = b.BalanceOf(holder).Add(amount)
	b.supply = b.supply.Add(amount)
}

// Burn debits amount from holder and shrinks total supply.
func (b *Book) Burn(holder string, amount math.Int) error {
	if b.BalanceOf(holder).LT(amount) {
		return fmt.Errorf("%w: %s holds %s, burn %s", ErrInsufficientBalance, holder, b.BalanceOf(holder), amount)
	}
	if b.hook != nil {
		b.hook(holder, "")
	}
	b.balances[holder] = b.balances[holder].Sub(amount)
	b.supply = b.supply.Sub(amount)
	return nil
}

// Transfer moves amount between holders.
func (b *Book) Transfer(from, to string, amount math.Int) error {
	if b.BalanceOf(from).LT(amount) {
		return fmt.Errorf("%w: %s holds %s, transfer %s", ErrInsufficientBalance, from, b.BalanceOf(from), amount)
	}
	if b.hook != nil {
		b.hook(from, to)
	}
	b.balances[from] = b.balances[from].Sub(amount)
	b.balances[to] = b.BalanceOf(to).Add(amount)
	return nil
}

package tokendrop

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"PodVault/internal/model"
	"PodVault/internal/token"
)

const dropAccount = "pod:drop"

func unit(n int64) math.Int {
	return math.NewInt(n).Mul(math.NewIntWithDecimal(1, 6))
}

func newTestDrop(t *testing.T) (*TokenDrop, *token.Book, *token.Book) {
	t.Helper()
	shares := token.NewBook(model.Asset("podUSDC"), 6)
	reward := token.NewBook(model.Asset("POOL"), 6)
	d, err := New(shares, reward, dropAccount)
	if err != nil {
		t.Fatalf("new token drop: %v", err)
	}
	return d, shares, reward
}

func TestConstructionValidation(t *testing.T) {
	reward := token.NewBook(model.Asset("POOL"), 6)
	if _, err := New(nil, reward, dropAccount); !errors.Is(err, ErrInvalidMeasureToken) {
		t.Errorf("expected ErrInvalidMeasureToken, got %v", err)
	}
	shares := token.NewBook(model.Asset("podUSDC"), 6)
	if _, err := New(shares, nil, dropAccount); !errors.Is(err, ErrInvalidAssetToken) {
		t.Errorf("expected ErrInvalidAssetToken, got %v", err)
	}
}

func TestInitialState(t *testing.T) {
	d, _, _ := newTestDrop(t)
	if !d.ExchangeRateMantissa().IsZero() {
		t.Errorf("expected zero exchange rate, got %s", d.ExchangeRateMantissa())
	}
	if !d.TotalUnclaimed().IsZero() {
		t.Errorf("expected zero unclaimed, got %s", d.TotalUnclaimed())
	}
	state := d.UserState("alice")
	if !state.Balance.IsZero() || !state.LastExchangeRateMantissa.IsZero() {
		t.Errorf("expected zero user state, got %+v", state)
	}
}

func TestZeroSupplyDeferral(t *testing.T) {
	d, shares, reward := newTestDrop(t)

	reward.Mint(dropAccount, unit(1000))
	if got := d.Distribute(); !got.IsZero() {
		t.Fatalf("expected deferred distribution, distributed %s", got)
	}
	if !d.ExchangeRateMantissa().IsZero() {
		t.Errorf("exchange rate moved with zero supply: %s", d.ExchangeRateMantissa())
	}
	if !d.TotalUnclaimed().IsZero() {
		t.Errorf("unclaimed grew with zero supply: %s", d.TotalUnclaimed())
	}

	// Once supply exists, the held balance is picked up.
	shares.Mint("alice", unit(1000))
	if got := d.Distribute(); !got.Equal(unit(1000)) {
		t.Fatalf("expected deferred 1000 distributed, got %s", got)
	}
	if !d.TotalUnclaimed().Equal(unit(1000)) {
		t.Errorf("expected unclaimed 1000, got %s", d.TotalUnclaimed())
	}
}

func TestProportionalDistribution(t *testing.T) {
	d, shares, reward := newTestDrop(t)

	shares.Mint("alice", unit(1000))
	shares.Mint("bob", unit(500))

	reward.Mint(dropAccount, unit(1000))
	if got := d.Distribute(); !got.Equal(unit(1000)) {
		t.Fatalf("expected 1000 distributed, got %s", got)
	}

	paidA, err := d.Claim("alice")
	if err != nil {
		t.Fatalf("claim alice: %v", err)
	}
	paidB, err := d.Claim("bob")
	if err != nil {
		t.Fatalf("claim bob: %v", err)
	}

	// rate = 1000e6 * 1e6 / 1500e6 = 666666; floor rounding leaves dust.
	if !paidA.Equal(math.NewInt(666_666_000)) {
		t.Errorf("alice paid %s, want 666666000", paidA)
	}
	if !paidB.Equal(math.NewInt(333_333_000)) {
		t.Errorf("bob paid %s, want 333333000", paidB)
	}

	dust := d.TotalUnclaimed()
	if dust.GT(unit(1)) {
		t.Errorf("rounding dust exceeds one unit: %s", dust)
	}
	if !reward.BalanceOf("alice").Equal(paidA) || !reward.BalanceOf("bob").Equal(paidB) {
		t.Errorf("payouts not reflected in reward balances")
	}
}

func TestSettleIdempotent(t *testing.T) {
	d, shares, reward := newTestDrop(t)

	shares.Mint("alice", unit(100))
	reward.Mint(dropAccount, unit(10))
	d.Distribute()

	first := d.Settle("alice")
	if !first.Equal(unit(10)) {
		t.Fatalf("first settle owed %s, want 10", first)
	}
	second := d.Settle("alice")
	if !second.IsZero() {
		t.Errorf("second settle owed %s, want 0", second)
	}
	if !d.UserState("alice").Balance.Equal(unit(10)) {
		t.Errorf("accrued balance %s, want 10", d.UserState("alice").Balance)
	}
}

func TestSettleBeforeBalanceChange(t *testing.T) {
	d, shares, reward := newTestDrop(t)

	shares.Mint("alice", unit(100))
	reward.Mint(dropAccount, unit(50))
	d.Distribute()

	// Settle against the pre-transfer balance, then move the shares.
	d.Settle("alice")
	d.Settle("bob")
	if err := shares.Transfer("alice", "bob", unit(100)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	reward.Mint(dropAccount, unit(50))
	d.Distribute()

	if paid, _ := d.Claim("alice"); !paid.Equal(unit(50)) {
		t.Errorf("alice paid %s, want 50 (first epoch only)", paid)
	}
	if paid, _ := d.Claim("bob"); !paid.Equal(unit(50)) {
		t.Errorf("bob paid %s, want 50 (second epoch only)", paid)
	}
}

func TestClaimZeroIsValid(t *testing.T) {
	d, shares, _ := newTestDrop(t)
	shares.Mint("alice", unit(1))

	paid, err := d.Claim("alice")
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if !paid.IsZero() {
		t.Errorf("expected zero payout, got %s", paid)
	}
}

func TestAddAssetToken(t *testing.T) {
	d, shares, reward := newTestDrop(t)

	shares.Mint("alice", unit(10))
	reward.Mint("owner", unit(100))

	if err := d.AddAssetToken("owner", unit(100)); err != nil {
		t.Fatalf("add asset token: %v", err)
	}
	if !d.TotalUnclaimed().Equal(unit(100)) {
		t.Errorf("unclaimed %s, want 100", d.TotalUnclaimed())
	}
	if err := d.AddAssetToken("owner", unit(1)); !errors.Is(err, token.ErrInsufficientBalance) {
		t.Errorf("expected insufficient balance, got %v", err)
	}
}

// checkConservation verifies that unclaimed reward equals the sum of settled
// and unsettled entitlements across holders, up to floor-rounding dust.
func checkConservation(t *testing.T, d *TokenDrop, shares *token.Book, holders []string) {
	t.Helper()
	scale := math.NewIntWithDecimal(1, 6)
	sum := math.ZeroInt()
	for _, h := range holders {
		state := d.UserState(h)
		gap := d.ExchangeRateMantissa().Sub(state.LastExchangeRateMantissa)
		sum = sum.Add(state.Balance).Add(shares.BalanceOf(h).Mul(gap).Quo(scale))
	}
	diff := d.TotalUnclaimed().Sub(sum)
	if diff.IsNegative() {
		t.Fatalf("entitlements %s exceed unclaimed %s", sum, d.TotalUnclaimed())
	}
	// Floor rounding loses at most supply/scale base units per distribution.
	if diff.GT(unit(1)) {
		t.Fatalf("conservation gap too large: unclaimed=%s entitlements=%s", d.TotalUnclaimed(), sum)
	}
}

func TestRewardConservationAcrossSequence(t *testing.T) {
	d, shares, reward := newTestDrop(t)
	holders := []string{"alice", "bob", "carol"}

	shares.Mint("alice", unit(300))
	reward.Mint(dropAccount, unit(30))
	d.Distribute()
	checkConservation(t, d, shares, holders)

	shares.Mint("bob", unit(700))
	d.Settle("bob")
	reward.Mint(dropAccount, unit(100))
	d.Distribute()
	checkConservation(t, d, shares, holders)

	if _, err := d.Claim("alice"); err != nil {
		t.Fatalf("claim alice: %v", err)
	}
	checkConservation(t, d, shares, holders)

	d.Settle("carol")
	shares.Mint("carol", unit(1))
	reward.Mint(dropAccount, unit(7))
	d.Distribute()
	checkConservation(t, d, shares, holders)

	for _, h := range holders {
		if _, err := d.Claim(h); err != nil {
			t.Fatalf("claim %s: %v", h, err)
		}
	}
	checkConservation(t, d, shares, holders)
}

package token

import (
	"errors"
	"testing"

	"cosmossdk.io/math"

	"PodVault/internal/model"
)

func TestMintBurnTransfer(t *testing.T) {
	b := NewBook(model.Asset("USDC"), 6)

	b.Mint("alice", math.NewInt(1000))
	if !b.BalanceOf("alice").Equal(math.NewInt(1000)) {
		t.Fatalf("expected alice balance 1000, got %s", b.BalanceOf("alice"))
	}
	if !b.TotalSupply().Equal(math.NewInt(1000)) {
		t.Fatalf("expected supply 1000, got %s", b.TotalSupply())
	}

	if err := b.Transfer("alice", "bob", math.NewInt(400)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !b.BalanceOf("bob").Equal(math.NewInt(400)) {
		t.Errorf("expected bob balance 400, got %s", b.BalanceOf("bob"))
	}
	if !b.TotalSupply().Equal(math.NewInt(1000)) {
		t.Errorf("transfer changed supply: %s", b.TotalSupply())
	}

	if err := b.Burn("bob", math.NewInt(400)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if !b.TotalSupply().Equal(math.NewInt(600)) {
		t.Errorf("expected supply 600 after burn, got %s", b.TotalSupply())
	}
}

func TestInsufficientBalance(t *testing.T) {
	b := NewBook(model.Asset("USDC"), 6)
	b.Mint("alice", math.NewInt(10))

	if err := b.Transfer("alice", "bob", math.NewInt(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	if err := b.Burn("alice", math.NewInt(11)); !errors.Is(err, ErrInsufficientBalance) {
		t.Errorf("expected ErrInsufficientBalance, got %v", err)
	}
	// Failed operations must leave balances untouched.
	if !b.BalanceOf("alice").Equal(math.NewInt(10)) {
		t.Errorf("failed ops mutated balance: %s", b.BalanceOf("alice"))
	}
}

func TestHookSeesPreMutationBalances(t *testing.T) {
	b := NewBook(model.Asset("pUSDC"), 6)
	b.Mint("alice", math.NewInt(100))

	var observed math.Int
	b.SetHook(func(from, to string) {
		observed = b.BalanceOf("alice")
	})

	if err := b.Transfer("alice", "bob", math.NewInt(60)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if !observed.Equal(math.NewInt(100)) {
		t.Errorf("hook observed post-mutation balance %s, want 100", observed)
	}

	if err := b.Burn("alice", math.NewInt(40)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if !observed.Equal(math.NewInt(40)) {
		t.Errorf("hook observed %s before burn, want 40", observed)
	}
}

func TestHookPartiesForMintAndBurn(t *testing.T) {
	b := NewBook(model.Asset("pUSDC"), 6)

	var gotFrom, gotTo string
	b.SetHook(func(from, to string) {
		gotFrom, gotTo = from, to
	})

	b.Mint("alice", math.NewInt(5))
	if gotFrom != "" || gotTo != "alice" {
		t.Errorf("mint hook: got (%q,%q), want (\"\",\"alice\")", gotFrom, gotTo)
	}

	if err := b.Burn("alice", math.NewInt(5)); err != nil {
		t.Fatalf("burn: %v", err)
	}
	if gotFrom != "alice" || gotTo != "" {
		t.Errorf("burn hook: got (%q,%q), want (\"alice\",\"\")", gotFrom, gotTo)
	}
}

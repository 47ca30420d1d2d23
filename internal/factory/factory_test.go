package factory

import (
	"errors"
	"testing"

	"PodVault/internal/model"
	"PodVault/internal/pod"
	"PodVault/internal/token"
	"PodVault/internal/tokendrop"
	"PodVault/internal/yieldsource"
)

func testConfig() (pod.Config, *token.Book) {
	underlying := token.NewBook(model.Asset("USDC"), 6)
	ticket := token.NewBook(model.Asset("pUSDC"), 6)
	reward := token.NewBook(model.Asset("POOL"), 6)
	shares := token.NewBook(model.Asset("podUSDC"), 6)
	source := yieldsource.NewLocal(underlying, ticket, "yield-source", 0)

	return pod.Config{
		Account:    "pod",
		Owner:      "owner",
		Manager:    "manager",
		Shares:     shares,
		Underlying: underlying,
		Ticket:     ticket,
		Reward:     reward,
		Source:     source,
	}, reward
}

func TestNewRequiresDropFactory(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrInvalidTokenDropFactory) {
		t.Errorf("expected ErrInvalidTokenDropFactory, got %v", err)
	}
}

func TestCreatePodWiresLinkedPair(t *testing.T) {
	f, err := New(tokendrop.New)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	cfg, reward := testConfig()

	p, drop, err := f.CreatePod(cfg)
	if err != nil {
		t.Fatalf("create pod: %v", err)
	}
	if drop == nil {
		t.Fatal("expected an attached token drop")
	}
	if p.TokenDrop() != drop {
		t.Error("pod does not reference the created drop")
	}
	if drop.Measure() != tokendrop.Measure(p.Shares()) {
		t.Error("drop not measured by the pod's share ledger")
	}
	if drop.Asset() != reward {
		t.Error("drop not paying the pod's reward asset")
	}
}

func TestCreatePodWithoutReward(t *testing.T) {
	f, err := New(tokendrop.New)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	cfg, _ := testConfig()
	cfg.Reward = nil

	p, drop, err := f.CreatePod(cfg)
	if err != nil {
		t.Fatalf("create pod: %v", err)
	}
	if drop != nil {
		t.Error("expected no drop without a reward asset")
	}
	if p.TokenDrop() != nil {
		t.Error("pod unexpectedly has a distributor")
	}
}

func TestCreatePodPropagatesPodErrors(t *testing.T) {
	f, err := New(tokendrop.New)
	if err != nil {
		t.Fatalf("new factory: %v", err)
	}
	cfg, _ := testConfig()
	cfg.Ticket = nil

	if _, _, err := f.CreatePod(cfg); !errors.Is(err, pod.ErrInvalidTicket) {
		t.Errorf("expected wrapped ErrInvalidTicket, got %v", err)
	}
}

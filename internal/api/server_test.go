package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cosmossdk.io/math"

	"PodVault/internal/faucet"
	"PodVault/internal/model"
	"PodVault/internal/pod"
	"PodVault/internal/token"
	"PodVault/internal/tokendrop"
	"PodVault/internal/yieldsource"
)

func newTestServer(t *testing.T) (*httptest.Server, *token.Book) {
	t.Helper()

	underlying := token.NewBook(model.Asset("USDC"), 6)
	ticket := token.NewBook(model.Asset("pUSDC"), 6)
	reward := token.NewBook(model.Asset("POOL"), 6)
	shares := token.NewBook(model.Asset("podUSDC"), 6)
	source := yieldsource.NewLocal(underlying, ticket, "yield-source", 100)
	fct := faucet.NewLocal(reward, "faucet")

	p, err := pod.New(pod.Config{
		Account:    "pod",
		Owner:      "owner",
		Manager:    "manager",
		Shares:     shares,
		Underlying: underlying,
		Ticket:     ticket,
		Reward:     reward,
		Source:     source,
		Faucet:     fct,
	})
	if err != nil {
		t.Fatalf("new pod: %v", err)
	}
	drop, err := tokendrop.New(p.Shares(), reward, "pod:drop")
	if err != nil {
		t.Fatalf("new token drop: %v", err)
	}
	if err := p.SetTokenDrop("owner", drop); err != nil {
		t.Fatalf("set token drop: %v", err)
	}

	srv := httptest.NewServer(NewServer(p).Handler())
	t.Cleanup(srv.Close)
	return srv, underlying
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func getJSON(t *testing.T, url string) (*http.Response, map[string]string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, out
}

func TestDepositEndpoint(t *testing.T) {
	srv, underlying := newTestServer(t)
	underlying.Mint("alice", math.NewInt(1_000_000_000))

	resp, out := postJSON(t, srv.URL+"/api/v1/deposits",
		`{"account":"alice","amount":"1000000000"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if out["shares"] != "1000000000" {
		t.Errorf("shares %q, want 1000000000", out["shares"])
	}
	if out["recipient"] != "alice" {
		t.Errorf("recipient %q, want alice", out["recipient"])
	}
}

func TestDepositFailureStringIsVerbatim(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, out := postJSON(t, srv.URL+"/api/v1/deposits",
		`{"account":"alice","amount":"0"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if out["error"] != "Pod:invalid-amount" {
		t.Errorf("error %q, want Pod:invalid-amount", out["error"])
	}
}

func TestWithdrawFeeBoundFailureString(t *testing.T) {
	srv, underlying := newTestServer(t)
	underlying.Mint("alice", math.NewInt(1_000_000_000))

	if resp, _ := postJSON(t, srv.URL+"/api/v1/deposits",
		`{"account":"alice","amount":"1000000000"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit failed: %d", resp.StatusCode)
	}
	if resp, _ := postJSON(t, srv.URL+"/api/v1/batches", `{}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("batch failed: %d", resp.StatusCode)
	}

	// 1% exit fee applies once the float is committed; a zero bound must fail.
	resp, out := postJSON(t, srv.URL+"/api/v1/withdrawals",
		`{"account":"alice","shares":"1000000000","max_fee":"0"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if out["error"] != "Pod:excessive-exit-fee" {
		t.Errorf("error %q, want Pod:excessive-exit-fee", out["error"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, underlying := newTestServer(t)
	underlying.Mint("alice", math.NewInt(500))

	if resp, _ := postJSON(t, srv.URL+"/api/v1/deposits",
		`{"account":"alice","amount":"500"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit failed: %d", resp.StatusCode)
	}

	resp, out := getJSON(t, srv.URL+"/api/v1/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if out["float"] != "500" || out["position"] != "0" || out["total_supply"] != "500" {
		t.Errorf("unexpected status body: %v", out)
	}
}

func TestExitFeeEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, out := getJSON(t, srv.URL+"/api/v1/exit-fee?shares=bogus")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	if out["error"] != "Pod:invalid-amount" {
		t.Errorf("error %q, want Pod:invalid-amount", out["error"])
	}
}

func TestHolderEndpoint(t *testing.T) {
	srv, underlying := newTestServer(t)
	underlying.Mint("alice", math.NewInt(1000))

	if resp, _ := postJSON(t, srv.URL+"/api/v1/deposits",
		`{"account":"alice","amount":"1000"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("deposit failed: %d", resp.StatusCode)
	}

	resp, out := getJSON(t, srv.URL+"/api/v1/holders/alice")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if out["shares"] != "1000" {
		t.Errorf("shares %q, want 1000", out["shares"])
	}
	if out["reward_accrued"] != "0" {
		t.Errorf("reward_accrued %q, want 0", out["reward_accrued"])
	}
}

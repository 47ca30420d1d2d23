package faucet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"cosmossdk.io/math"

	"PodVault/internal/token"
)

// HTTPFaucet implements Faucet against a remote faucet's REST API. The local
// reward book mirrors what the remote faucet reports as claimed.
type HTTPFaucet struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	reward  *token.Book
	reserve string // faucet reserve account mirrored on the reward book
}

// NewHTTPFaucet creates a REST-backed faucet with optional proxy support.
func NewHTTPFaucet(baseURL, apiKey, proxyURL string, reward *token.Book, reserve string) *HTTPFaucet {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFaucet{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second, Transport: transport},
		reward:  reward,
		reserve: reserve,
	}
}

func (f *HTTPFaucet) Name() string { return "http" }

func (f *HTTPFaucet) Claim(ctx context.Context, account string) (math.Int, error) {
	payload, err := json.Marshal(map[string]string{"account": account})
	if err != nil {
		return math.ZeroInt(), err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.BaseURL+"/api/v1/claim", bytes.NewReader(payload))
	if err != nil {
		return math.ZeroInt(), err
	}
	req.Header.Set("Content-Type", "application/json")
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("faucet claim: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return math.ZeroInt(), fmt.Errorf("faucet claim: status %d, body: %s", resp.StatusCode, string(raw))
	}
	var out struct {
		Claimed string `json:"claimed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return math.ZeroInt(), fmt.Errorf("decode claim: %w", err)
	}
	claimed, ok := math.NewIntFromString(out.Claimed)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("faucet claim: bad amount %q", out.Claimed)
	}
	if claimed.IsZero() {
		return math.ZeroInt(), nil
	}
	f.reward.Mint(f.reserve, claimed)
	if err := f.reward.Transfer(f.reserve, account, claimed); err != nil {
		return math.ZeroInt(), fmt.Errorf("faucet claim: %w", err)
	}
	return claimed, nil
}

package yieldsource

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

// HTTPSource implements Source against a remote pool's REST API. The local
// underlying and ticket books mirror the balances the remote pool reports;
// the remote response is treated as ground truth.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client

	underlying *token.Book
	ticket     *token.Book
	reserve    string // pool reserve account mirrored on the underlying book
}

// NewHTTPSource creates a REST-backed source with optional proxy support.
func NewHTTPSource(baseURL, apiKey, proxyURL string, underlying, ticket *token.Book, reserve string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Client:     &http.Client{Timeout: 30 * time.Second, Transport: transport},
		underlying: underlying,
		ticket:     ticket,
		reserve:    reserve,
	}
}

func (s *HTTPSource) Name() string { return "http" }

type depositResponse struct {
	Receipt string `json:"receipt"`
}

func (s *HTTPSource) Deposit(ctx context.Context, account string, amount math.Int) (math.Int, error) {
	var out depositResponse
	err := s.post(ctx, "/api/v1/deposit", map[string]string{
		"account": account,
		"amount":  amount.String(),
	}, &out)
	if err != nil {
		return math.ZeroInt(), err
	}
	receipt, ok := math.NewIntFromString(out.Receipt)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("source deposit: bad receipt amount %q", out.Receipt)
	}
	if err := s.underlying.Transfer(account, s.reserve, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("source deposit: %w", err)
	}
	s.ticket.Mint(account, receipt)
	return receipt, nil
}

type redeemResponse struct {
	Fee string `json:"fee"`
}

func (s *HTTPSource) Redeem(ctx context.Context, account string, amount math.Int, maxFee math.Int) (math.Int, error) {
	var out redeemResponse
	err := s.post(ctx, "/api/v1/redeem", map[string]string{
		"account": account,
		"amount":  amount.String(),
		"max_fee": maxFee.String(),
	}, &out)
	if err != nil {
		return math.ZeroInt(), err
	}
	fee, ok := math.NewIntFromString(out.Fee)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("source redeem: bad fee amount %q", out.Fee)
	}
	if fee.GT(maxFee) {
		// The remote pool enforces the bound itself; this guards a
		// misbehaving server before any balance moves.
		return math.ZeroInt(), fmt.Errorf("%w: fee %s, bound %s", ErrFeeExceedsBound, fee, maxFee)
	}
	if err := s.ticket.Burn(account, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("source redeem: %w", err)
	}
	if err := s.underlying.Transfer(s.reserve, account, amount.Sub(fee)); err != nil {
		return math.ZeroInt(), fmt.Errorf("source redeem payout: %w", err)
	}
	return fee, nil
}

func (s *HTTPSource) EarlyExitFee(ctx context.Context, amount math.Int) (math.Int, error) {
	endpoint := fmt.Sprintf("%s/api/v1/exit-fee?amount=%s", s.BaseURL, amount.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return math.ZeroInt(), err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("fetch exit fee: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return math.ZeroInt(), fmt.Errorf("fetch exit fee: status %d", resp.StatusCode)
	}
	var out struct {
		Fee string `json:"fee"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return math.ZeroInt(), fmt.Errorf("decode exit fee: %w", err)
	}
	fee, ok := math.NewIntFromString(out.Fee)
	if !ok {
		return math.ZeroInt(), fmt.Errorf("fetch exit fee: bad fee amount %q", out.Fee)
	}
	return fee, nil
}

func (s *HTTPSource) post(ctx context.Context, path string, body map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("post %s: status %d, body: %s", path, resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Package api exposes the vault's operations over HTTP. Failure strings
// from the pod are returned verbatim in JSON error bodies so integrations
// can match on them.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"cosmossdk.io/math"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PodVault/internal/metrics"
	"PodVault/internal/pod"
	"PodVault/internal/token"
)

// Server routes vault operations to the pod engine.
type Server struct {
	pod    *pod.Pod
	router chi.Router
}

// NewServer builds the router.
func NewServer(p *pod.Pod) *Server {
	s := &Server{pod: p}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/deposits", metrics.Instrument("/api/v1/deposits", s.handleDeposit))
		r.Post("/withdrawals", metrics.Instrument("/api/v1/withdrawals", s.handleWithdraw))
		r.Post("/batches", metrics.Instrument("/api/v1/batches", s.handleBatch))
		r.Post("/drops", metrics.Instrument("/api/v1/drops", s.handleDrop))
		r.Post("/claims", metrics.Instrument("/api/v1/claims", s.handleClaim))

		r.Get("/status", metrics.Instrument("/api/v1/status", s.handleStatus))
		r.Get("/price-per-share", metrics.Instrument("/api/v1/price-per-share", s.handlePricePerShare))
		r.Get("/exit-fee", metrics.Instrument("/api/v1/exit-fee", s.handleExitFee))
		r.Get("/holders/{account}", metrics.Instrument("/api/v1/holders/{account}", s.handleHolder))
	})
	r.Handle("/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", uuid.NewString())
		next.ServeHTTP(w, r)
	})
}

type depositRequest struct {
	Account   string `json:"account"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	amount, ok := math.NewIntFromString(req.Amount)
	if !ok {
		writeError(w, http.StatusBadRequest, pod.ErrInvalidAmount)
		return
	}
	recipient := req.Recipient
	if recipient == "" {
		recipient = req.Account
	}
	shares, err := s.pod.DepositTo(r.Context(), req.Account, recipient, amount)
	if err != nil {
		writePodError(w, "deposit", err)
		return
	}
	metrics.DepositsTotal.Inc()
	metrics.ObserveStatus(s.pod.Status())
	writeJSON(w, http.StatusOK, map[string]string{
		"recipient": recipient,
		"amount":    amount.String(),
		"shares":    shares.String(),
	})
}

type withdrawRequest struct {
	Account string `json:"account"`
	Shares  string `json:"shares"`
	MaxFee  string `json:"max_fee"`
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	shares, ok := math.NewIntFromString(req.Shares)
	if !ok {
		writeError(w, http.StatusBadRequest, pod.ErrInvalidAmount)
		return
	}
	maxFee := math.ZeroInt()
	if req.MaxFee != "" {
		if maxFee, ok = math.NewIntFromString(req.MaxFee); !ok {
			writeError(w, http.StatusBadRequest, pod.ErrInvalidAmount)
			return
		}
	}
	payout, err := s.pod.Withdraw(r.Context(), req.Account, shares, maxFee)
	if err != nil {
		writePodError(w, "withdraw", err)
		return
	}
	metrics.WithdrawalsTotal.Inc()
	metrics.ObserveStatus(s.pod.Status())
	writeJSON(w, http.StatusOK, map[string]string{
		"account": req.Account,
		"shares":  shares.String(),
		"payout":  payout.String(),
	})
}

type batchRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
	}

	var err error
	var rec any
	if req.Amount == "" {
		rec, err = s.pod.BatchAll(r.Context())
	} else {
		amount, ok := math.NewIntFromString(req.Amount)
		if !ok {
			writeError(w, http.StatusBadRequest, pod.ErrInvalidAmount)
			return
		}
		rec, err = s.pod.Batch(r.Context(), amount)
	}
	if err != nil {
		writePodError(w, "batch", err)
		return
	}
	metrics.BatchesTotal.Inc()
	metrics.ObserveStatus(s.pod.Status())
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	forwarded, err := s.pod.Drop(r.Context())
	if err != nil {
		writePodError(w, "drop", err)
		return
	}
	metrics.DropsTotal.Inc()
	metrics.ObserveStatus(s.pod.Status())
	writeJSON(w, http.StatusOK, map[string]string{"forwarded": forwarded.String()})
}

type claimRequest struct {
	Recipient string `json:"recipient"`
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	var req claimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	paid, err := s.pod.Claim(r.Context(), req.Recipient)
	if err != nil {
		writePodError(w, "claim", err)
		return
	}
	metrics.ClaimsTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{
		"recipient": req.Recipient,
		"paid":      paid.String(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.pod.Status()
	writeJSON(w, http.StatusOK, map[string]string{
		"float":           status.Float.String(),
		"position":        status.Position.String(),
		"balance":         status.Balance.String(),
		"total_supply":    status.TotalSupply.String(),
		"price_per_share": status.PricePerShare.String(),
		"total_unclaimed": status.TotalUnclaimed.String(),
	})
}

func (s *Server) handlePricePerShare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"price_per_share": s.pod.PricePerShare().String(),
	})
}

func (s *Server) handleExitFee(w http.ResponseWriter, r *http.Request) {
	shares, ok := math.NewIntFromString(r.URL.Query().Get("shares"))
	if !ok {
		writeError(w, http.StatusBadRequest, pod.ErrInvalidAmount)
		return
	}
	fee, err := s.pod.GetEarlyExitFee(r.Context(), shares)
	if err != nil {
		writePodError(w, "exit-fee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fee": fee.String()})
}

func (s *Server) handleHolder(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")
	resp := map[string]string{
		"account":              account,
		"shares":               s.pod.BalanceOf(account).String(),
		"user_price_per_share": s.pod.UserPricePerShare(account).String(),
	}
	if drop := s.pod.TokenDrop(); drop != nil {
		state := drop.UserState(account)
		resp["reward_accrued"] = state.Balance.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writePodError maps the pod's failure taxonomy onto HTTP statuses:
// authorization failures to 403, everything else (input validation and
// insufficient resources) to 400, unknown errors to 500.
func writePodError(w http.ResponseWriter, operation string, err error) {
	metrics.OperationFailures.WithLabelValues(operation, rootMessage(err)).Inc()
	switch {
	case errors.Is(err, pod.ErrUnauthorized), errors.Is(err, pod.ErrUnauthorizedSetTokenDrop):
		writeError(w, http.StatusForbidden, err)
	case errors.Is(err, pod.ErrInvalidAmount),
		errors.Is(err, pod.ErrInsufficientShares),
		errors.Is(err, pod.ErrZeroFloatBalance),
		errors.Is(err, pod.ErrInsufficientFloatBalance),
		errors.Is(err, pod.ErrExcessiveExitFee),
		errors.Is(err, pod.ErrInvalidTokenDrop),
		errors.Is(err, pod.ErrInvalidTargetToken),
		errors.Is(err, pod.ErrInvalidDropContract),
		errors.Is(err, pod.ErrDivisionByZero),
		errors.Is(err, token.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, err)
	default:
		log.Printf("[ERROR] %s: %v", operation, err)
		writeError(w, http.StatusInternalServerError, err)
	}
}

func rootMessage(err error) string {
	for errors.Unwrap(err) != nil {
		err = errors.Unwrap(err)
	}
	return err.Error()
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": rootMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

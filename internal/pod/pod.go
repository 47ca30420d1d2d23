// Package pod implements the vault state machine: a pooled, share-based
// vault that aggregates depositors' balances, periodically commits the
// aggregate to an external yield source, and tracks proportional claims
// through a share ledger. An attached tokendrop.TokenDrop streams a
// secondary reward asset to shareholders.
package pod

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"cosmossdk.io/math"

	"PodVault/internal/faucet"
	"PodVault/internal/model"
	"PodVault/internal/recorder"
	"PodVault/internal/token"
	"PodVault/internal/tokendrop"
	"PodVault/internal/yieldsource"
)

// Config wires a Pod to its ledgers, collaborators, and roles.
type Config struct {
	Account string // the pod's own account on every book
	Owner   string // administrative role
	Manager string // asset-sweep role

	Shares     *token.Book // the pod's share ledger
	Underlying *token.Book
	Ticket     *token.Book
	Reward     *token.Book

	Source   yieldsource.Source
	Faucet   faucet.Faucet     // optional
	Recorder recorder.Recorder // optional, defaults to noop
}

// Pod owns the share ledger and the float/position split. All public
// operations serialize behind one mutex: each runs to completion with no
// interleaving, and a failing operation leaves no partial state behind.
type Pod struct {
	mu sync.Mutex

	account string
	owner   string
	manager string

	shares     *token.Book
	underlying *token.Book
	ticket     *token.Book
	reward     *token.Book

	source yieldsource.Source
	faucet faucet.Faucet
	drop   *tokendrop.TokenDrop

	rec   recorder.Recorder
	scale math.Int
}

// New creates a Pod and installs the settlement hook on its share ledger.
func New(cfg Config) (*Pod, error) {
	if cfg.Ticket == nil || cfg.Ticket.Asset().IsZero() {
		return nil, ErrInvalidTicket
	}
	if cfg.Shares == nil || cfg.Underlying == nil {
		return nil, fmt.Errorf("pod: shares and underlying books are required")
	}
	if cfg.Source == nil {
		return nil, fmt.Errorf("pod: yield source is required")
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	p := &Pod{
		account:    cfg.Account,
		owner:      cfg.Owner,
		manager:    cfg.Manager,
		shares:     cfg.Shares,
		underlying: cfg.Underlying,
		ticket:     cfg.Ticket,
		reward:     cfg.Reward,
		source:     cfg.Source,
		faucet:     cfg.Faucet,
		rec:        rec,
		scale:      math.NewIntWithDecimal(1, int(cfg.Underlying.Decimals())),
	}
	p.shares.SetHook(p.beforeShareTransfer)
	return p, nil
}

// beforeShareTransfer settles pending reward for both parties against their
// pre-transfer balances. Runs inside the share book, before any balance
// mutation.
func (p *Pod) beforeShareTransfer(from, to string) {
	if p.drop == nil {
		return
	}
	for _, holder := range []string{from, to} {
		if holder == "" || holder == p.account {
			continue
		}
		owed := p.drop.Settle(holder)
		p.record(p.rec.RecordSettlement(&model.SettlementRecord{
			Holder:       holder,
			Owed:         owed,
			ExchangeRate: p.drop.ExchangeRateMantissa(),
		}))
	}
}

// Account returns the pod's own account identifier.
func (p *Pod) Account() string { return p.account }

// Owner returns the administrative role account.
func (p *Pod) Owner() string { return p.owner }

// Manager returns the asset-sweep role account.
func (p *Pod) Manager() string { return p.manager }

// Shares returns the pod's share ledger.
func (p *Pod) Shares() *token.Book { return p.shares }

// TokenDrop returns the attached reward accumulator, nil when unset.
func (p *Pod) TokenDrop() *tokendrop.TokenDrop {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.drop
}

// Float is the underlying balance not yet committed to the yield source.
func (p *Pod) Float() math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.floatLocked()
}

// Position is the value committed to the yield source, held as receipt tokens.
func (p *Pod) Position() math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// Balance is the total underlying value backing all shares: float + position.
func (p *Pod) Balance() math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balanceLocked()
}

// BalanceOf returns the holder's share balance.
func (p *Pod) BalanceOf(holder string) math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shares.BalanceOf(holder)
}

// TotalSupply returns the total share supply.
func (p *Pod) TotalSupply() math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shares.TotalSupply()
}

// PricePerShare returns balance * SCALE / totalSupply, or zero when no
// shares exist, so it is safe as a pre-deposit probe.
func (p *Pod) PricePerShare() math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pricePerShareLocked()
}

// UserPricePerShare returns zero when the holder has no shares, otherwise
// the vault-wide price per share.
func (p *Pod) UserPricePerShare(holder string) math.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shares.BalanceOf(holder).IsZero() {
		return math.ZeroInt()
	}
	return p.pricePerShareLocked()
}

// Status returns a point-in-time snapshot of the vault's accounting state.
func (p *Pod) Status() model.VaultStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	unclaimed := math.ZeroInt()
	if p.drop != nil {
		unclaimed = p.drop.TotalUnclaimed()
	}
	return model.VaultStatus{
		Float:          p.floatLocked(),
		Position:       p.positionLocked(),
		Balance:        p.balanceLocked(),
		TotalSupply:    p.shares.TotalSupply(),
		PricePerShare:  p.pricePerShareLocked(),
		TotalUnclaimed: unclaimed,
		ObservedAt:     time.Now(),
	}
}

// DepositTo transfers amount of the underlying asset from depositor into the
// vault's float and mints shares to recipient. The first deposit establishes
// the 1:1 share price; later deposits mint amount * SCALE / pricePerShare.
func (p *Pod) DepositTo(ctx context.Context, depositor, recipient string, amount math.Int) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !amount.IsPositive() {
		return math.ZeroInt(), ErrInvalidAmount
	}

	// Price is read before the incoming transfer lands, otherwise the
	// deposit would inflate its own share price.
	shares := amount
	if !p.shares.TotalSupply().IsZero() {
		if pps := p.pricePerShareLocked(); pps.IsPositive() {
			shares = amount.Mul(p.scale).Quo(pps)
		}
	}

	if err := p.underlying.Transfer(depositor, p.account, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("deposit transfer: %w", err)
	}
	p.record(p.rec.RecordTransfer(&model.TransferRecord{
		Asset: p.underlying.Asset(), From: depositor, To: p.account, Amount: amount,
	}))

	p.shares.Mint(recipient, shares)
	p.record(p.rec.RecordTransfer(&model.TransferRecord{
		Asset: p.shares.Asset(), From: "", To: recipient, Amount: shares,
	}))

	p.record(p.rec.RecordDeposit(&model.DepositRecord{
		Depositor: depositor, Recipient: recipient, Amount: amount, Shares: shares,
	}))
	log.Printf("[INFO] deposit: %s -> %s, amount=%s shares=%s", depositor, recipient, amount, shares)
	return shares, nil
}

// Batch commits amount of float to the yield source in exchange for receipt
// tokens. Pending faucet rewards are pulled first, matching the claim record
// then batch record sequence. Share accounting is untouched: only the
// float/position split changes, and any deposit fee charged by the source is
// surfaced in the returned record.
func (p *Pod) Batch(ctx context.Context, amount math.Int) (*model.BatchRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batchLocked(ctx, amount)
}

// BatchAll commits the full float.
func (p *Pod) BatchAll(ctx context.Context) (*model.BatchRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batchLocked(ctx, p.floatLocked())
}

func (p *Pod) batchLocked(ctx context.Context, amount math.Int) (*model.BatchRecord, error) {
	float := p.floatLocked()
	if float.IsZero() {
		return nil, ErrZeroFloatBalance
	}
	if amount.GT(float) {
		return nil, ErrInsufficientFloatBalance
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if p.faucet != nil {
		claimed, err := p.faucet.Claim(ctx, p.account)
		if err != nil {
			return nil, fmt.Errorf("batch faucet claim: %w", err)
		}
		p.record(p.rec.RecordClaimFromSource(&model.ClaimFromSourceRecord{Amount: claimed}))
	}

	receipt, err := p.source.Deposit(ctx, p.account, amount)
	if err != nil {
		return nil, fmt.Errorf("batch source deposit: %w", err)
	}

	rec := &model.BatchRecord{
		Amount:     amount,
		Receipt:    receipt,
		DepositFee: amount.Sub(receipt),
	}
	p.record(p.rec.RecordBatch(rec))
	log.Printf("[INFO] batch: committed=%s receipt=%s fee=%s", rec.Amount, rec.Receipt, rec.DepositFee)
	return rec, nil
}

// GetEarlyExitFee quotes the fee for withdrawing shareAmount right now:
// zero when float alone covers the equivalent underlying, otherwise the
// yield source's quote for the shortfall. Read-only.
func (p *Pod) GetEarlyExitFee(ctx context.Context, shareAmount math.Int) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.earlyExitFeeLocked(ctx, shareAmount)
}

func (p *Pod) earlyExitFeeLocked(ctx context.Context, shareAmount math.Int) (math.Int, error) {
	due := shareAmount.Mul(p.pricePerShareLocked()).Quo(p.scale)
	float := p.floatLocked()
	if float.GTE(due) {
		return math.ZeroInt(), nil
	}
	fee, err := p.source.EarlyExitFee(ctx, due.Sub(float))
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("exit fee quote: %w", err)
	}
	return fee, nil
}

// Withdraw burns shareAmount of the caller's shares and pays out the
// equivalent underlying. When float cannot cover the payout the shortfall is
// redeemed from the yield source; the operation fails with
// ErrExcessiveExitFee, leaving all state untouched, if the fee at execution
// time exceeds maxFee. The bound is the caller's only protection against the
// quote going stale between the read and the execution.
func (p *Pod) Withdraw(ctx context.Context, holder string, shareAmount, maxFee math.Int) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !shareAmount.IsPositive() {
		return math.ZeroInt(), ErrDivisionByZero
	}
	if p.shares.BalanceOf(holder).LT(shareAmount) {
		return math.ZeroInt(), ErrInsufficientShares
	}

	due := shareAmount.Mul(p.pricePerShareLocked()).Quo(p.scale)
	float := p.floatLocked()

	fee := math.ZeroInt()
	if float.LT(due) {
		shortfall := due.Sub(float)
		quote, err := p.source.EarlyExitFee(ctx, shortfall)
		if err != nil {
			return math.ZeroInt(), fmt.Errorf("withdraw fee quote: %w", err)
		}
		if quote.GT(maxFee) {
			return math.ZeroInt(), fmt.Errorf("%w: fee %s exceeds bound %s", ErrExcessiveExitFee, quote, maxFee)
		}
		fee, err = p.source.Redeem(ctx, p.account, shortfall, maxFee)
		if err != nil {
			if errors.Is(err, yieldsource.ErrFeeExceedsBound) {
				return math.ZeroInt(), fmt.Errorf("%w: %v", ErrExcessiveExitFee, err)
			}
			return math.ZeroInt(), fmt.Errorf("withdraw redeem: %w", err)
		}
	}

	// Settlement fires inside the burn hook, against the pre-burn balance.
	if err := p.shares.Burn(holder, shareAmount); err != nil {
		return math.ZeroInt(), fmt.Errorf("%w: %v", ErrInsufficientShares, err)
	}
	p.record(p.rec.RecordTransfer(&model.TransferRecord{
		Asset: p.shares.Asset(), From: holder, To: "", Amount: shareAmount,
	}))

	payout := due.Sub(fee)
	if err := p.underlying.Transfer(p.account, holder, payout); err != nil {
		return math.ZeroInt(), fmt.Errorf("withdraw payout: %w", err)
	}
	p.record(p.rec.RecordTransfer(&model.TransferRecord{
		Asset: p.underlying.Asset(), From: p.account, To: holder, Amount: payout,
	}))

	p.record(p.rec.RecordWithdrawal(&model.WithdrawalRecord{
		Holder: holder, Shares: shareAmount, Payout: payout, Fee: fee,
	}))
	log.Printf("[INFO] withdraw: %s shares=%s payout=%s fee=%s", holder, shareAmount, payout, fee)
	return payout, nil
}

// Drop pulls any reward tokens the pod's position has earned from the faucet
// and forwards the pod's full reward balance into the attached accumulator.
// No-op when no accumulator is attached or nothing was pulled.
func (p *Pod) Drop(ctx context.Context) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.faucet != nil {
		claimed, err := p.faucet.Claim(ctx, p.account)
		if err != nil {
			return math.ZeroInt(), fmt.Errorf("drop faucet claim: %w", err)
		}
		p.record(p.rec.RecordClaimFromSource(&model.ClaimFromSourceRecord{Amount: claimed}))
	}

	if p.drop == nil || p.reward == nil {
		return math.ZeroInt(), nil
	}
	balance := p.reward.BalanceOf(p.account)
	if balance.IsZero() {
		return math.ZeroInt(), nil
	}
	if err := p.drop.AddAssetToken(p.account, balance); err != nil {
		return math.ZeroInt(), fmt.Errorf("drop distribute: %w", err)
	}
	log.Printf("[INFO] drop: forwarded %s reward to accumulator", balance)
	return balance, nil
}

// Claim pays out recipient's accrued reward through the attached accumulator.
func (p *Pod) Claim(ctx context.Context, recipient string) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.drop == nil {
		return math.ZeroInt(), ErrInvalidTokenDrop
	}
	paid, err := p.drop.Claim(recipient)
	if err != nil {
		return math.ZeroInt(), fmt.Errorf("claim: %w", err)
	}
	p.record(p.rec.RecordClaim(&model.ClaimRecord{Holder: recipient, Amount: paid}))
	return paid, nil
}

// SetTokenDrop attaches the reward accumulator, or clears the link when drop
// is nil. Owner-only. A non-nil drop must be wired to this pod's share
// ledger and reward asset.
func (p *Pod) SetTokenDrop(caller string, drop *tokendrop.TokenDrop) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.owner {
		return ErrUnauthorizedSetTokenDrop
	}
	if drop != nil {
		if drop.Measure() != tokendrop.Measure(p.shares) || drop.Asset() != p.reward {
			return ErrInvalidDropContract
		}
	}
	p.drop = drop
	return nil
}

// WithdrawERC20 sweeps the pod's full balance of a stray asset to the
// manager's target account. Core assets are never sweepable.
func (p *Pod) WithdrawERC20(caller string, book *token.Book, to string) (math.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if caller != p.manager {
		return math.ZeroInt(), ErrUnauthorized
	}
	if p.coreAssets().Contains(book.Asset()) {
		return math.ZeroInt(), ErrInvalidTargetToken
	}
	amount := book.BalanceOf(p.account)
	if amount.IsZero() {
		return math.ZeroInt(), nil
	}
	if err := book.Transfer(p.account, to, amount); err != nil {
		return math.ZeroInt(), fmt.Errorf("sweep: %w", err)
	}
	p.record(p.rec.RecordTransfer(&model.TransferRecord{
		Asset: book.Asset(), From: p.account, To: to, Amount: amount,
	}))
	log.Printf("[INFO] sweep: %s of %s -> %s", amount, book.Asset(), to)
	return amount, nil
}

func (p *Pod) coreAssets() model.CoreAssets {
	core := model.CoreAssets{
		Underlying: p.underlying.Asset(),
		Ticket:     p.ticket.Asset(),
		Share:      p.shares.Asset(),
	}
	if p.reward != nil {
		core.Reward = p.reward.Asset()
	}
	return core
}

func (p *Pod) floatLocked() math.Int {
	return p.underlying.BalanceOf(p.account)
}

func (p *Pod) positionLocked() math.Int {
	return p.ticket.BalanceOf(p.account)
}

func (p *Pod) balanceLocked() math.Int {
	return p.floatLocked().Add(p.positionLocked())
}

func (p *Pod) pricePerShareLocked() math.Int {
	supply := p.shares.TotalSupply()
	if supply.IsZero() {
		return math.ZeroInt()
	}
	return p.balanceLocked().Mul(p.scale).Quo(supply)
}

// record logs recorder failures without failing the operation; the record
// log is an audit trail, not part of the state machine.
func (p *Pod) record(err error) {
	if err != nil {
		log.Printf("[ERROR] record: %v", err)
	}
}

package model

import (
	"time"

	"cosmossdk.io/math"
)

// RecordKind labels an emitted record.
type RecordKind string

const (
	RecordTransfer   RecordKind = "TRANSFER"
	RecordSettlement RecordKind = "DRIP_CALCULATE"
	RecordDeposited  RecordKind = "DEPOSITED"
	RecordWithdrawal RecordKind = "WITHDRAWAL"
	RecordPodClaimed RecordKind = "POD_CLAIMED"
	RecordBatch      RecordKind = "BATCH"
	RecordClaimed    RecordKind = "CLAIMED"
)

// TransferRecord is emitted for every balance movement on any book,
// including share mints (empty From) and burns (empty To).
type TransferRecord struct {
	Asset  Asset
	From   string
	To     string
	Amount math.Int
}

// SettlementRecord is emitted when a holder's pending reward is settled
// against the accumulator's current exchange rate.
type SettlementRecord struct {
	Holder       string
	Owed         math.Int
	ExchangeRate math.Int
}

// DepositRecord is emitted after a successful deposit.
type DepositRecord struct {
	Depositor string
	Recipient string
	Amount    math.Int
	Shares    math.Int
}

// WithdrawalRecord is emitted after a successful withdrawal.
type WithdrawalRecord struct {
	Holder string
	Shares math.Int
	Payout math.Int
	Fee    math.Int
}

// ClaimFromSourceRecord is emitted when the pod pulls pending reward tokens
// from the external faucet.
type ClaimFromSourceRecord struct {
	Amount math.Int
}

// BatchRecord is emitted after float is committed to the yield source.
// DepositFee is the difference between the committed amount and the receipt
// actually minted; it is surfaced here rather than absorbed.
type BatchRecord struct {
	Amount     math.Int
	Receipt    math.Int
	DepositFee math.Int
}

// ClaimRecord is emitted after a holder claims accrued reward.
type ClaimRecord struct {
	Holder string
	Amount math.Int
}

// VaultStatus is a point-in-time snapshot of the vault's accounting state.
type VaultStatus struct {
	Float          math.Int  `json:"float"`
	Position       math.Int  `json:"position"`
	Balance        math.Int  `json:"balance"`
	TotalSupply    math.Int  `json:"total_supply"`
	PricePerShare  math.Int  `json:"price_per_share"`
	TotalUnclaimed math.Int  `json:"total_unclaimed"`
	ObservedAt     time.Time `json:"observed_at"`
}

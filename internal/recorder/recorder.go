package recorder

import "PodVault/internal/model"

// Recorder persists the vault's emitted records for audit and analysis.
// Records arrive in emission order: settlement before balance mutation
// before the domain record of the operation.
type Recorder interface {
	RecordTransfer(rec *model.TransferRecord) error
	RecordSettlement(rec *model.SettlementRecord) error
	RecordDeposit(rec *model.DepositRecord) error
	RecordWithdrawal(rec *model.WithdrawalRecord) error
	RecordClaimFromSource(rec *model.ClaimFromSourceRecord) error
	RecordBatch(rec *model.BatchRecord) error
	RecordClaim(rec *model.ClaimRecord) error
	Close() error
}

package recorder

import "PodVault/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (NoopRecorder) RecordTransfer(*model.TransferRecord) error               { return nil }
func (NoopRecorder) RecordSettlement(*model.SettlementRecord) error           { return nil }
func (NoopRecorder) RecordDeposit(*model.DepositRecord) error                 { return nil }
func (NoopRecorder) RecordWithdrawal(*model.WithdrawalRecord) error           { return nil }
func (NoopRecorder) RecordClaimFromSource(*model.ClaimFromSourceRecord) error { return nil }
func (NoopRecorder) RecordBatch(*model.BatchRecord) error                     { return nil }
func (NoopRecorder) RecordClaim(*model.ClaimRecord) error                     { return nil }
func (NoopRecorder) Close() error                                            { return nil }

package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"PodVault/internal/model"
)

// SQLiteRecorder persists vault records to a SQLite database. Amounts are
// stored as base-unit decimal strings to keep them exact.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// the vault writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transfers (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			asset     TEXT,
			from_acct TEXT,
			to_acct   TEXT,
			amount    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_ts ON transfers(timestamp)`,

		`CREATE TABLE IF NOT EXISTS settlements (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			holder        TEXT,
			owed          TEXT,
			exchange_rate TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_settlements_ts ON settlements(timestamp)`,

		`CREATE TABLE IF NOT EXISTS deposits (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			depositor TEXT,
			recipient TEXT,
			amount    TEXT,
			shares    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_deposits_ts ON deposits(timestamp)`,

		`CREATE TABLE IF NOT EXISTS withdrawals (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			holder    TEXT,
			shares    TEXT,
			payout    TEXT,
			fee       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_withdrawals_ts ON withdrawals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS source_claims (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			amount    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_source_claims_ts ON source_claims(timestamp)`,

		`CREATE TABLE IF NOT EXISTS batches (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			amount      TEXT,
			receipt     TEXT,
			deposit_fee TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batches_ts ON batches(timestamp)`,

		`CREATE TABLE IF NOT EXISTS claims (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			holder    TEXT,
			amount    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_ts ON claims(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTransfer(rec *model.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO transfers (id, timestamp, asset, from_acct, to_acct, amount)
		VALUES (?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), string(rec.Asset), rec.From, rec.To, rec.Amount.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordSettlement(rec *model.SettlementRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO settlements (id, timestamp, holder, owed, exchange_rate)
		VALUES (?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Holder, rec.Owed.String(), rec.ExchangeRate.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordDeposit(rec *model.DepositRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO deposits (id, timestamp, depositor, recipient, amount, shares)
		VALUES (?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Depositor, rec.Recipient, rec.Amount.String(), rec.Shares.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordWithdrawal(rec *model.WithdrawalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO withdrawals (id, timestamp, holder, shares, payout, fee)
		VALUES (?,?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Holder, rec.Shares.String(), rec.Payout.String(), rec.Fee.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordClaimFromSource(rec *model.ClaimFromSourceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO source_claims (id, timestamp, amount) VALUES (?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Amount.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordBatch(rec *model.BatchRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO batches (id, timestamp, amount, receipt, deposit_fee)
		VALUES (?,?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Amount.String(), rec.Receipt.String(), rec.DepositFee.String(),
	)
	return err
}

func (r *SQLiteRecorder) RecordClaim(rec *model.ClaimRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO claims (id, timestamp, holder, amount) VALUES (?,?,?,?)`,
		uuid.NewString(), time.Now().Unix(), rec.Holder, rec.Amount.String(),
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

package notifier

import (
	"fmt"
	"strings"
	"time"

	"cosmossdk.io/math"

	"PodVault/internal/model"
)

// FormatVaultStatus formats a vault snapshot for display.
func FormatVaultStatus(status model.VaultStatus) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("PodVault status | %s\n\n", status.ObservedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("float: %s\n", status.Float))
	b.WriteString(fmt.Sprintf("position: %s\n", status.Position))
	b.WriteString(fmt.Sprintf("balance: %s\n", status.Balance))
	b.WriteString(fmt.Sprintf("total supply: %s\n", status.TotalSupply))
	b.WriteString(fmt.Sprintf("price per share: %s\n", status.PricePerShare))
	b.WriteString(fmt.Sprintf("unclaimed reward: %s\n", status.TotalUnclaimed))
	return b.String()
}

// FormatBatchSummary formats a batch outcome.
func FormatBatchSummary(rec *model.BatchRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Batch | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("committed: %s\n", rec.Amount))
	b.WriteString(fmt.Sprintf("receipt minted: %s\n", rec.Receipt))
	if rec.DepositFee.IsPositive() {
		b.WriteString(fmt.Sprintf("deposit fee charged by source: %s\n", rec.DepositFee))
	}
	return b.String()
}

// FormatDropSummary formats a reward drop outcome.
func FormatDropSummary(forwarded math.Int) string {
	return fmt.Sprintf("Drop | %s\n\nreward forwarded to accumulator: %s\n",
		time.Now().Format("2006-01-02 15:04"), forwarded)
}

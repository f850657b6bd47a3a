package domain

import "time"

// ─── Leaf Wallet Types ──────────────────────────────────────────────────────
// Leaves are the secondary currency paid out by encounters. The wallet is
// double-entry: every operation creates matched DEBIT/CREDIT entries, so
// SUM(debits) == SUM(credits) is an invariant.

// TxType categorizes a wallet transaction.
type TxType string

const (
	TxEarn  TxType = "EARN"
	TxSpend TxType = "SPEND"
)

// EntryType marks one side of a double-entry pair.
type EntryType string

const (
	EntryDebit  EntryType = "DEBIT"
	EntryCredit EntryType = "CREDIT"
)

// LeafEntry is one row of the leaf ledger.
type LeafEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Type        TxType    `json:"type"`
	EntryType   EntryType `json:"entry_type"`
	Account     string    `json:"account"`
	Amount      int64     `json:"amount"`
	RefID       string    `json:"ref_id,omitempty"` // encounter/mission id
	Description string    `json:"description,omitempty"`
	Balance     int64     `json:"balance"`
}

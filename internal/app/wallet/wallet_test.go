package wallet

import (
	"strings"
	"testing"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

func newTestWallet(t *testing.T) *Service {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	return NewServiceWithClock(db, func() time.Time { return now })
}

func TestEarnAndBalance(t *testing.T) {
	w := newTestWallet(t)

	if err := w.Earn(15, "enc-1", "encounter claim"); err != nil {
		t.Fatalf("Earn: %v", err)
	}
	if err := w.Earn(5, "enc-2", "encounter claim"); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	balance, err := w.Balance()
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 20 {
		t.Errorf("balance = %d, want 20", balance)
	}
}

func TestEarnRejectsNonPositive(t *testing.T) {
	w := newTestWallet(t)
	for _, amount := range []int64{0, -10} {
		if err := w.Earn(amount, "x", "y"); err == nil {
			t.Errorf("Earn(%d) succeeded, want error", amount)
		}
	}
}

func TestSpendInsufficientFunds(t *testing.T) {
	w := newTestWallet(t)
	if err := w.Earn(10, "enc-1", "encounter claim"); err != nil {
		t.Fatalf("Earn: %v", err)
	}

	err := w.Spend(25, "shop-1", "tree sticker pack")
	if err == nil {
		t.Fatal("Spend over balance succeeded")
	}
	if !strings.Contains(err.Error(), "insufficient") {
		t.Errorf("err = %v, want insufficient leaves", err)
	}

	// A failed spend must not move the balance.
	if balance, _ := w.Balance(); balance != 10 {
		t.Errorf("balance = %d after failed spend, want 10", balance)
	}
}

func TestSpendMovesBalance(t *testing.T) {
	w := newTestWallet(t)
	w.Earn(50, "enc-1", "encounter claim")

	if err := w.Spend(30, "shop-1", "tree sticker pack"); err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if balance, _ := w.Balance(); balance != 20 {
		t.Errorf("balance = %d, want 20", balance)
	}
}

func TestDoubleEntryPairs(t *testing.T) {
	w := newTestWallet(t)
	w.Earn(40, "enc-1", "encounter claim")
	w.Spend(15, "shop-1", "boost")

	entries, err := w.History(10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	// User account sees one CREDIT (earn) and one DEBIT (spend).
	if len(entries) != 2 {
		t.Fatalf("History = %d entries, want 2", len(entries))
	}
	// Newest first: the spend debit, then the earn credit.
	if entries[0].Type != domain.TxSpend || entries[0].EntryType != domain.EntryDebit {
		t.Errorf("entries[0] = %s/%s, want SPEND/DEBIT", entries[0].Type, entries[0].EntryType)
	}
	if entries[1].Type != domain.TxEarn || entries[1].EntryType != domain.EntryCredit {
		t.Errorf("entries[1] = %s/%s, want EARN/CREDIT", entries[1].Type, entries[1].EntryType)
	}
	if entries[0].Balance != 25 {
		t.Errorf("running balance = %d, want 25", entries[0].Balance)
	}
	if entries[1].RefID != "enc-1" {
		t.Errorf("RefID = %q, want enc-1", entries[1].RefID)
	}
}

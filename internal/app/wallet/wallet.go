// Package wallet implements the leaf (secondary currency) ledger.
// Every operation creates matched DEBIT/CREDIT entries against the
// community pool and the user wallet; SUM(debits) == SUM(credits) is an
// invariant.
package wallet

import (
	"fmt"
	"time"

	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

// Account names. The pool funds rewards; the user wallet spends them.
const (
	accountPool = "community_pool"
	accountUser = "user_wallet"
)

// Service manages the leaf economy.
type Service struct {
	db    *sqlite.DB
	clock func() time.Time
}

// NewService creates a wallet service.
func NewService(db *sqlite.DB) *Service {
	return NewServiceWithClock(db, time.Now)
}

// NewServiceWithClock creates a wallet service with an injected clock.
func NewServiceWithClock(db *sqlite.DB, clock func() time.Time) *Service {
	return &Service{db: db, clock: clock}
}

// Balance returns the current user wallet balance.
func (s *Service) Balance() (int64, error) {
	return s.db.LeafBalance(accountUser)
}

// Earn records leaves earned from a claimed encounter or completed mission.
// Creates matched DEBIT (community_pool) and CREDIT (user_wallet) entries.
func (s *Service) Earn(amount int64, refID, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("earn amount must be positive, got %d", amount)
	}

	now := s.clock()

	poolBal, err := s.db.LeafBalance(accountPool)
	if err != nil {
		return fmt.Errorf("get pool balance: %w", err)
	}
	userBal, err := s.db.LeafBalance(accountUser)
	if err != nil {
		return fmt.Errorf("get wallet balance: %w", err)
	}

	_, err = s.db.InsertLeafEntry(domain.LeafEntry{
		Timestamp:   now,
		Type:        domain.TxEarn,
		EntryType:   domain.EntryDebit,
		Account:     accountPool,
		Amount:      amount,
		RefID:       refID,
		Description: reason,
		Balance:     poolBal - amount,
	})
	if err != nil {
		return fmt.Errorf("debit %s: %w", accountPool, err)
	}

	_, err = s.db.InsertLeafEntry(domain.LeafEntry{
		Timestamp:   now,
		Type:        domain.TxEarn,
		EntryType:   domain.EntryCredit,
		Account:     accountUser,
		Amount:      amount,
		RefID:       refID,
		Description: reason,
		Balance:     userBal + amount,
	})
	if err != nil {
		return fmt.Errorf("credit %s: %w", accountUser, err)
	}
	return nil
}

// Spend records leaves spent (cosmetics, boosts). Fails when the wallet
// cannot cover the amount.
func (s *Service) Spend(amount int64, refID, reason string) error {
	if amount <= 0 {
		return fmt.Errorf("spend amount must be positive, got %d", amount)
	}

	userBal, err := s.db.LeafBalance(accountUser)
	if err != nil {
		return fmt.Errorf("get wallet balance: %w", err)
	}
	if userBal < amount {
		return fmt.Errorf("insufficient leaves: have %d, need %d", userBal, amount)
	}

	now := s.clock()
	poolBal, _ := s.db.LeafBalance(accountPool)

	_, err = s.db.InsertLeafEntry(domain.LeafEntry{
		Timestamp:   now,
		Type:        domain.TxSpend,
		EntryType:   domain.EntryDebit,
		Account:     accountUser,
		Amount:      amount,
		RefID:       refID,
		Description: reason,
		Balance:     userBal - amount,
	})
	if err != nil {
		return err
	}

	_, err = s.db.InsertLeafEntry(domain.LeafEntry{
		Timestamp:   now,
		Type:        domain.TxSpend,
		EntryType:   domain.EntryCredit,
		Account:     accountPool,
		Amount:      amount,
		RefID:       refID,
		Description: reason,
		Balance:     poolBal + amount,
	})
	return err
}

// History returns recent wallet entries for the user.
func (s *Service) History(limit int) ([]domain.LeafEntry, error) {
	return s.db.LeafEntries(accountUser, limit)
}

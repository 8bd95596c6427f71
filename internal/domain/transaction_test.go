package domain

import (
	"errors"
	"testing"
)

func entry(accountID string, direction Direction, minorUnits int64) Entry {
	return Entry{
		ID:        "entry-" + accountID,
		AccountID: accountID,
		Direction: direction,
		Amount:    FromMinorUnits(minorUnits, USD),
	}
}

func TestNewTransaction(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{
			name:    "no entries",
			entries: nil,
			wantErr: ErrEmptyTransaction,
		},
		{
			name: "balanced pair",
			entries: []Entry{
				entry("a", DirectionDebit, 10000),
				entry("b", DirectionCredit, 10000),
			},
		},
		{
			name: "balanced split",
			entries: []Entry{
				entry("a", DirectionDebit, 10000),
				entry("b", DirectionCredit, 7500),
				entry("c", DirectionCredit, 2500),
			},
		},
		{
			name: "unbalanced pair",
			entries: []Entry{
				entry("a", DirectionDebit, 10000),
				entry("b", DirectionCredit, 9999),
			},
			wantErr: ErrUnbalancedTransaction,
		},
		{
			name: "single entry never balances",
			entries: []Entry{
				entry("a", DirectionDebit, 10000),
			},
			wantErr: ErrUnbalancedTransaction,
		},
		{
			name: "two zero entries balance",
			entries: []Entry{
				entry("a", DirectionDebit, 0),
				entry("b", DirectionCredit, 0),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction("tx-1", "test", tt.entries)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if tx != nil {
					t.Error("expected nil transaction on invariant failure")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.ID() != "tx-1" || tx.Name() != "test" {
				t.Errorf("unexpected header: id=%s name=%s", tx.ID(), tx.Name())
			}
			if len(tx.Entries()) != len(tt.entries) {
				t.Errorf("expected %d entries, got %d", len(tt.entries), len(tx.Entries()))
			}
		})
	}
}

// The balance invariant is symmetric in the direction convention: swapping
// every debit for a credit and vice versa must not change acceptance.
func TestNewTransaction_DirectionSymmetry(t *testing.T) {
	entries := []Entry{
		entry("a", DirectionDebit, 5000),
		entry("b", DirectionCredit, 3000),
		entry("c", DirectionCredit, 2000),
	}

	if _, err := NewTransaction("tx-1", "", entries); err != nil {
		t.Fatalf("original convention rejected: %v", err)
	}

	swapped := make([]Entry, len(entries))
	for i, e := range entries {
		if e.Direction == DirectionDebit {
			e.Direction = DirectionCredit
		} else {
			e.Direction = DirectionDebit
		}
		swapped[i] = e
	}

	if _, err := NewTransaction("tx-2", "", swapped); err != nil {
		t.Fatalf("swapped convention rejected: %v", err)
	}
}

func TestTransaction_EntriesIsACopy(t *testing.T) {
	tx, err := NewTransaction("tx-1", "", []Entry{
		entry("a", DirectionDebit, 100),
		entry("b", DirectionCredit, 100),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := tx.Entries()
	got[0].Amount = FromMinorUnits(999999, USD)

	if tx.Entries()[0].Amount.MinorUnits() != 100 {
		t.Error("mutating the returned slice changed the aggregate")
	}
}

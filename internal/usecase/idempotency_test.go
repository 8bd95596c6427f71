package usecase_test

import (
	"testing"

	"github.com/iho/ledgerbook/internal/domain"
	"github.com/iho/ledgerbook/internal/usecase"
)

func fingerprintEntry(id, accountID string, direction domain.Direction, minorUnits int64) domain.Entry {
	return domain.Entry{
		ID:        id,
		AccountID: accountID,
		Direction: direction,
		Amount:    domain.FromMinorUnits(minorUnits, domain.USD),
	}
}

func TestTransactionFingerprint_IgnoresEntryIDs(t *testing.T) {
	a := []domain.Entry{
		fingerprintEntry("id-1", "acc-1", domain.DirectionDebit, 10000),
		fingerprintEntry("id-2", "acc-2", domain.DirectionCredit, 10000),
	}
	b := []domain.Entry{
		fingerprintEntry("other-1", "acc-1", domain.DirectionDebit, 10000),
		fingerprintEntry("other-2", "acc-2", domain.DirectionCredit, 10000),
	}

	if usecase.TransactionFingerprint("rent", a) != usecase.TransactionFingerprint("rent", b) {
		t.Error("fingerprint depends on client-supplied entry ids")
	}
}

func TestTransactionFingerprint_Sensitivity(t *testing.T) {
	base := []domain.Entry{
		fingerprintEntry("", "acc-1", domain.DirectionDebit, 10000),
		fingerprintEntry("", "acc-2", domain.DirectionCredit, 10000),
	}
	baseKey := usecase.TransactionFingerprint("rent", base)

	t.Run("different name", func(t *testing.T) {
		if usecase.TransactionFingerprint("salary", base) == baseKey {
			t.Error("fingerprint ignores the transaction name")
		}
	})

	t.Run("different amount", func(t *testing.T) {
		changed := []domain.Entry{
			fingerprintEntry("", "acc-1", domain.DirectionDebit, 10001),
			fingerprintEntry("", "acc-2", domain.DirectionCredit, 10001),
		}
		if usecase.TransactionFingerprint("rent", changed) == baseKey {
			t.Error("fingerprint ignores amounts")
		}
	})

	t.Run("different account", func(t *testing.T) {
		changed := []domain.Entry{
			fingerprintEntry("", "acc-3", domain.DirectionDebit, 10000),
			fingerprintEntry("", "acc-2", domain.DirectionCredit, 10000),
		}
		if usecase.TransactionFingerprint("rent", changed) == baseKey {
			t.Error("fingerprint ignores account ids")
		}
	})

	t.Run("swapped directions", func(t *testing.T) {
		changed := []domain.Entry{
			fingerprintEntry("", "acc-1", domain.DirectionCredit, 10000),
			fingerprintEntry("", "acc-2", domain.DirectionDebit, 10000),
		}
		if usecase.TransactionFingerprint("rent", changed) == baseKey {
			t.Error("fingerprint ignores directions")
		}
	})
}

func TestTransactionFingerprint_Stable(t *testing.T) {
	entries := []domain.Entry{
		fingerprintEntry("", "acc-1", domain.DirectionDebit, 5000),
		fingerprintEntry("", "acc-2", domain.DirectionCredit, 5000),
	}

	first := usecase.TransactionFingerprint("x", entries)
	second := usecase.TransactionFingerprint("x", entries)
	if first != second {
		t.Error("fingerprint is not deterministic")
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}
}

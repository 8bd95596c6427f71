package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/iho/ledgerbook/internal/domain"
)

// TransactionFingerprint derives the idempotency key for a
// transaction-creation payload. The canonical encoding is, in this fixed
// order:
//
//	name:<name>\n
//	entry:<account_id>|<direction>|<minor units>\n   (one line per entry, submission order)
//
// Client-supplied transaction and entry ids are deliberately excluded, so a
// retry that regenerates ids still collides with the original. Amounts are
// canonicalized to minor units, so "100.0" and "100.00" produce the same
// key. The encoding is hashed with SHA-256 to a stable hex key.
func TransactionFingerprint(name string, entries []domain.Entry) string {
	h := sha256.New()

	io.WriteString(h, "name:"+name+"\n")
	for _, e := range entries {
		fmt.Fprintf(h, "entry:%s|%s|%d\n", e.AccountID, e.Direction, e.Amount.MinorUnits())
	}

	return hex.EncodeToString(h.Sum(nil))
}

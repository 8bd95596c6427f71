package domain

// Entry is one signed movement of money against one account, owned by
// exactly one transaction. The amount itself is always non-negative; the
// direction carries the sign.
type Entry struct {
	ID        string
	AccountID string
	Direction Direction
	Amount    Money
}

// Transaction is an aggregate of entries that must balance. Construction is
// the only way to obtain one, so an instance is always valid once it exists
// and is never re-checked or mutated afterwards.
type Transaction struct {
	id      string
	name    string
	entries []Entry
}

// NewTransaction validates and builds a transaction. It fails with
// ErrEmptyTransaction when entries is empty and ErrUnbalancedTransaction
// when the signed minor-unit sum over entries is not exactly zero.
func NewTransaction(id, name string, entries []Entry) (*Transaction, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTransaction
	}

	var signedSum int64
	for _, e := range entries {
		signedSum += e.Direction.sign() * e.Amount.MinorUnits()
	}

	if signedSum != 0 {
		return nil, ErrUnbalancedTransaction
	}

	owned := make([]Entry, len(entries))
	copy(owned, entries)

	return &Transaction{id: id, name: name, entries: owned}, nil
}

// ID returns the transaction id.
func (t *Transaction) ID() string {
	return t.id
}

// Name returns the optional transaction name.
func (t *Transaction) Name() string {
	return t.name
}

// Entries returns the transaction's entries in their original order. The
// returned slice is a copy; the aggregate stays immutable.
func (t *Transaction) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)

	return entries
}

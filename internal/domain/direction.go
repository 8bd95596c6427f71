package domain

// Direction is the conventional side of an account or entry. The convention
// is symmetric: neither side is inherently positive, only same-or-opposite
// relative to an account's native direction matters.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// sign maps debit to +1 and credit to -1. Only the relative sign matters;
// flipping the convention leaves every invariant intact.
func (d Direction) sign() int64 {
	if d == DirectionDebit {
		return 1
	}

	return -1
}

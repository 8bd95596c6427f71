package domain

// BalanceOf derives an account's balance from its full entry history. An
// entry posted in the account's own native direction increases the balance;
// an entry in the opposite direction decreases it. The result is independent
// of which side is globally called "debit" and of entry order, and is always
// recomputed rather than stored.
func BalanceOf(accountDirection Direction, entries []Entry) Money {
	var minorUnits int64
	for _, e := range entries {
		if e.Direction == accountDirection {
			minorUnits += e.Amount.MinorUnits()
		} else {
			minorUnits -= e.Amount.MinorUnits()
		}
	}

	return FromMinorUnits(minorUnits, USD)
}

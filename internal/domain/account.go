package domain

// Account is a named ledger bucket with a fixed native direction. Its
// balance is never stored; it is always derived from the account's entry
// history (see BalanceOf), so there is no stored-balance drift.
type Account struct {
	ID        string
	Name      string
	Direction Direction
}

// AccountWithBalance pairs an account with its derived balance for
// presentation.
type AccountWithBalance struct {
	Account
	Balance Money
}

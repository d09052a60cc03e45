package models

import "atrips/src/types"

// Wallet holds a user's stored-value balance, in the smallest currency
// unit. The sum of the user's ledger entries must always equal Balance.
type Wallet struct {
	ID      uint  `gorm:"primarykey" json:"id"`
	UserID  uint  `gorm:"uniqueIndex" json:"user_id"`
	Balance int64 `json:"balance"`

	types.Timestamps
}

// BalanceLedgerEntry is an append-only record of a wallet debit or
// credit. Amount is signed: negative for debits, positive for credits.
type BalanceLedgerEntry struct {
	ID          uint                  `gorm:"primarykey" json:"id"`
	UserID      uint                  `gorm:"index" json:"user_id"`
	Amount      int64                 `json:"amount"`
	Type        types.LedgerEntryType `json:"type"`
	Description string                `json:"description,omitempty"`

	types.Timestamps
}

package wallet

import (
	"errors"
	"fmt"

	"atrips/src/models"
	"atrips/src/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNegativeAmount      = errors.New("amount must not be negative")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

// Debit takes amount from the user's balance and appends exactly one
// ledger entry, inside the caller's transaction so the balance check and
// the decrement are a single atomic step. Fails closed when the balance
// is short: no entry, no balance change, never a negative balance.
func Debit(tx *gorm.DB, userID uint, amount int64, description string) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	w, err := lockWallet(tx, userID)
	if err != nil {
		return err
	}
	if w.Balance < amount {
		return fmt.Errorf("%w: balance %d, amount %d", ErrInsufficientBalance, w.Balance, amount)
	}
	if err := tx.
		Model(&models.Wallet{}).
		Where(&models.Wallet{ID: w.ID}).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount)).
		Error; err != nil {
		return err
	}
	entry := models.BalanceLedgerEntry{
		UserID:      userID,
		Amount:      -amount,
		Type:        types.LEDGER_DEBIT,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// Credit adds amount to the user's balance and appends exactly one
// ledger entry, inside the caller's transaction.
func Credit(tx *gorm.DB, userID uint, amount int64, description string) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	w, err := lockWallet(tx, userID)
	if err != nil {
		return err
	}
	if err := tx.
		Model(&models.Wallet{}).
		Where(&models.Wallet{ID: w.ID}).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).
		Error; err != nil {
		return err
	}
	entry := models.BalanceLedgerEntry{
		UserID:      userID,
		Amount:      amount,
		Type:        types.LEDGER_CREDIT,
		Description: description,
	}
	return tx.Create(&entry).Error
}

// Balance reads the user's stored balance; a user without a wallet row
// has balance 0.
func Balance(db *gorm.DB, userID uint) (int64, error) {
	var w models.Wallet
	err := db.Where(&models.Wallet{UserID: userID}).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Entries lists the user's ledger, newest first.
func Entries(db *gorm.DB, userID uint, limit int) ([]models.BalanceLedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.BalanceLedgerEntry
	err := db.
		Where(&models.BalanceLedgerEntry{UserID: userID}).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).
		Error
	return entries, err
}

// lockWallet loads the user's wallet row FOR UPDATE, creating it on
// first use, so two concurrent debits cannot both pass the balance
// check.
func lockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(&models.Wallet{UserID: userID}).
		First(&w).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		w = models.Wallet{UserID: userID}
		if err := tx.Create(&w).Error; err != nil {
			return nil, err
		}
		return &w, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

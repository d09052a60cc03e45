package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"atrips/src/availability"
	"atrips/src/config"
	"atrips/src/db"
	"atrips/src/lib"
	"atrips/src/models"
	"atrips/src/pricing"
	"atrips/src/types"
	"atrips/src/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotBookable         = errors.New("the selected date is not bookable")
	ErrMissingUser         = errors.New("transaction has no owning user")
	ErrMissingSettings     = errors.New("payment settings are not configured")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// CreateParams is everything checkout needs to freeze a transaction.
type CreateParams struct {
	UserID       uint
	ProductID    uint
	Date         time.Time
	PartySize    int
	MeetingPoint *string
	PaymentMode  types.PaymentMode
	Participants types.ParticipantList
	Metadata     map[string]any
}

// LoadPaymentSettings returns the single settings row, served from redis
// for the duration of a checkout session.
func LoadPaymentSettings() (*models.PaymentSetting, error) {
	rd := lib.GetRedisClient()
	if rd != nil {
		if cached, err := rd.Get(context.Background(), "payment:settings").Result(); err == nil {
			var s models.PaymentSetting
			if err := json.Unmarshal([]byte(cached), &s); err == nil {
				return &s, nil
			}
		}
	}
	var s models.PaymentSetting
	d := db.GetDb()
	if err := d.Model(&models.PaymentSetting{}).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissingSettings
		}
		return nil, err
	}
	if rd != nil {
		if raw, err := json.Marshal(&s); err == nil {
			rd.SetEx(context.Background(), "payment:settings", string(raw), 5*time.Minute)
		}
	}
	return &s, nil
}

// Create validates availability, prices the selection, reserves quota
// and freezes a pending transaction, all in one storage transaction.
// The quota check and increment are a single conditional UPDATE so two
// concurrent bookings cannot both take the last slot.
func Create(params CreateParams, breakdown pricing.Breakdown, product *models.Product, res availability.Resolution, scheduleID *uint) (*models.Transaction, error) {
	if !res.Bookable {
		return nil, ErrNotBookable
	}
	userID := params.UserID
	date := params.Date
	items := fmt.Sprintf("%s x%d (%s)", product.Title, params.PartySize, date.Format(config.DATE_FORMAT))

	metadata := map[string]any{
		"breakdown":    breakdown,
		"payment_mode": params.PaymentMode,
	}
	for k, v := range params.Metadata {
		metadata[k] = v
	}

	txn := &models.Transaction{
		ProductID:    params.ProductID,
		UserID:       &userID,
		Amount:       breakdown.AmountDue,
		Status:       types.TRANSACTION_PENDING,
		Date:         &date,
		Items:        items,
		MeetingPoint: params.MeetingPoint,
		Participants: params.Participants,
	}
	md := types.Metadata(metadata)
	txn.Metadata = &md

	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if scheduleID != nil {
			result := tx.
				Model(&models.Schedule{}).
				Where("id = ? AND booked + ? <= quota", *scheduleID, params.PartySize).
				UpdateColumn("booked", gorm.Expr("booked + ?", params.PartySize))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotBookable
			}
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		log.Printf("Error creating transaction for product [%d]: %s\n", params.ProductID, err.Error())
		return nil, err
	}
	lib.SetPaymentDeadline(txn.ID.String(), txn.CreatedAt.Add(config.PaymentWindow()))
	return txn, nil
}

// PayWithWallet debits the owner's wallet and confirms the transaction
// as one atomic unit. An insufficient balance refuses the transition and
// leaves the transaction pending.
func PayWithWallet(txnID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := lockTransaction(tx, txnID, &txn); err != nil {
			return err
		}
		next, err := Transition(txn.Status, EventWalletPaid)
		if err != nil {
			return err
		}
		if txn.UserID == nil {
			return ErrMissingUser
		}
		desc := fmt.Sprintf("Payment for %s", txn.Items)
		if err := wallet.Debit(tx, *txn.UserID, txn.Amount, desc); err != nil {
			return err
		}
		txn.Status = next
		txn.PaymentMethod = "wallet"
		return tx.
			Model(&models.Transaction{}).
			Where("id = ?", txnID).
			Updates(map[string]any{"status": next, "payment_method": "wallet"}).
			Error
	})
	if err != nil {
		return nil, err
	}
	lib.NotifyTransactionUpdate(txn.ID.String(), string(txn.Status), txn.Amount)
	return &txn, nil
}

// ChooseManualTransfer parks the transaction until a proof is submitted.
// No monetary state changes yet.
func ChooseManualTransfer(txnID uuid.UUID) (*models.Transaction, error) {
	return applyEvent(txnID, EventChooseManual, map[string]any{"payment_method": "manual_transfer"})
}

// SubmitProof records the uploaded proof URL and hands the transaction
// to admin verification. Only valid from waiting_proof.
func SubmitProof(txnID uuid.UUID, receiptURL string) (*models.Transaction, error) {
	if receiptURL == "" {
		return nil, errors.New("an uploaded proof image is required")
	}
	return applyEvent(txnID, EventSubmitProof, map[string]any{"receipt_url": receiptURL})
}

// Verify resolves an admin decision on a submitted proof. Only a
// verification_pending transaction may be verified or rejected.
func Verify(txnID uuid.UUID, accept bool) (*models.Transaction, error) {
	event := EventVerifyAccept
	if !accept {
		event = EventVerifyReject
	}
	return applyEvent(txnID, event, nil)
}

// MarkPaid is the administrative shortcut from pending straight to
// confirmed, for out-of-band payment confirmation.
func MarkPaid(txnID uuid.UUID) (*models.Transaction, error) {
	return applyEvent(txnID, EventMarkPaid, nil)
}

// Fail marks a pending transaction denied by the gateway.
func Fail(txnID uuid.UUID) (*models.Transaction, error) {
	return applyEvent(txnID, EventGatewayDeny, nil)
}

// Refund credits the owner's wallet with the frozen amount and moves the
// transaction to refunded, atomically. A second refund attempt fails the
// transition check, so the credit can never double-apply.
func Refund(txnID uuid.UUID) (*models.Transaction, error) {
	var txn models.Transaction
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := lockTransaction(tx, txnID, &txn); err != nil {
			return err
		}
		next, err := Transition(txn.Status, EventRefund)
		if err != nil {
			return err
		}
		if txn.UserID == nil {
			return ErrMissingUser
		}
		desc := fmt.Sprintf("Refund for %s", txn.Items)
		if err := wallet.Credit(tx, *txn.UserID, txn.Amount, desc); err != nil {
			return err
		}
		txn.Status = next
		return tx.
			Model(&models.Transaction{}).
			Where("id = ?", txnID).
			Update("status", next).
			Error
	})
	if err != nil {
		return nil, err
	}
	lib.NotifyTransactionUpdate(txn.ID.String(), string(txn.Status), txn.Amount)
	return &txn, nil
}

// Purge removes transaction records entirely. Not a lifecycle
// transition; permitted in any state, used for data cleanup only.
func Purge(ids ...uuid.UUID) error {
	d := db.GetDb()
	return d.Transaction(func(tx *gorm.DB) error {
		return tx.Unscoped().Where("id IN (?)", ids).Delete(&models.Transaction{}).Error
	})
}

// ExpireOverdue marks pending/waiting_proof transactions past the
// payment window as expired. Only runs when the sweep is enabled.
func ExpireOverdue(window time.Duration) (int64, error) {
	cutoff := time.Now().Add(-window)
	var expired int64
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		result := tx.
			Model(&models.Transaction{}).
			Where("status IN (?)", []types.TransactionStatus{types.TRANSACTION_PENDING, types.TRANSACTION_WAITING_PROOF}).
			Where("created_at < ?", cutoff).
			Update("status", types.TRANSACTION_EXPIRED)
		if result.Error != nil {
			return result.Error
		}
		expired = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		log.Printf("Expired %d overdue transactions\n", expired)
	}
	return expired, nil
}

// applyEvent runs the pure transition plus any column updates inside one
// storage transaction, so status never moves without its side fields.
func applyEvent(txnID uuid.UUID, event Event, updates map[string]any) (*models.Transaction, error) {
	var txn models.Transaction
	d := db.GetDb()
	err := d.Transaction(func(tx *gorm.DB) error {
		if err := lockTransaction(tx, txnID, &txn); err != nil {
			return err
		}
		next, err := Transition(txn.Status, event)
		if err != nil {
			return err
		}
		if updates == nil {
			updates = map[string]any{}
		}
		updates["status"] = next
		if err := tx.
			Model(&models.Transaction{}).
			Where("id = ?", txnID).
			Updates(updates).
			Error; err != nil {
			return err
		}
		txn.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	lib.NotifyTransactionUpdate(txn.ID.String(), string(txn.Status), txn.Amount)
	return &txn, nil
}

func lockTransaction(tx *gorm.DB, txnID uuid.UUID, out *models.Transaction) error {
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", txnID).
		First(out).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTransactionNotFound
	}
	return err
}

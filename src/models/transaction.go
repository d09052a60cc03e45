package models

import (
	"atrips/src/types"
	"time"

	"github.com/google/uuid"
)

type Transaction struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	ProductID uint  `json:"product_id,omitempty"`
	UserID    *uint `json:"user_id,omitempty"`
	// Amount is the payable amount for the chosen payment split, in the
	// smallest currency unit, frozen at creation time. Later changes to
	// product price, discount or tax never alter it.
	Amount        int64                   `json:"amount"`
	Status        types.TransactionStatus `gorm:"default:'pending'" json:"status"`
	Date          *time.Time              `gorm:"type:date" json:"date,omitempty"`
	Items         string                  `json:"items,omitempty"`
	Participants  types.ParticipantList   `gorm:"type:jsonb" json:"participants,omitempty"`
	MeetingPoint  *string                 `json:"meeting_point,omitempty"`
	PaymentMethod string                  `json:"payment_method,omitempty"`
	ReceiptURL    *string                 `json:"receipt_url,omitempty"`
	Metadata      *types.Metadata         `gorm:"type:jsonb" json:"metadata,omitempty"`

	Product Product `gorm:"foreignKey:product_id" json:"product,omitempty"`
	User    *User   `gorm:"foreignKey:user_id" json:"-"`

	types.Timestamps
}

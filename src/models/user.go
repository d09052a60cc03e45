package models

import (
	"atrips/src/types"
	"time"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Name          string     `json:"name,omitempty"`
	Email         string     `gorm:"uniqueIndex" json:"email,omitempty"`
	Role          string     `gorm:"default:'customer'" json:"role,omitempty"`
	PasswordHash  string     `json:"-"`
	EmailVerified bool       `json:"email_verified,omitempty"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`

	Wallet       *Wallet       `gorm:"foreignKey:user_id" json:"wallet,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:user_id" json:"transactions,omitempty"`

	types.Timestamps
}

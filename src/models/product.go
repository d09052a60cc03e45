package models

import "atrips/src/types"

type Product struct {
	ID          uint                  `gorm:"primarykey" json:"id"`
	Category    types.ProductCategory `gorm:"default:'trip'" json:"category,omitempty"`
	Slug        string                `gorm:"uniqueIndex" json:"slug,omitempty"`
	Title       string                `json:"title,omitempty"`
	Description *string               `json:"description,omitempty"`
	// Price is the flat fallback per-unit price, in the smallest currency
	// unit, used when a Schedule carries no price of its own.
	Price       int64   `json:"price"`
	DiscountPct float64 `json:"discount_pct"`
	// Duration is a free-text descriptor ("3D2N", "2 hari 1 malam").
	// availability.ParseDurationDays is the only parser for it.
	Duration string `json:"duration,omitempty"`
	// MeetingPoint is the legacy global pickup location, surfaced as the
	// sole option when the product has no Schedules.
	MeetingPoint *string `json:"meeting_point,omitempty"`

	Schedules []Schedule `gorm:"foreignKey:product_id" json:"schedules,omitempty"`
	Packages  []Package  `gorm:"foreignKey:product_id" json:"packages,omitempty"`

	types.Timestamps
}

// Package is an optional add-on priced once per participant.
type Package struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `json:"product_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Price     int64  `json:"price"`

	types.Timestamps
}

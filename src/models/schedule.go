package models

import (
	"atrips/src/types"
	"time"
)

// Schedule is one dated offering of a product. Invariant after every
// successful booking: 0 <= booked <= quota.
type Schedule struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id,omitempty"`
	Date      time.Time `gorm:"type:date" json:"date"`
	Quota     int       `json:"quota"`
	Booked    int       `json:"booked"`
	Price     int64     `json:"price"`

	MeetingPoints []MeetingPoint `gorm:"foreignKey:schedule_id" json:"meeting_points,omitempty"`

	types.Timestamps
}

func (s *Schedule) Remaining() int {
	return s.Quota - s.Booked
}

// MeetingPoint is a named pickup location tied to one Schedule. A nil
// Price falls back to the Schedule price.
type MeetingPoint struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	ScheduleID uint   `gorm:"index" json:"schedule_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Price      *int64 `json:"price,omitempty"`

	types.Timestamps
}

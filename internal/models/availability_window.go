package models

import "time"

// AvailabilityWindow is a recurring weekly slot in the counsellor's local
// timezone. StartTime/EndTime are "15:04" time-of-day strings.
type AvailabilityWindow struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CounsellorID uint       `gorm:"index;not null" json:"counsellor_id"`
	Counsellor   Counsellor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Weekday   int    `json:"weekday"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

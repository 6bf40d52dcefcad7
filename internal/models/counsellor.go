package models

import "time"

type Counsellor struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	DisplayName     string `gorm:"size:100;not null" json:"display_name"`
	Timezone        string `gorm:"size:50" json:"timezone"`
	DefaultDuration int    `gorm:"default:30" json:"default_duration"`

	// Opaque calendar-provider payload, passed through untouched.
	CalendarPayload string `gorm:"type:text" json:"calendar_payload,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

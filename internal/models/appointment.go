package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CounsellorID uint       `gorm:"index;not null" json:"counsellor_id"`
	Counsellor   Counsellor `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"counsellor,omitempty"`

	// Nullable: helpline-mode and anonymous bookings have no student record.
	StudentID *uint `gorm:"index" json:"student_id,omitempty"`
	Student   *User `gorm:"foreignKey:StudentID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"student,omitempty"`

	// Opaque access token handed to anonymous joiners.
	SessionToken string `gorm:"size:64" json:"session_token,omitempty"`

	Mode string `gorm:"size:20;not null" json:"mode"`

	StartAt time.Time `gorm:"index;not null" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;default:'SCHEDULED'" json:"status"`

	MeetingLink string `gorm:"size:255" json:"meeting_link,omitempty"`
	IcsLink     string `gorm:"type:text" json:"ics_link,omitempty"`

	// Encrypted blob, never interpreted here.
	NotesEncrypted string `gorm:"type:text" json:"notes_encrypted,omitempty"`

	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

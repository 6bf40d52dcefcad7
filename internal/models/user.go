package models

import "time"

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Name  string `gorm:"size:100" json:"name,omitempty"`
	Role  string `gorm:"size:20;not null;default:'STUDENT'" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

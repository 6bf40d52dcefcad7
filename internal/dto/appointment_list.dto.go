package dto

import "time"

type AppointmentListDTO struct {
	ID             uint      `json:"id"`
	CounsellorID   uint      `json:"counsellor_id"`
	CounsellorName string    `json:"counsellor_name,omitempty"`
	StudentID      *uint     `json:"student_id,omitempty"`
	StudentName    string    `json:"student_name,omitempty"`
	Mode           string    `json:"mode"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	Status         string    `json:"status"`
	MeetingLink    string    `json:"meeting_link,omitempty"`
}

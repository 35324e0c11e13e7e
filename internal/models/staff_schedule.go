package models

import "time"

// StaffSchedule is one shift of a staff member on one weekday. Shifts always
// fall inside the business opening hours of that day.
type StaffSchedule struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	StaffID uint  `gorm:"index:idx_staff_schedule_day,priority:1;not null" json:"staff_id"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Weekday int `gorm:"index:idx_staff_schedule_day,priority:2;not null" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s StaffSchedule) Day() int               { return s.Weekday }
func (s StaffSchedule) Span() (string, string) { return s.StartTime, s.EndTime }

package models

import "time"

// BusinessSchedule is one opening interval of a business on one weekday.
// A day with several intervals has several rows.
type BusinessSchedule struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index:idx_schedule_business_day,priority:1;not null" json:"business_id"`

	// Weekday follows time.Weekday: 0=Sunday .. 6=Saturday.
	Weekday int `gorm:"index:idx_schedule_business_day,priority:2;not null" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s BusinessSchedule) Day() int               { return s.Weekday }
func (s BusinessSchedule) Span() (string, string) { return s.StartTime, s.EndTime }

// ScheduleRow is one stored interval of a weekly schedule, either a business
// opening or a staff shift.
type ScheduleRow interface {
	Day() int
	Span() (start, end string)
}

package entity

import "time"

const ReminderKindTwoHours = "2h"

type ReminderRecord struct {
	MeetingID string    `gorm:"primaryKey" json:"meeting_id"`
	Kind      string    `gorm:"primaryKey" json:"kind"`
	FiredAt   time.Time `gorm:"not null;index" json:"fired_at"`
}

package entity

import "time"

const (
	BoardSlotToday = "today"
	BoardSlotWeek  = "week"
)

// BoardSlot maps a board slot to the chat message currently showing it.
type BoardSlot struct {
	Slot      string    `gorm:"primaryKey"`
	MessageID string    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

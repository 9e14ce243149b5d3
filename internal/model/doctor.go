package model

import "time"

// Doctor is static roster configuration, not a stored row. The display
// name doubles as the natural key referenced by appointments.
type Doctor struct {
	ID           string        `mapstructure:"id" json:"id"`
	Name         string        `mapstructure:"name" json:"name"`
	Image        string        `mapstructure:"image" json:"image,omitempty"`
	Availability WeeklyWindow  `mapstructure:"availability" json:"availability"`
	Holidays     []string      `mapstructure:"holidays" json:"holidays,omitempty"`
	BlockedSlots []BlockedSlot `mapstructure:"blocked_slots" json:"blocked_slots,omitempty"`
	SlotMinutes  int           `mapstructure:"slot_minutes" json:"slot_minutes"`
}

// WeeklyWindow is a doctor's recurring availability: which weekdays they
// consult and between which hours.
type WeeklyWindow struct {
	Days      []time.Weekday `mapstructure:"days" json:"days"`
	StartHour int            `mapstructure:"start_hour" json:"start_hour"`
	EndHour   int            `mapstructure:"end_hour" json:"end_hour"`
}

// BlockedSlot is a one-off override removing a slot from availability.
type BlockedSlot struct {
	Date  string `mapstructure:"date" json:"date"`
	Start string `mapstructure:"start" json:"start"`
	End   string `mapstructure:"end" json:"end"`
}

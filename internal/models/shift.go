package models

// Shift is a daily time slot, times formatted HH:MM.
// EndTime before StartTime means the slot runs past midnight.
type Shift struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

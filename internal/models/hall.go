package models

// Hall is a reading room; its seats are numbered 1..SeatCount
type Hall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SeatCount int    `json:"seat_count"`
}

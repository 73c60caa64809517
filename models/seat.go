package models

import "time"

// Seat is a user's occupancy slot in a match. Idx is the slot position in
// every Turn of that match (0 = creator). A seat is deleted only while the
// match is still registering; once play starts, quitting just flips
// Active to false and the seat keeps its score and history.
type Seat struct {
	ID       string `json:"id" gorm:"primaryKey"`
	MatchID  string `json:"match_id" gorm:"uniqueIndex:uniq_match_seat;index;not null"`
	UserName string `json:"user_name" gorm:"uniqueIndex:uniq_match_seat;index;not null"`
	Idx      int    `json:"idx" gorm:"not null"`
	Score    int    `json:"score" gorm:"not null;default:0"`
	Active   bool   `json:"active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package models

import (
	"time"
)

// MatchState only ever moves forward: registering -> active -> finished.
type MatchState string

const (
	StateRegistering MatchState = "registering"
	StateActive      MatchState = "active"
	StateFinished    MatchState = "finished"
)

// Match is one play session. Capacity and Goal are fixed at creation;
// State and LastModified are mutated only inside a per-match transaction.
// LastModified is the staleness marker polled by clients — it advances on
// every persisted mutation and is compared for equality only.
type Match struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	Capacity     int        `json:"capacity" gorm:"not null"`
	Goal         int        `json:"goal" gorm:"not null"`
	State        MatchState `json:"state" gorm:"type:varchar(16);not null;default:'registering';index"`
	LastModified int64      `json:"last_modified" gorm:"not null;index"`

	// Raw ledger stays out of JSON responses: the open turn may hold
	// moves other seats must not see. Reads go through the view service.
	Turns Turns `json:"-" gorm:"type:text"`

	// Set by the archive worker once the finished match has been
	// exported to object storage.
	Archived bool `json:"-" gorm:"not null;default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Seats []Seat `json:"seats" gorm:"foreignKey:MatchID"`
}

// SeatFor returns the viewer's seat, or nil when they hold none.
func (m *Match) SeatFor(user string) *Seat {
	for i := range m.Seats {
		if m.Seats[i].UserName == user {
			return &m.Seats[i]
		}
	}
	return nil
}

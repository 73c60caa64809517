package services

import (
	"matcharena/models"
	"matcharena/store"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// ViewService is the read model for page rendering: it projects a match
// through the visibility filter so a viewer never learns an opponent's
// submitted-but-unrevealed move.
type ViewService struct {
	Store *store.Gateway
}

func NewViewService(st *store.Gateway) *ViewService {
	return &ViewService{Store: st}
}

// TurnSlot is one seat's cell in a displayed turn. Exactly one of Move
// set, Hidden true, or both zero (slot still empty) holds.
type TurnSlot struct {
	Move   string `json:"move,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
	Winner bool   `json:"winner,omitempty"`
}

// TurnView is a turn as a given viewer may see it.
type TurnView struct {
	Slots  []TurnSlot `json:"slots"`
	Closed bool       `json:"closed"`
}

// SeatView is the public face of a seat.
type SeatView struct {
	UserName string `json:"user_name"`
	Score    int    `json:"score"`
	Active   bool   `json:"active"`
}

// MatchView is the full viewer-filtered read model of one match.
type MatchView struct {
	ID           string            `json:"id"`
	Capacity     int               `json:"capacity"`
	Goal         int               `json:"goal"`
	State        models.MatchState `json:"state"`
	LastModified int64             `json:"last_modified"`
	Seats        []SeatView        `json:"seats"`
	Turns        []TurnView        `json:"turns"`
	YourTurn     bool              `json:"your_turn"`
}

// GetMatch loads a match and projects it for viewer. The read runs
// inside the match transaction so the turn ledger and the seat scores
// come from one snapshot; a turn closing mid-read cannot produce a view
// where the two disagree.
func (s *ViewService) GetMatch(matchID, viewer string) (*MatchView, error) {
	var view *MatchView
	err := s.Store.WithMatchTransaction(matchID, func(tx *gorm.DB, m *models.Match) error {
		if m.State == models.StateRegistering {
			// The board page only exists once play starts; registration
			// progress is shown by the match lists.
			return ErrWrongState
		}
		view = projectMatch(m, viewer)
		return nil
	})
	if err != nil {
		return nil, storeErr(err)
	}
	return view, nil
}

func projectMatch(m *models.Match, viewer string) *MatchView {
	view := &MatchView{
		ID:           m.ID,
		Capacity:     m.Capacity,
		Goal:         m.Goal,
		State:        m.State,
		LastModified: m.LastModified,
		Seats:        make([]SeatView, 0, len(m.Seats)),
		Turns:        VisibleTurns(m, viewer),
		YourTurn:     IsViewersTurn(m, viewer),
	}
	for _, seat := range m.Seats {
		view.Seats = append(view.Seats, SeatView{
			UserName: seat.UserName,
			Score:    seat.Score,
			Active:   seat.Active,
		})
	}
	return view
}

// VisibleTurns renders the turn ledger for one viewer. Closed turns are
// fully visible with the winning slot flagged; in the open turn the
// viewer sees only their own move, other set slots render as hidden.
func VisibleTurns(m *models.Match, viewer string) []TurnView {
	viewerIdx := -1
	if seat := m.SeatFor(viewer); seat != nil {
		viewerIdx = seat.Idx
	}

	title := cases.Title(language.English)
	views := make([]TurnView, 0, len(m.Turns))
	for _, t := range m.Turns {
		tv := TurnView{Slots: make([]TurnSlot, len(t)), Closed: t.Closed()}
		if tv.Closed {
			w := turnWinner(t)
			for i, mv := range t {
				tv.Slots[i] = TurnSlot{
					Move:   title.String(mv.Name()),
					Winner: i == w,
				}
			}
		} else {
			for i, mv := range t {
				switch {
				case mv == nil:
					// Slot still empty.
				case i == viewerIdx:
					tv.Slots[i] = TurnSlot{Move: title.String(mv.Name())}
				default:
					tv.Slots[i] = TurnSlot{Hidden: true}
				}
			}
		}
		views = append(views, tv)
	}
	return views
}

// IsViewersTurn reports whether the match is waiting on this user: the
// match is active and either no turn exists yet, the last turn closed,
// or the open turn's slot for this seat is still empty.
func IsViewersTurn(m *models.Match, viewer string) bool {
	if m.State != models.StateActive {
		return false
	}
	seat := m.SeatFor(viewer)
	if seat == nil || !seat.Active {
		return false
	}
	open := m.Turns.Open()
	if open == nil {
		return true
	}
	return open[seat.Idx] == nil
}

package services

import (
	"matcharena/models"
	"matcharena/store"

	"gorm.io/gorm"
)

// PlayService is the turn ledger plus resolution engine. SubmitMove is
// the only writer of turns and scores, and slot-write, resolution, score
// update and goal detection all commit as one atomic step — a submission
// racing a just-closed turn observes the new open turn, never the old
// one.
type PlayService struct {
	Store *store.Gateway
}

func NewPlayService(st *store.Gateway) *PlayService {
	return &PlayService{Store: st}
}

// SubmitMove records user's move in the open turn, starting a new turn
// if none is open. Moves against a non-active match, unrecognized
// symbols, moves from quit seats and second moves in the same turn are
// silently discarded — the original client flow treats a move as a page
// action, not a call that can fail.
func (s *PlayService) SubmitMove(matchID, user string, move models.Move) error {
	err := s.Store.WithMatchTransaction(matchID, func(tx *gorm.DB, m *models.Match) error {
		if m.State != models.StateActive || !move.Valid() {
			return nil
		}
		seat := m.SeatFor(user)
		if seat == nil {
			return ErrNotInMatch
		}
		if !seat.Active {
			return nil
		}

		open := m.Turns.Open()
		if open == nil {
			t := models.NewTurn(m.Capacity)
			t[seat.Idx] = &move
			m.Turns = append(m.Turns, t)
			return tx.Model(m).Updates(map[string]interface{}{
				"turns":         m.Turns,
				"last_modified": s.Store.Stamp(),
			}).Error
		}

		if open[seat.Idx] != nil {
			// Already moved this turn.
			return nil
		}
		open[seat.Idx] = &move

		updates := map[string]interface{}{
			"turns":         m.Turns,
			"last_modified": s.Store.Stamp(),
		}
		if open.Closed() {
			if w := turnWinner(open); w >= 0 && w < len(m.Seats) {
				winner := &m.Seats[w]
				winner.Score++
				if err := tx.Model(winner).Update("score", winner.Score).Error; err != nil {
					return err
				}
				if winner.Score >= m.Goal {
					updates["state"] = models.StateFinished
				}
			}
		}
		return tx.Model(m).Updates(updates).Error
	})
	return storeErr(err)
}

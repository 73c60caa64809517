package services

import (
	"matcharena/models"
	"matcharena/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MatchService owns the match lifecycle: creation, seat occupancy during
// registration and the registering -> active transition. All mutations
// run inside the gateway's per-match transaction.
type MatchService struct {
	Store *store.Gateway
}

func NewMatchService(st *store.Gateway) *MatchService {
	return &MatchService{Store: st}
}

// CreateMatch inserts a registering match with the creator in seat 0.
func (s *MatchService) CreateMatch(capacity, goal int, creator string) (string, error) {
	if capacity < 2 || goal < 1 || creator == "" {
		return "", ErrValidation
	}
	m := &models.Match{
		ID:           uuid.NewString(),
		Capacity:     capacity,
		Goal:         goal,
		State:        models.StateRegistering,
		LastModified: s.Store.Stamp(),
		Turns:        models.Turns{},
	}
	seat := &models.Seat{
		ID:       uuid.NewString(),
		MatchID:  m.ID,
		UserName: creator,
		Idx:      0,
		Active:   true,
	}
	if err := s.Store.InsertMatch(m, seat); err != nil {
		return "", storeErr(err)
	}
	return m.ID, nil
}

// JoinMatch adds a seat for user. Filling the last seat flips the match
// to active in the same atomic step, so two racing joins on the final
// seat can never both succeed: the loser observes the state change and
// gets ErrAlreadyFull. Joining a match the user already occupies is a
// no-op.
func (s *MatchService) JoinMatch(matchID, user string) error {
	err := s.Store.WithMatchTransaction(matchID, func(tx *gorm.DB, m *models.Match) error {
		if m.State != models.StateRegistering {
			return ErrAlreadyFull
		}
		if m.SeatFor(user) != nil {
			return nil
		}
		seat := &models.Seat{
			ID:       uuid.NewString(),
			MatchID:  m.ID,
			UserName: user,
			Idx:      len(m.Seats),
			Active:   true,
		}
		if err := tx.Create(seat).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"last_modified": s.Store.Stamp(),
		}
		if len(m.Seats)+1 == m.Capacity {
			updates["state"] = models.StateActive
		}
		return tx.Model(m).Updates(updates).Error
	})
	return storeErr(err)
}

// QuitMatch removes the user's stake in a match. While registering the
// seat is deleted (and the match with it when the last occupant leaves);
// remaining seats are re-packed so slot indexes stay 0..n-1. Once play
// has started the seat only goes inactive and the match carries on.
func (s *MatchService) QuitMatch(matchID, user string) error {
	err := s.Store.WithMatchTransaction(matchID, func(tx *gorm.DB, m *models.Match) error {
		seat := m.SeatFor(user)
		if seat == nil {
			return ErrNotInMatch
		}

		if m.State != models.StateRegistering {
			if err := tx.Model(seat).Update("active", false).Error; err != nil {
				return err
			}
			return tx.Model(m).Update("last_modified", s.Store.Stamp()).Error
		}

		if err := tx.Delete(seat).Error; err != nil {
			return err
		}
		if len(m.Seats) == 1 {
			return tx.Delete(m).Error
		}
		// Re-pack slot indexes; m.Seats is ordered by idx.
		next := 0
		for i := range m.Seats {
			if m.Seats[i].ID == seat.ID {
				continue
			}
			if m.Seats[i].Idx != next {
				if err := tx.Model(&m.Seats[i]).Update("idx", next).Error; err != nil {
					return err
				}
			}
			next++
		}
		return tx.Model(m).Update("last_modified", s.Store.Stamp()).Error
	})
	return storeErr(err)
}

// ActiveMatchesFor lists every match the user holds a seat in, oldest
// first.
func (s *MatchService) ActiveMatchesFor(user string) ([]models.Match, error) {
	var ms []models.Match
	err := s.Store.DB.
		Joins("JOIN seats ON seats.match_id = matches.id").
		Where("seats.user_name = ?", user).
		Order("matches.created_at, matches.id").
		Preload("Seats", func(db *gorm.DB) *gorm.DB { return db.Order("seats.idx") }).
		Find(&ms).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return ms, nil
}

// RegisteringMatchesExcluding lists joinable matches: still registering
// and not already occupied by the user.
func (s *MatchService) RegisteringMatchesExcluding(user string) ([]models.Match, error) {
	taken := s.Store.DB.Model(&models.Seat{}).
		Select("match_id").
		Where("user_name = ?", user)

	var ms []models.Match
	err := s.Store.DB.
		Where("state = ? AND id NOT IN (?)", models.StateRegistering, taken).
		Order("created_at, id").
		Preload("Seats", func(db *gorm.DB) *gorm.DB { return db.Order("seats.idx") }).
		Find(&ms).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return ms, nil
}

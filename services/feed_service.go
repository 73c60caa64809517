package services

import (
	"matcharena/models"
	"matcharena/store"
)

// FeedService answers the cheap polling questions: "did this match
// change?" and "did anything in my two lists change?". Pure short-poll —
// equality comparison on opaque markers, no diffing, no server-side
// waiting.
type FeedService struct {
	Store *store.Gateway
}

func NewFeedService(st *store.Gateway) *FeedService {
	return &FeedService{Store: st}
}

// PollMatchStaleness returns the match's current staleness marker.
func (s *FeedService) PollMatchStaleness(matchID string) (int64, error) {
	var m models.Match
	err := s.Store.DB.Select("last_modified").First(&m, "id = ?", matchID).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return m.LastModified, nil
}

// PollListStaleness returns one marker per list: the max marker over the
// user's own matches, and over registering matches the user has not
// joined. Either is 0 when its list is empty.
func (s *FeedService) PollListStaleness(user string) (int64, int64, error) {
	var active int64
	err := s.Store.DB.Model(&models.Match{}).
		Joins("JOIN seats ON seats.match_id = matches.id").
		Where("seats.user_name = ?", user).
		Select("COALESCE(MAX(matches.last_modified), 0)").
		Scan(&active).Error
	if err != nil {
		return 0, 0, storeErr(err)
	}

	taken := s.Store.DB.Model(&models.Seat{}).
		Select("match_id").
		Where("user_name = ?", user)

	var registering int64
	err = s.Store.DB.Model(&models.Match{}).
		Where("state = ? AND id NOT IN (?)", models.StateRegistering, taken).
		Select("COALESCE(MAX(last_modified), 0)").
		Scan(&registering).Error
	if err != nil {
		return 0, 0, storeErr(err)
	}
	return active, registering, nil
}

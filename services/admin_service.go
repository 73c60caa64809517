package services

import (
	"matcharena/models"

	"gorm.io/gorm"
)

// AdminService backs the operator dump/clear endpoints. Dump exposes the
// raw turn ledgers, which is exactly why the routes sit behind the admin
// token middleware.
type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

type DumpMatch struct {
	ID           string            `json:"id"`
	Capacity     int               `json:"capacity"`
	Goal         int               `json:"goal"`
	State        models.MatchState `json:"state"`
	LastModified int64             `json:"last_modified"`
	Archived     bool              `json:"archived"`
	Turns        models.Turns      `json:"turns"`
}

type SystemDump struct {
	Users   []string      `json:"users"`
	Matches []DumpMatch   `json:"matches"`
	Seats   []models.Seat `json:"seats"`
}

func (s *AdminService) Dump() (*SystemDump, error) {
	dump := &SystemDump{}

	if err := s.DB.Model(&models.User{}).Order("name").Pluck("name", &dump.Users).Error; err != nil {
		return nil, storeErr(err)
	}

	var matches []models.Match
	if err := s.DB.Order("created_at, id").Find(&matches).Error; err != nil {
		return nil, storeErr(err)
	}
	for _, m := range matches {
		dump.Matches = append(dump.Matches, DumpMatch{
			ID:           m.ID,
			Capacity:     m.Capacity,
			Goal:         m.Goal,
			State:        m.State,
			LastModified: m.LastModified,
			Archived:     m.Archived,
			Turns:        m.Turns,
		})
	}

	if err := s.DB.Order("match_id, idx").Find(&dump.Seats).Error; err != nil {
		return nil, storeErr(err)
	}
	return dump, nil
}

// Clear wipes matches and seats; with all it also drops users and
// sessions.
func (s *AdminService) Clear(all bool) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Seat{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if !all {
			return nil
		}
		if err := tx.Where("1 = 1").Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&models.User{}).Error
	})
	return storeErr(err)
}

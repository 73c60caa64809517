package services

import (
	"log"
	"time"

	"matcharena/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartReaper schedules a cleanup job that deletes registering matches
// nobody has touched for ttl. Each removal re-checks the state inside
// the match transaction, so a match that activated after the sweep query
// is left alone.
func (s *MatchService) StartReaper(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-ttl).UnixNano()
			var stale []models.Match
			err := s.Store.DB.
				Where("state = ? AND last_modified < ?", models.StateRegistering, cutoff).
				Find(&stale).Error
			if err != nil {
				log.Printf("[REAPER] DB error: %v", err)
				return
			}

			for _, candidate := range stale {
				err := s.Store.WithMatchTransaction(candidate.ID, func(tx *gorm.DB, m *models.Match) error {
					if m.State != models.StateRegistering || m.LastModified >= cutoff {
						return nil
					}
					if err := tx.Delete(&models.Seat{}, "match_id = ?", m.ID).Error; err != nil {
						return err
					}
					return tx.Delete(m).Error
				})
				if err != nil {
					log.Printf("[REAPER] Failed to remove match %s: %v", candidate.ID, err)
				} else {
					log.Printf("[REAPER] Removed idle registering match %s", candidate.ID)
				}
			}
		}),
	)
}

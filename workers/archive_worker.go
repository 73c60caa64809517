package workers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"matcharena/models"
	"matcharena/utils"

	"gorm.io/gorm"
)

// MatchArchiver exports finished matches — full turn ledger and final
// scores — to object storage as JSON, then marks the row archived so the
// next sweep skips it.
type MatchArchiver struct {
	DB *gorm.DB
}

func NewMatchArchiver(db *gorm.DB) *MatchArchiver {
	return &MatchArchiver{DB: db}
}

type archivedSeat struct {
	UserName string `json:"user_name"`
	Score    int    `json:"score"`
	Active   bool   `json:"active"`
}

type archivedMatch struct {
	ID         string         `json:"id"`
	Capacity   int            `json:"capacity"`
	Goal       int            `json:"goal"`
	FinishedAt time.Time      `json:"finished_at"`
	Seats      []archivedSeat `json:"seats"`
	Turns      models.Turns   `json:"turns"`
}

// ArchiveOnce uploads one batch of unarchived finished matches and
// returns how many were exported. A failed upload leaves the row
// unarchived for the next tick.
func (w *MatchArchiver) ArchiveOnce(ctx context.Context) (int, error) {
	var finished []models.Match
	err := w.DB.WithContext(ctx).
		Where("state = ? AND archived = ?", models.StateFinished, false).
		Limit(25).
		Find(&finished).Error
	if err != nil {
		return 0, err
	}

	archived := 0
	for _, m := range finished {
		var seats []models.Seat
		if err := w.DB.WithContext(ctx).Order("idx").Find(&seats, "match_id = ?", m.ID).Error; err != nil {
			return archived, err
		}

		export := archivedMatch{
			ID:         m.ID,
			Capacity:   m.Capacity,
			Goal:       m.Goal,
			FinishedAt: m.UpdatedAt,
			Turns:      m.Turns,
		}
		for _, seat := range seats {
			export.Seats = append(export.Seats, archivedSeat{
				UserName: seat.UserName,
				Score:    seat.Score,
				Active:   seat.Active,
			})
		}

		body, err := json.Marshal(export)
		if err != nil {
			return archived, err
		}
		if _, err := utils.UploadBytesToR2(ctx, "matches/"+m.ID+".json", body, "application/json"); err != nil {
			log.Printf("[ARCHIVE] Upload failed for match %s: %v", m.ID, err)
			continue
		}
		if err := w.DB.WithContext(ctx).Model(&m).Update("archived", true).Error; err != nil {
			return archived, err
		}
		archived++
	}
	return archived, nil
}

// PollFinishedMatches runs the archiver on a fixed interval until ctx is
// canceled.
func PollFinishedMatches(ctx context.Context, w *MatchArchiver, pollInterval time.Duration) {
	log.Println("Starting finished-match archiver...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Finished-match archiver stopped.")
			return
		case <-ticker.C:
			n, err := w.ArchiveOnce(ctx)
			if err != nil {
				log.Printf("[ARCHIVE] Sweep failed: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[ARCHIVE] Exported %d finished match(es)", n)
			}
		}
	}
}

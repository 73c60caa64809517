package store

import (
	"sync"
	"time"

	"matcharena/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway owns all persistence for users, matches and seats. Its one hard
// contract is WithMatchTransaction: every mutation of a match row (state,
// seats, turn ledger, scores) happens inside a per-match atomic
// read-modify-write, so two concurrent joins or moves on the same match
// serialize while operations on different matches never block each other.
type Gateway struct {
	DB *gorm.DB

	// Postgres serializes via SELECT ... FOR UPDATE. Dialects without
	// row locks (the sqlite test setup) fall back to a per-match mutex.
	lockRows bool

	mu         sync.Mutex
	matchLocks map[string]*sync.Mutex

	stampMu   sync.Mutex
	lastStamp int64
}

func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{
		DB:         db,
		lockRows:   db.Dialector.Name() == "postgres",
		matchLocks: make(map[string]*sync.Mutex),
	}
}

// Stamp returns a strictly increasing staleness marker. Wall-clock
// unix-nanos, nudged forward if the clock ever reads the same or earlier
// value twice, so equality comparison on the client side is sound.
func (g *Gateway) Stamp() int64 {
	g.stampMu.Lock()
	defer g.stampMu.Unlock()
	now := time.Now().UnixNano()
	if now <= g.lastStamp {
		now = g.lastStamp + 1
	}
	g.lastStamp = now
	return now
}

// lockFor returns the serializing mutex for a match. Entries are never
// reclaimed; this path only runs on lock-less dialects.
func (g *Gateway) lockFor(matchID string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.matchLocks[matchID]
	if !ok {
		l = &sync.Mutex{}
		g.matchLocks[matchID] = l
	}
	return l
}

// WithMatchTransaction loads the match and its seats (ordered by slot
// index) under an exclusive claim and runs fn inside the transaction.
// If fn returns an error the whole transaction rolls back, so a failed
// operation is never partially applied. Returns gorm.ErrRecordNotFound
// when the match does not exist.
func (g *Gateway) WithMatchTransaction(matchID string, fn func(tx *gorm.DB, m *models.Match) error) error {
	if !g.lockRows {
		l := g.lockFor(matchID)
		l.Lock()
		defer l.Unlock()
	}
	return g.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		if g.lockRows {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var m models.Match
		if err := q.First(&m, "id = ?", matchID).Error; err != nil {
			return err
		}
		if err := tx.Order("idx").Find(&m.Seats, "match_id = ?", matchID).Error; err != nil {
			return err
		}
		return fn(tx, &m)
	})
}

// InsertMatch creates a match together with its creator seat atomically.
func (g *Gateway) InsertMatch(m *models.Match, creator *models.Seat) error {
	return g.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Create(creator).Error
	})
}

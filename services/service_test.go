package services

import (
	"testing"

	"matcharena/models"
	"matcharena/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestGateway spins up an isolated in-memory database. The sqlite
// dialect has no row locks, so the gateway serializes match transactions
// through its per-match mutex — the same contract the concurrency tests
// exercise.
func newTestGateway(t *testing.T) *store.Gateway {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Match{},
		&models.Seat{},
	))
	return store.NewGateway(db)
}

func loadMatch(t *testing.T, gw *store.Gateway, id string) *models.Match {
	t.Helper()
	var m models.Match
	require.NoError(t, gw.DB.First(&m, "id = ?", id).Error)
	require.NoError(t, gw.DB.Order("idx").Find(&m.Seats, "match_id = ?", id).Error)
	return &m
}

// newActivePair creates a capacity-2 match with alice and bob seated and
// the match already active.
func newActivePair(t *testing.T, goal int) (*store.Gateway, *MatchService, *PlayService, string) {
	t.Helper()
	gw := newTestGateway(t)
	ms := NewMatchService(gw)
	ps := NewPlayService(gw)
	id, err := ms.CreateMatch(2, goal, "alice")
	require.NoError(t, err)
	require.NoError(t, ms.JoinMatch(id, "bob"))
	return gw, ms, ps, id
}

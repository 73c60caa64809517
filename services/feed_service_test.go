package services

import (
	"testing"

	"matcharena/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchStalenessUnchangedWithoutMutation(t *testing.T) {
	gw, _, _, id := newActivePair(t, 3)
	feed := NewFeedService(gw)

	first, err := feed.PollMatchStaleness(id)
	require.NoError(t, err)
	second, err := feed.PollMatchStaleness(id)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMatchStalenessAdvancesOnMove(t *testing.T) {
	gw, _, ps, id := newActivePair(t, 3)
	feed := NewFeedService(gw)

	before, err := feed.PollMatchStaleness(id)
	require.NoError(t, err)

	require.NoError(t, ps.SubmitMove(id, "alice", models.MoveRock))

	after, err := feed.PollMatchStaleness(id)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}

func TestMatchStalenessUnknownMatch(t *testing.T) {
	feed := NewFeedService(newTestGateway(t))
	_, err := feed.PollMatchStaleness("no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListStalenessCoversBothLists(t *testing.T) {
	gw := newTestGateway(t)
	ms := NewMatchService(gw)
	feed := NewFeedService(gw)

	active, registering, err := feed.PollListStaleness("alice")
	require.NoError(t, err)
	assert.Zero(t, active)
	assert.Zero(t, registering)

	// Alice's own match shows up in her active-list marker only.
	mine, err := ms.CreateMatch(2, 3, "alice")
	require.NoError(t, err)
	active, registering, err = feed.PollListStaleness("alice")
	require.NoError(t, err)
	assert.NotZero(t, active)
	assert.Zero(t, registering)

	// Bob's open match moves her registering-list marker.
	_, err = ms.CreateMatch(2, 3, "bob")
	require.NoError(t, err)
	_, registering, err = feed.PollListStaleness("alice")
	require.NoError(t, err)
	assert.NotZero(t, registering)

	// A join by bob bumps the active marker for alice.
	require.NoError(t, ms.JoinMatch(mine, "bob"))
	bumped, _, err := feed.PollListStaleness("alice")
	require.NoError(t, err)
	assert.Greater(t, bumped, active)
}

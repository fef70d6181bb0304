package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaderboardFixture() (*fakeStore, LeaderboardService) {
	store := newFakeStore()
	return store, NewLeaderboardService(fakeLeaderboardRepo{store})
}

func TestListToursIsDistinctSortedAndNonEmpty(t *testing.T) {
	store, svc := newLeaderboardFixture()
	store.rawTours = []string{"Spring", "", "Autumn", "  ", "Spring", "Winter", "Autumn"}

	tours, err := svc.ListTours(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Autumn", "Spring", "Winter"}, tours)
}

func TestListToursEmpty(t *testing.T) {
	_, svc := newLeaderboardFixture()
	tours, err := svc.ListTours(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tours)
	assert.Empty(t, tours)
}

func TestDeleteTourRemovesLabel(t *testing.T) {
	store, svc := newLeaderboardFixture()
	ctx := context.Background()

	for _, tour := range []string{"X", "X", "Y"} {
		_, err := svc.CreateSnapshot(ctx, tour, json.RawMessage(`[{"team":"a","points":3}]`))
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteTour(ctx, "  X "))

	tours, err := svc.ListTours(ctx)
	require.NoError(t, err)
	assert.NotContains(t, tours, "X")
	assert.Contains(t, tours, "Y")
	assert.Len(t, store.snapshots, 1)

	assert.NoError(t, svc.DeleteTour(ctx, "missing"), "deleting nothing is a no-op")
	assert.ErrorIs(t, svc.DeleteTour(ctx, "   "), ErrTourRequired)
}

func TestCreateSnapshotValidation(t *testing.T) {
	_, svc := newLeaderboardFixture()
	ctx := context.Background()

	_, err := svc.CreateSnapshot(ctx, "", json.RawMessage(`[]`))
	assert.ErrorIs(t, err, ErrTourRequired)

	_, err = svc.CreateSnapshot(ctx, "S1", json.RawMessage(`{broken`))
	assert.ErrorIs(t, err, ErrValidationFailed)

	snap, err := svc.CreateSnapshot(ctx, " S1 ", json.RawMessage(`{"rows":[]}`))
	require.NoError(t, err)
	assert.Equal(t, "S1", snap.Tour)

	list, err := svc.ListByTour(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

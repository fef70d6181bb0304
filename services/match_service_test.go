package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatchFixture() (*fakeStore, *recordingPublisher, *matchService) {
	store := newFakeStore()
	events := &recordingPublisher{}
	svc := NewMatchService(store, fakeMatchRepo{store}, events, discardLogger()).(*matchService)
	return store, events, svc
}

func scheduledMatch(store *fakeStore) int {
	tid := store.addTournament(openTournament())
	return store.addMatch(models.Match{TournamentID: tid, Round: 1, HomeRegistrationID: 1, AwayRegistrationID: 2, Status: models.MatchScheduled})
}

func TestStartThenFinishRoundTripsScore(t *testing.T) {
	store, events, svc := newMatchFixture()
	id := scheduledMatch(store)

	require.NoError(t, svc.Start(context.Background(), id))
	m := store.match(id)
	assert.Equal(t, models.MatchPlaying, m.Status)
	require.NotNil(t, m.StartTime)

	score, err := models.ParseScore(json.RawMessage(`[3, {"set":2,"home":6,"away":4}, "w/o"]`))
	require.NoError(t, err)
	require.NoError(t, svc.Finish(context.Background(), id, score))

	m = store.match(id)
	assert.Equal(t, models.MatchFinished, m.Status)
	require.NotNil(t, m.EndTime)
	assert.Equal(t, score, m.Score)

	assert.Equal(t, []models.EventType{models.EventMatchStarted, models.EventMatchFinished}, events.types())
}

func TestStartIsReentrantWithoutOverwritingStartTime(t *testing.T) {
	store, events, svc := newMatchFixture()
	id := scheduledMatch(store)

	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	require.NoError(t, svc.Start(context.Background(), id))

	svc.now = func() time.Time { return first.Add(time.Hour) }
	require.NoError(t, svc.Start(context.Background(), id))

	m := store.match(id)
	require.NotNil(t, m.StartTime)
	assert.True(t, first.Equal(*m.StartTime))
	assert.Len(t, events.types(), 1)
}

func TestStrictTransitions(t *testing.T) {
	store, _, svc := newMatchFixture()

	id := scheduledMatch(store)
	err := svc.Finish(context.Background(), id, models.Score{json.RawMessage(`1`)})
	assert.ErrorIs(t, err, ErrInvalidMatchTransition, "finish without start")
	assert.Equal(t, models.MatchScheduled, store.match(id).Status)

	require.NoError(t, svc.Start(context.Background(), id))
	require.NoError(t, svc.Finish(context.Background(), id, models.Score{json.RawMessage(`1`)}))

	assert.ErrorIs(t, svc.Start(context.Background(), id), ErrInvalidMatchTransition)
	assert.ErrorIs(t, svc.Finish(context.Background(), id, models.Score{json.RawMessage(`2`)}), ErrInvalidMatchTransition)
	assert.Equal(t, models.Score{json.RawMessage(`1`)}, store.match(id).Score)
}

func TestUnknownMatchIsSilentSuccess(t *testing.T) {
	_, events, svc := newMatchFixture()
	assert.NoError(t, svc.Start(context.Background(), 404))
	assert.NoError(t, svc.Finish(context.Background(), 404, models.Score{}))
	assert.Empty(t, events.types())
}

func TestMatchValidation(t *testing.T) {
	_, _, svc := newMatchFixture()
	assert.ErrorIs(t, svc.Start(context.Background(), 0), ErrValidationFailed)
	assert.ErrorIs(t, svc.Finish(context.Background(), 1, nil), ErrValidationFailed)
	_, err := svc.ListByTournament(context.Background(), -1)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

package handlers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/services"
)

type fakeRegistrationService struct {
	reorderCalls [][]int
	reorderErr   error
}

func (f *fakeRegistrationService) Register(_ context.Context, tournamentID int, teamName string) (*models.Registration, error) {
	return &models.Registration{ID: 1, TournamentID: tournamentID, TeamName: teamName, OrderIndex: 1}, nil
}

func (f *fakeRegistrationService) List(context.Context, int) ([]models.Registration, error) {
	return []models.Registration{}, nil
}

func (f *fakeRegistrationService) Reorder(_ context.Context, _ int, ids []int) error {
	f.reorderCalls = append(f.reorderCalls, ids)
	return f.reorderErr
}

type fakeGroupService struct {
	created    int
	generateID int
	err        error
}

func (f *fakeGroupService) Assign(context.Context, int, int) ([]models.Group, error) {
	return []models.Group{}, f.err
}

func (f *fakeGroupService) Reset(context.Context, int) error { return f.err }

func (f *fakeGroupService) GenerateMatches(_ context.Context, tournamentID int) (int, error) {
	f.generateID = tournamentID
	return f.created, f.err
}

func (f *fakeGroupService) Board(context.Context, int) ([]models.Group, error) {
	return []models.Group{}, f.err
}

type fakeMatchService struct {
	started  []int
	finished map[int]models.Score
	err      error
}

func (f *fakeMatchService) Start(_ context.Context, id int) error {
	f.started = append(f.started, id)
	return f.err
}

func (f *fakeMatchService) Finish(_ context.Context, id int, score models.Score) error {
	if f.finished == nil {
		f.finished = map[int]models.Score{}
	}
	f.finished[id] = score
	return f.err
}

func (f *fakeMatchService) ListByTournament(context.Context, int) ([]models.Match, error) {
	return []models.Match{}, f.err
}

type fakeLeaderboardService struct {
	tours   []string
	deleted []string
	err     error
}

func (f *fakeLeaderboardService) CreateSnapshot(_ context.Context, tour string, standings json.RawMessage) (*models.LeaderboardSnapshot, error) {
	return &models.LeaderboardSnapshot{ID: 1, Tour: tour, Standings: standings}, f.err
}

func (f *fakeLeaderboardService) ListByTour(context.Context, string) ([]models.LeaderboardSnapshot, error) {
	return []models.LeaderboardSnapshot{}, f.err
}

func (f *fakeLeaderboardService) ListTours(context.Context) ([]string, error) {
	return f.tours, f.err
}

func (f *fakeLeaderboardService) DeleteTour(_ context.Context, tour string) error {
	f.deleted = append(f.deleted, tour)
	return f.err
}

type fakeTournamentService struct {
	public []models.Tournament
	err    error
}

func (f *fakeTournamentService) Create(_ context.Context, in services.CreateTournamentInput) (*models.Tournament, error) {
	return &models.Tournament{ID: 1, Name: in.Name}, f.err
}

func (f *fakeTournamentService) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Tournament{ID: id}, nil
}

func (f *fakeTournamentService) List(context.Context, *models.TournamentStatus) ([]models.Tournament, error) {
	return f.public, f.err
}

func (f *fakeTournamentService) ListPublic(context.Context) ([]models.Tournament, error) {
	return f.public, f.err
}

func (f *fakeTournamentService) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) (*models.Tournament, error) {
	return &models.Tournament{ID: id, Status: status}, f.err
}

func (f *fakeTournamentService) UploadLogo(_ context.Context, id int, _ string, _ io.Reader) (*models.Tournament, error) {
	return &models.Tournament{ID: id}, f.err
}

package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/tournament-admin/models"
	"github.com/Dosada05/tournament-admin/repositories"
)

// fakeStore is an in-memory stand-in for the database. WithTransaction snapshots the
// state and restores it when fn fails, so tests can observe all-or-nothing behaviour.
type fakeStore struct {
	mu            sync.RWMutex
	nextID        int
	tournaments   map[int]models.Tournament
	registrations map[int]models.Registration
	groups        map[int]models.Group
	assignments   map[int]int // registration id -> group id
	matches       map[int]models.Match
	snapshots     []models.LeaderboardSnapshot
	rawTours      []string

	failOrderUpdateAt int // 1-based call number of UpdateOrderIndex that fails
	orderUpdateCalls  int
	failGroupDelete   error
	transactions      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments:   map[int]models.Tournament{},
		registrations: map[int]models.Registration{},
		groups:        map[int]models.Group{},
		assignments:   map[int]int{},
		matches:       map[int]models.Match{},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

type fakeState struct {
	tournaments   map[int]models.Tournament
	registrations map[int]models.Registration
	groups        map[int]models.Group
	assignments   map[int]int
	matches       map[int]models.Match
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (s *fakeStore) WithTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	s.mu.Lock()
	s.transactions++
	saved := fakeState{
		tournaments:   copyMap(s.tournaments),
		registrations: copyMap(s.registrations),
		groups:        copyMap(s.groups),
		assignments:   copyMap(s.assignments),
		matches:       copyMap(s.matches),
	}
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.tournaments = saved.tournaments
		s.registrations = saved.registrations
		s.groups = saved.groups
		s.assignments = saved.assignments
		s.matches = saved.matches
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *fakeStore) addTournament(t models.Tournament) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.id()
	if t.MaxTeams == 0 {
		t.MaxTeams = 16
	}
	if t.Status == "" {
		t.Status = models.TournamentOpen
	}
	t.CreatedAt = time.Unix(int64(t.ID), 0)
	s.tournaments[t.ID] = t
	return t.ID
}

func (s *fakeStore) addRegistration(tournamentID int, team string, order int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.id()
	s.registrations[id] = models.Registration{ID: id, TournamentID: tournamentID, TeamName: team, OrderIndex: order}
	return id
}

func (s *fakeStore) addMatch(m models.Match) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	s.matches[m.ID] = m
	return m.ID
}

func (s *fakeStore) orderOf(id int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registrations[id].OrderIndex
}

func (s *fakeStore) match(id int) models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matches[id]
}

func (s *fakeStore) countGroups(tournamentID int) (groups int, assignments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.TournamentID == tournamentID {
			groups++
		}
	}
	for _, gid := range s.assignments {
		if s.groups[gid].TournamentID == tournamentID {
			assignments++
		}
	}
	return groups, assignments
}

// --- tournaments ---

type fakeTournamentRepo struct{ *fakeStore }

func (r fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.id()
	t.CreatedAt = time.Now()
	r.tournaments[t.ID] = *t
	return nil
}

func (r fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (r fakeTournamentRepo) LockByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	return r.GetByID(ctx, exec, id)
}

func (r fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Tournament, 0)
	for _, t := range r.tournaments {
		if filter.Status == nil || t.Status == *filter.Status {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r fakeTournamentRepo) UpdateStatus(_ context.Context, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.tournaments[id] = t
	return nil
}

func (r fakeTournamentRepo) UpdateLogoKey(_ context.Context, id int, key *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.LogoKey = key
	r.tournaments[id] = t
	return nil
}

// --- registrations ---

type fakeRegistrationRepo struct{ *fakeStore }

func (r fakeRegistrationRepo) Create(_ context.Context, _ repositories.SQLExecutor, reg *models.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[reg.TournamentID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	for _, existing := range r.registrations {
		if existing.TournamentID == reg.TournamentID && existing.TeamName == reg.TeamName {
			return repositories.ErrRegistrationConflict
		}
	}
	reg.ID = r.id()
	r.registrations[reg.ID] = *reg
	return nil
}

func (r fakeRegistrationRepo) Stats(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count, maxOrder := 0, 0
	for _, reg := range r.registrations {
		if reg.TournamentID == tournamentID {
			count++
			if reg.OrderIndex > maxOrder {
				maxOrder = reg.OrderIndex
			}
		}
	}
	return count, maxOrder, nil
}

func (r fakeRegistrationRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Registration, 0)
	for _, reg := range r.registrations {
		if reg.TournamentID == tournamentID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrderIndex != out[j].OrderIndex {
			return out[i].OrderIndex < out[j].OrderIndex
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r fakeRegistrationRepo) LockByTournament(context.Context, repositories.SQLExecutor, int) error {
	return nil
}

func (r fakeRegistrationRepo) UpdateOrderIndex(_ context.Context, _ repositories.SQLExecutor, tournamentID, registrationID, orderIndex int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orderUpdateCalls++
	if r.failOrderUpdateAt > 0 && r.orderUpdateCalls == r.failOrderUpdateAt {
		return false, errors.New("connection reset")
	}
	reg, ok := r.registrations[registrationID]
	if !ok || reg.TournamentID != tournamentID {
		return false, nil
	}
	reg.OrderIndex = orderIndex
	r.registrations[registrationID] = reg
	return true, nil
}

// --- groups ---

type fakeGroupRepo struct{ *fakeStore }

func (r fakeGroupRepo) Create(_ context.Context, _ repositories.SQLExecutor, g *models.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = r.id()
	stored := *g
	stored.Members = nil
	r.groups[g.ID] = stored
	return nil
}

func (r fakeGroupRepo) AssignRegistrations(_ context.Context, _ repositories.SQLExecutor, groupID int, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		if _, taken := r.assignments[id]; taken {
			return repositories.ErrGroupAssignmentConflict
		}
		r.assignments[id] = groupID
	}
	return nil
}

func (r fakeGroupRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Group, 0)
	for _, g := range r.groups {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeGroupRepo) ListMembersByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]repositories.GroupMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]repositories.GroupMember, 0)
	for regID, groupID := range r.assignments {
		if r.groups[groupID].TournamentID == tournamentID {
			out = append(out, repositories.GroupMember{GroupID: groupID, Registration: r.registrations[regID]})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GroupID != out[j].GroupID {
			return out[i].GroupID < out[j].GroupID
		}
		return out[i].OrderIndex < out[j].OrderIndex
	})
	return out, nil
}

func (r fakeGroupRepo) DeleteAssignmentsByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for regID, groupID := range r.assignments {
		if r.groups[groupID].TournamentID == tournamentID {
			delete(r.assignments, regID)
			n++
		}
	}
	return n, nil
}

func (r fakeGroupRepo) DeleteByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGroupDelete != nil {
		return 0, r.failGroupDelete
	}
	var n int64
	for id, g := range r.groups {
		if g.TournamentID == tournamentID {
			delete(r.groups, id)
			n++
		}
	}
	return n, nil
}

// --- matches ---

type fakeMatchRepo struct{ *fakeStore }

func (r fakeMatchRepo) CreateBatch(_ context.Context, _ repositories.SQLExecutor, matches []models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range matches {
		m.ID = r.id()
		r.matches[m.ID] = m
	}
	return nil
}

func (r fakeMatchRepo) LockByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r fakeMatchRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Match, 0)
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeMatchRepo) CountStartedByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.matches {
		if m.TournamentID == tournamentID && m.Status != models.MatchScheduled {
			n++
		}
	}
	return n, nil
}

func (r fakeMatchRepo) DeleteScheduledByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.matches {
		if m.TournamentID == tournamentID && m.Status == models.MatchScheduled {
			delete(r.matches, id)
			n++
		}
	}
	return n, nil
}

func (r fakeMatchRepo) MarkStarted(_ context.Context, _ repositories.SQLExecutor, id int, startTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.matches[id]
	m.Status = models.MatchPlaying
	m.StartTime = &startTime
	r.matches[id] = m
	return nil
}

func (r fakeMatchRepo) MarkFinished(_ context.Context, _ repositories.SQLExecutor, id int, endTime time.Time, score models.Score) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := r.matches[id]
	m.Status = models.MatchFinished
	m.EndTime = &endTime
	m.Score = score
	r.matches[id] = m
	return nil
}

// --- leaderboard ---

type fakeLeaderboardRepo struct{ *fakeStore }

func (r fakeLeaderboardRepo) Create(_ context.Context, s *models.LeaderboardSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.id()
	r.snapshots = append(r.snapshots, *s)
	return nil
}

func (r fakeLeaderboardRepo) ListByTour(_ context.Context, tour string) ([]models.LeaderboardSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.LeaderboardSnapshot, 0)
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].Tour == tour {
			out = append(out, r.snapshots[i])
		}
	}
	return out, nil
}

// ListTours deliberately returns raw, unsorted labels including blanks and duplicates.
func (r fakeLeaderboardRepo) ListTours(context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]string{}, r.rawTours...)
	for _, s := range r.snapshots {
		out = append(out, s.Tour)
	}
	return out, nil
}

func (r fakeLeaderboardRepo) DeleteByTour(_ context.Context, tour string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.snapshots[:0]
	var n int64
	for _, s := range r.snapshots {
		if s.Tour == tour {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.snapshots = kept
	filtered := r.rawTours[:0]
	for _, t := range r.rawTours {
		if t != tour {
			filtered = append(filtered, t)
		}
	}
	r.rawTours = filtered
	return n, nil
}

// --- events ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []models.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func openTournament() models.Tournament {
	return models.Tournament{Name: "Cup", Multiplier: 1, MaxTeams: 16, Status: models.TournamentOpen}
}

func tournamentWithCapacity(maxTeams int) models.Tournament {
	t := openTournament()
	t.MaxTeams = maxTeams
	return t
}

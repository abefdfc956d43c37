package services

import (
	"context"
	"sync"
	"time"

	"github.com/rosterhq/roster/modules/roster/domain/aggregates/personnel"
	"github.com/rosterhq/roster/modules/roster/domain/entities/blacklist"
	"github.com/rosterhq/roster/modules/roster/domain/entities/catalog"
	"github.com/rosterhq/roster/modules/roster/domain/entities/history"
)

var fakeBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// fakeStore is the shared in-memory backing for all fake repositories.
// Timestamps advance by one second per write so optimistic version
// checks behave like the real store.
type fakeStore struct {
	mu  sync.Mutex
	seq int64

	personnel map[int64]personnel.Personnel
	employees map[int64]personnel.Employee

	ranks    []catalog.Rank
	subs     []catalog.Subdivision
	pos      []catalog.Position
	pairings []catalog.PositionSubdivision

	historyEntries   []history.Entry
	blacklistEntries []blacklist.Entry

	// onUpdateEmployee fires right before the optimistic employee
	// write, letting tests interleave a competing commit.
	onUpdateEmployee func()

	failBlacklistCreate error
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		personnel: make(map[int64]personnel.Personnel),
		employees: make(map[int64]personnel.Employee),
	}

	s.ranks = []catalog.Rank{
		{ID: 1, Name: "Private", Level: 1, Abbreviation: "Pvt"},
		{ID: 2, Name: "Sergeant", Level: 3, Abbreviation: "Sgt"},
		{ID: 3, Name: "Captain", Level: 5, Abbreviation: "Cpt"},
	}
	s.subs = []catalog.Subdivision{
		{ID: 1, Name: "Operations", Abbreviation: "OPS"},
		{ID: 2, Name: "Logistics", Abbreviation: "LOG"},
	}
	s.pos = []catalog.Position{
		{ID: 1, Name: "Operative"},
		{ID: 2, Name: "Quartermaster"},
	}
	s.pairings = []catalog.PositionSubdivision{
		{ID: 1, PositionID: 1, SubdivisionID: 1},
		{ID: 2, PositionID: 2, SubdivisionID: 2},
		{ID: 3, PositionID: 1, SubdivisionID: 2},
	}
	return s
}

func (s *fakeStore) tick() time.Time {
	s.seq++
	return fakeBase.Add(time.Duration(s.seq) * time.Second)
}

func (s *fakeStore) nextID() int64 {
	s.seq++
	return s.seq
}

// blacklistAt returns the active entry for assertions, bypassing the service.
func (s *fakeStore) blacklistAt(personnelID int64) (blacklist.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.blacklistEntries {
		if e.PersonnelID() == personnelID && e.IsActive() {
			return e, nil
		}
	}
	return blacklist.Entry{}, blacklist.ErrNotFound
}

// personnelReassign rewrites an appointment's rank the way a committed
// competing transfer would, bumping the version stamp.
func personnelReassign(e personnel.Employee, rankID int64, stamp time.Time) personnel.Employee {
	return personnel.HydrateEmployee(
		e.ID(), e.PersonnelID(), rankID, e.SubdivisionID(),
		e.PositionSubdivisionID(), e.AssignedDate(), stamp,
	)
}

func (s *fakeStore) findByDiscord(discordID int64) (personnel.Personnel, bool) {
	for _, p := range s.personnel {
		if p.DiscordID() == discordID {
			return p, true
		}
	}
	return personnel.Personnel{}, false
}

func (s *fakeStore) summary(id int64) (personnel.Summary, bool) {
	p, ok := s.personnel[id]
	if !ok {
		return personnel.Summary{}, false
	}
	out := personnel.Summary{
		PersonnelID:     p.ID(),
		DiscordID:       p.DiscordID(),
		FirstName:       p.FirstName(),
		LastName:        p.LastName(),
		Static:          p.Static(),
		Status:          personnel.StatusActive,
		JoinDate:        p.JoinDate(),
		DismissalDate:   p.DismissalDate(),
		DismissalReason: p.DismissalReason(),
		LastUpdated:     p.LastUpdated(),
	}
	if p.IsDismissal() {
		out.Status = personnel.StatusDismissed
	}
	if e, ok := s.employees[p.ID()]; ok {
		for _, r := range s.ranks {
			if r.ID == e.RankID() {
				out.Rank = r.Name
				out.RankLevel = r.Level
			}
		}
		for _, sub := range s.subs {
			if sub.ID == e.SubdivisionID() {
				out.Subdivision = sub.Name
			}
		}
		for _, pr := range s.pairings {
			if pr.ID == e.PositionSubdivisionID() {
				for _, po := range s.pos {
					if po.ID == pr.PositionID {
						out.Position = po.Name
					}
				}
			}
		}
	}
	return out, true
}

type fakePersonnelRepo struct{ s *fakeStore }

func (f *fakePersonnelRepo) GetByID(_ context.Context, id int64) (personnel.Personnel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.personnel[id]
	if !ok {
		return personnel.Personnel{}, personnel.ErrNotFound
	}
	return p, nil
}

func (f *fakePersonnelRepo) GetByDiscordID(_ context.Context, discordID int64) (personnel.Personnel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.findByDiscord(discordID)
	if !ok {
		return personnel.Personnel{}, personnel.ErrNotFound
	}
	return p, nil
}

func (f *fakePersonnelRepo) Upsert(_ context.Context, p personnel.Personnel) (personnel.Personnel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if existing, ok := f.s.findByDiscord(p.DiscordID()); ok {
		out := personnel.Hydrate(
			existing.ID(), p.DiscordID(), p.FirstName(), p.LastName(), p.Static(),
			false, p.JoinDate(), time.Time{}, "", f.s.tick(),
		)
		f.s.personnel[existing.ID()] = out
		return out, nil
	}

	id := f.s.nextID()
	out := personnel.Hydrate(
		id, p.DiscordID(), p.FirstName(), p.LastName(), p.Static(),
		false, p.JoinDate(), time.Time{}, "", f.s.tick(),
	)
	f.s.personnel[id] = out
	return out, nil
}

func (f *fakePersonnelRepo) MarkDismissed(_ context.Context, id int64, dismissalDate time.Time, reason string, expected time.Time) (personnel.Personnel, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.personnel[id]
	if !ok || !p.LastUpdated().Equal(expected) {
		return personnel.Personnel{}, personnel.ErrStaleWrite
	}
	out := personnel.Hydrate(
		p.ID(), p.DiscordID(), p.FirstName(), p.LastName(), p.Static(),
		true, p.JoinDate(), dismissalDate, reason, f.s.tick(),
	)
	f.s.personnel[id] = out
	return out, nil
}

func (f *fakePersonnelRepo) ActiveEmployee(_ context.Context, personnelID int64) (personnel.Employee, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	e, ok := f.s.employees[personnelID]
	if !ok {
		return personnel.Employee{}, personnel.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakePersonnelRepo) CreateEmployee(_ context.Context, e personnel.Employee) (personnel.Employee, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.employees[e.PersonnelID()]; ok {
		return personnel.Employee{}, personnel.ErrStaleWrite
	}
	out := personnel.HydrateEmployee(
		f.s.nextID(), e.PersonnelID(), e.RankID(), e.SubdivisionID(),
		e.PositionSubdivisionID(), e.AssignedDate(), f.s.tick(),
	)
	f.s.employees[e.PersonnelID()] = out
	return out, nil
}

func (f *fakePersonnelRepo) UpdateEmployee(_ context.Context, e personnel.Employee, expected time.Time) (personnel.Employee, error) {
	if hook := f.s.onUpdateEmployee; hook != nil {
		hook()
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	cur, ok := f.s.employees[e.PersonnelID()]
	if !ok {
		return personnel.Employee{}, personnel.ErrEmployeeNotFound
	}
	if !cur.LastUpdated().Equal(expected) {
		return personnel.Employee{}, personnel.ErrStaleWrite
	}
	out := personnel.HydrateEmployee(
		cur.ID(), cur.PersonnelID(), e.RankID(), e.SubdivisionID(),
		e.PositionSubdivisionID(), cur.AssignedDate(), f.s.tick(),
	)
	f.s.employees[e.PersonnelID()] = out
	return out, nil
}

func (f *fakePersonnelRepo) DeleteEmployee(_ context.Context, personnelID int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.employees[personnelID]; !ok {
		return personnel.ErrEmployeeNotFound
	}
	delete(f.s.employees, personnelID)
	return nil
}

func (f *fakePersonnelRepo) GetSummaryByID(_ context.Context, id int64) (personnel.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	s, ok := f.s.summary(id)
	if !ok {
		return personnel.Summary{}, personnel.ErrNotFound
	}
	return s, nil
}

func (f *fakePersonnelRepo) GetSummaryByDiscordID(_ context.Context, discordID int64) (personnel.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	p, ok := f.s.findByDiscord(discordID)
	if !ok {
		return personnel.Summary{}, personnel.ErrNotFound
	}
	s, _ := f.s.summary(p.ID())
	return s, nil
}

func (f *fakePersonnelRepo) ListSummaries(_ context.Context) ([]personnel.Summary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []personnel.Summary
	for id := range f.s.personnel {
		if s, ok := f.s.summary(id); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCatalogRepo struct{ s *fakeStore }

func (f *fakeCatalogRepo) RankByName(_ context.Context, name string) (catalog.Rank, error) {
	for _, r := range f.s.ranks {
		if r.Name == name {
			return r, nil
		}
	}
	return catalog.Rank{}, catalog.ErrRankNotFound
}

func (f *fakeCatalogRepo) RankByID(_ context.Context, id int64) (catalog.Rank, error) {
	for _, r := range f.s.ranks {
		if r.ID == id {
			return r, nil
		}
	}
	return catalog.Rank{}, catalog.ErrRankNotFound
}

func (f *fakeCatalogRepo) SubdivisionByName(_ context.Context, name string) (catalog.Subdivision, error) {
	for _, s := range f.s.subs {
		if s.Name == name {
			return s, nil
		}
	}
	return catalog.Subdivision{}, catalog.ErrSubdivisionNotFound
}

func (f *fakeCatalogRepo) SubdivisionByID(_ context.Context, id int64) (catalog.Subdivision, error) {
	for _, s := range f.s.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return catalog.Subdivision{}, catalog.ErrSubdivisionNotFound
}

func (f *fakeCatalogRepo) PositionByName(_ context.Context, name string) (catalog.Position, error) {
	for _, p := range f.s.pos {
		if p.Name == name {
			return p, nil
		}
	}
	return catalog.Position{}, catalog.ErrPositionNotFound
}

func (f *fakeCatalogRepo) PositionByID(_ context.Context, id int64) (catalog.Position, error) {
	for _, p := range f.s.pos {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Position{}, catalog.ErrPositionNotFound
}

func (f *fakeCatalogRepo) Pairing(_ context.Context, positionID, subdivisionID int64) (catalog.PositionSubdivision, error) {
	for _, pr := range f.s.pairings {
		if pr.PositionID == positionID && pr.SubdivisionID == subdivisionID {
			return pr, nil
		}
	}
	return catalog.PositionSubdivision{}, catalog.ErrPairingNotFound
}

func (f *fakeCatalogRepo) PairingByID(_ context.Context, id int64) (catalog.PositionSubdivision, error) {
	for _, pr := range f.s.pairings {
		if pr.ID == id {
			return pr, nil
		}
	}
	return catalog.PositionSubdivision{}, catalog.ErrPairingNotFound
}

func (f *fakeCatalogRepo) ListRanks(_ context.Context) ([]catalog.Rank, error) { return f.s.ranks, nil }
func (f *fakeCatalogRepo) ListSubdivisions(_ context.Context) ([]catalog.Subdivision, error) {
	return f.s.subs, nil
}
func (f *fakeCatalogRepo) ListPositions(_ context.Context) ([]catalog.Position, error) {
	return f.s.pos, nil
}

func (f *fakeCatalogRepo) CreateRank(_ context.Context, r catalog.Rank) (catalog.Rank, error) {
	r.ID = f.s.nextID()
	f.s.ranks = append(f.s.ranks, r)
	return r, nil
}

func (f *fakeCatalogRepo) CreateSubdivision(_ context.Context, s catalog.Subdivision) (catalog.Subdivision, error) {
	s.ID = f.s.nextID()
	f.s.subs = append(f.s.subs, s)
	return s, nil
}

func (f *fakeCatalogRepo) CreatePosition(_ context.Context, p catalog.Position) (catalog.Position, error) {
	p.ID = f.s.nextID()
	f.s.pos = append(f.s.pos, p)
	return p, nil
}

func (f *fakeCatalogRepo) CreatePairing(_ context.Context, positionID, subdivisionID int64) (catalog.PositionSubdivision, error) {
	pr := catalog.PositionSubdivision{ID: f.s.nextID(), PositionID: positionID, SubdivisionID: subdivisionID}
	f.s.pairings = append(f.s.pairings, pr)
	return pr, nil
}

type fakeHistoryRepo struct{ s *fakeStore }

func (f *fakeHistoryRepo) Append(_ context.Context, e history.Entry) (history.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	out := history.HydrateEntry(
		f.s.nextID(), e.PersonnelID(), e.Action(), e.PerformedBy(), e.Details(), e.Changes(), f.s.tick(),
	)
	f.s.historyEntries = append(f.s.historyEntries, out)
	return out, nil
}

func (f *fakeHistoryRepo) ListByPersonnel(_ context.Context, personnelID int64) ([]history.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []history.Entry
	for _, e := range f.s.historyEntries {
		if e.PersonnelID() == personnelID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) CountByPersonnel(_ context.Context, personnelID int64) (int64, error) {
	entries, _ := f.ListByPersonnel(context.Background(), personnelID)
	return int64(len(entries)), nil
}

type fakeBlacklistRepo struct{ s *fakeStore }

func (f *fakeBlacklistRepo) ActiveByPersonnel(_ context.Context, personnelID int64) (blacklist.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, e := range f.s.blacklistEntries {
		if e.PersonnelID() == personnelID && e.IsActive() {
			return e, nil
		}
	}
	return blacklist.Entry{}, blacklist.ErrNotFound
}

func (f *fakeBlacklistRepo) ListByPersonnel(_ context.Context, personnelID int64) ([]blacklist.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []blacklist.Entry
	for _, e := range f.s.blacklistEntries {
		if e.PersonnelID() == personnelID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBlacklistRepo) Create(_ context.Context, e blacklist.Entry) (blacklist.Entry, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if f.s.failBlacklistCreate != nil {
		return blacklist.Entry{}, f.s.failBlacklistCreate
	}
	out := blacklist.Hydrate(
		f.s.nextID(), e.PersonnelID(), e.Reason(), e.StartDate(), e.EndDate(), e.IsActive(), e.AddedBy(),
	)
	f.s.blacklistEntries = append(f.s.blacklistEntries, out)
	return out, nil
}

func (f *fakeBlacklistRepo) Deactivate(_ context.Context, id int64) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for i, e := range f.s.blacklistEntries {
		if e.ID() == id && e.IsActive() {
			end := e.EndDate()
			if end.IsZero() {
				end = f.s.tick()
			}
			f.s.blacklistEntries[i] = blacklist.Hydrate(
				e.ID(), e.PersonnelID(), e.Reason(), e.StartDate(), end, false, e.AddedBy(),
			)
			return nil
		}
	}
	return blacklist.ErrNotFound
}

// passTxManager runs the closure directly; fakes have no transactions.
type passTxManager struct{}

func (passTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func newTestService(s *fakeStore) *RosterService {
	return NewRosterService(
		&fakePersonnelRepo{s: s},
		&fakeCatalogRepo{s: s},
		&fakeHistoryRepo{s: s},
		&fakeBlacklistRepo{s: s},
		passTxManager{},
		nil,
		nil,
		nil,
		Options{PolicyRetryAttempts: -1},
	)
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/samsapp/sams-backend/internal/model"
	"github.com/samsapp/sams-backend/internal/repository"
)

// In-memory fakes mirroring the repository semantics, including the
// transactional behavior of Redeem, so the engine's gates can be exercised
// without PostgreSQL.

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: make(map[int]*model.User)}
}

func (f *fakeUserStore) add(u model.User) *model.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	stored := u
	f.users[stored.ID] = &stored
	return &stored
}

func (f *fakeUserStore) GetByID(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByIDAndRole(_ context.Context, id int, role model.Role) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.Role != role {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmailAndRole(_ context.Context, email string, role model.Role) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email && u.Role == role {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
		if u.StudentID != nil && existing.StudentID != nil && *existing.StudentID == *u.StudentID {
			return repository.ErrDuplicateStudentID
		}
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	cp := *u
	f.users[cp.ID] = &cp
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (f *fakeUserStore) List(_ context.Context, filter model.UserFilter) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Department != "" && (u.Department == nil || *u.Department != filter.Department) {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

type fakeCodeStore struct {
	mu     sync.Mutex
	nextID int
	codes  map[int]*model.AttendanceCode
	// failCreates forces the next N Create calls to report a collision,
	// regardless of value, to exercise the retry loop.
	failCreates int
}

func newFakeCodeStore() *fakeCodeStore {
	return &fakeCodeStore{nextID: 1, codes: make(map[int]*model.AttendanceCode)}
}

func (f *fakeCodeStore) Create(_ context.Context, c *model.AttendanceCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreates > 0 {
		f.failCreates--
		return repository.ErrDuplicateCode
	}
	for _, existing := range f.codes {
		if existing.IsActive && existing.Code == c.Code {
			return repository.ErrDuplicateCode
		}
	}
	c.ID = f.nextID
	c.CurrentUses = 0
	c.IsActive = true
	c.CreatedAt = time.Now()
	f.nextID++
	cp := *c
	f.codes[cp.ID] = &cp
	return nil
}

func (f *fakeCodeStore) GetActiveByCode(_ context.Context, code string) (*model.AttendanceCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.codes {
		if c.IsActive && c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeCodeStore) IncrementUsage(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.codes[id]; ok {
		c.CurrentUses++
		if c.MaxUses != nil && c.CurrentUses >= *c.MaxUses {
			c.IsActive = false
		}
	}
	return nil
}

func (f *fakeCodeStore) Deactivate(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.codes[id]; ok {
		c.IsActive = false
	}
	return nil
}

func (f *fakeCodeStore) get(id int) model.AttendanceCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.codes[id]
}

type fakeAttendanceStore struct {
	mu      sync.Mutex
	nextID  int
	codes   *fakeCodeStore
	records []model.AttendanceRecord
}

func newFakeAttendanceStore(codes *fakeCodeStore) *fakeAttendanceStore {
	return &fakeAttendanceStore{nextID: 1, codes: codes}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (f *fakeAttendanceStore) ExistsForDay(_ context.Context, studentID int, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, r := range f.records {
		if r.StudentID == studentID && r.AttendanceCode == code && sameDay(r.Date, now) {
			return true, nil
		}
	}
	return false, nil
}

// Redeem mimics the repository transaction: the code row is checked and
// mutated under one lock together with the record insert.
func (f *fakeAttendanceStore) Redeem(_ context.Context, rec *model.AttendanceRecord, codeID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes.mu.Lock()
	defer f.codes.mu.Unlock()

	code, ok := f.codes.codes[codeID]
	if !ok || !code.IsActive {
		return repository.ErrCodeInactive
	}
	if code.MaxUses != nil && code.CurrentUses >= *code.MaxUses {
		return repository.ErrCodeExhausted
	}

	now := time.Now()
	for _, r := range f.records {
		if r.StudentID == rec.StudentID && r.AttendanceCode == rec.AttendanceCode && sameDay(r.Date, now) {
			return repository.ErrDuplicateAttendance
		}
	}

	rec.ID = f.nextID
	rec.Date = now
	rec.CreatedAt = now
	f.nextID++
	f.records = append(f.records, *rec)

	code.CurrentUses++
	if code.MaxUses != nil && code.CurrentUses >= *code.MaxUses {
		code.IsActive = false
	}
	return nil
}

func (f *fakeAttendanceStore) ListForUser(_ context.Context, userID int, role model.Role, filter model.AttendanceFilter) ([]model.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AttendanceRecord
	for _, r := range f.records {
		switch role {
		case model.RoleStudent:
			if r.StudentID != userID {
				continue
			}
		case model.RoleTeacher:
			if r.TeacherID != userID {
				continue
			}
		}
		if filter.Subject != "" && filter.Subject != "All" && r.Subject != filter.Subject {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

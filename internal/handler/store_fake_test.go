package handler_test

// In-memory implementations of the handler store interfaces. They obey
// the same contract as the SQL repositories: owner-keyed lookups where
// a foreign note is indistinguishable from a missing one, share tokens
// that resolve only while sharing is enabled, and append-only access
// requests. Creation defaults, filter and search semantics come from
// the model package, so the handlers are exercised against the exact
// predicates the MySQL repository uses.

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/notekeep/notekeep-server/internal/model"
	"github.com/notekeep/notekeep-server/internal/repository"
	"github.com/notekeep/notekeep-server/internal/utils"
)

type fakeUserStore struct {
	mu   sync.Mutex
	seq  uint64
	byID map[uint64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: make(map[uint64]model.User)}
}

func (s *fakeUserStore) Create(_ context.Context, name, email, password string, cost int) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.byID {
		if u.Email == email {
			return model.User{}, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	s.seq++
	now := time.Now().UTC().Truncate(time.Second)
	u := model.User{ID: s.seq, Name: name, Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	s.byID[u.ID] = u
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

type fakeNoteStore struct {
	mu    sync.Mutex
	users *fakeUserStore
	notes map[string]model.Note
}

func newFakeNoteStore(users *fakeUserStore) *fakeNoteStore {
	return &fakeNoteStore{users: users, notes: make(map[string]model.Note)}
}

func cloneNote(n model.Note) model.Note {
	c := n
	c.Tags = append([]string(nil), n.Tags...)
	c.Subtasks = append([]model.Subtask(nil), n.Subtasks...)
	c.Settings.AccessRequests = append([]model.AccessRequest(nil), n.Settings.AccessRequests...)
	if n.ShareID != nil {
		v := *n.ShareID
		c.ShareID = &v
	}
	if n.DueDate != nil {
		v := *n.DueDate
		c.DueDate = &v
	}
	return c
}

// setUpdatedAt lets tests control list ordering deterministically.
func (s *fakeNoteStore) setUpdatedAt(id string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.notes[id]
	n.UpdatedAt = t
	s.notes[id] = n
}

func (s *fakeNoteStore) get(id string, ownerID uint64) (model.Note, bool) {
	n, ok := s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return model.Note{}, false
	}
	return n, true
}

func (s *fakeNoteStore) Create(_ context.Context, ownerID uint64, in model.NoteInput) (model.Note, error) {
	n, err := model.NewNote(ownerID, in)
	if err != nil {
		return model.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[n.ID] = cloneNote(n)
	return n, nil
}

func (s *fakeNoteStore) ListByOwner(_ context.Context, ownerID uint64, f model.NoteFilter) ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Note, 0)
	for _, n := range s.notes {
		if n.OwnerID != ownerID || !f.MatchesStore(n) || !model.MatchesSearch(n, f.Search) {
			continue
		}
		out = append(out, cloneNote(n))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pinned != out[j].Pinned {
			return out[i].Pinned
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *fakeNoteStore) GetByIDForOwner(_ context.Context, id string, ownerID uint64) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.get(id, ownerID)
	if !ok {
		return model.Note{}, repository.ErrNotFound
	}
	return cloneNote(n), nil
}

func (s *fakeNoteStore) Update(_ context.Context, id string, ownerID uint64, upd model.NoteUpdate) (model.Note, error) {
	if err := upd.Validate(); err != nil {
		return model.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.get(id, ownerID)
	if !ok {
		return model.Note{}, repository.ErrNotFound
	}
	upd.Apply(&n, time.Now().UTC().Truncate(time.Second))
	s.notes[id] = cloneNote(n)
	return n, nil
}

func (s *fakeNoteStore) Delete(_ context.Context, id string, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(id, ownerID); !ok {
		return repository.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *fakeNoteStore) Share(_ context.Context, id string, ownerID uint64, token string, allowEdit bool) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.get(id, ownerID)
	if !ok {
		return model.Note{}, repository.ErrNotFound
	}
	n.Shared = true
	n.ShareID = &token
	n.Settings.AllowEdit = allowEdit
	n.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.notes[id] = cloneNote(n)
	return n, nil
}

func (s *fakeNoteStore) Unshare(_ context.Context, id string, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.get(id, ownerID)
	if !ok {
		return repository.ErrNotFound
	}
	n.Shared = false
	n.ShareID = nil
	n.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	s.notes[id] = cloneNote(n)
	return nil
}

func (s *fakeNoteStore) GetByShareToken(_ context.Context, token string) (model.Note, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notes {
		if n.Shared && n.ShareID != nil && *n.ShareID == token {
			name := "someone"
			if u, ok := s.users.byID[n.OwnerID]; ok {
				name = u.Name
			}
			return cloneNote(n), name, nil
		}
	}
	return model.Note{}, "", repository.ErrNotFound
}

func (s *fakeNoteStore) AppendAccessRequest(_ context.Context, token string, req model.AccessRequest) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, n := range s.notes {
		if n.Shared && n.ShareID != nil && *n.ShareID == token {
			n.Settings.AccessRequests = append(n.Settings.AccessRequests, req)
			n.UpdatedAt = time.Now().UTC().Truncate(time.Second)
			s.notes[id] = cloneNote(n)
			return cloneNote(n), nil
		}
	}
	return model.Note{}, repository.ErrNotFound
}

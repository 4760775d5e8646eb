package handler

import (
	"context"

	"github.com/notekeep/notekeep-server/internal/model"
)

// UserStore is the credential store consumed by the auth handlers.
// Implementations must hash the password before persisting and must
// never hand back anything usable for authentication besides the
// stored hash.
type UserStore interface {
	Create(ctx context.Context, name, email, password string, cost int) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// NoteStore is the note/task repository consumed by the note and
// sharing handlers. Every owner-scoped method takes the resolved
// caller id and must treat (id, ownerID) as one lookup key: a note
// owned by someone else is indistinguishable from a missing note.
// The share-token methods resolve only notes whose sharing is
// currently enabled.
type NoteStore interface {
	Create(ctx context.Context, ownerID uint64, in model.NoteInput) (model.Note, error)
	ListByOwner(ctx context.Context, ownerID uint64, f model.NoteFilter) ([]model.Note, error)
	GetByIDForOwner(ctx context.Context, id string, ownerID uint64) (model.Note, error)
	Update(ctx context.Context, id string, ownerID uint64, upd model.NoteUpdate) (model.Note, error)
	Delete(ctx context.Context, id string, ownerID uint64) error

	Share(ctx context.Context, id string, ownerID uint64, token string, allowEdit bool) (model.Note, error)
	Unshare(ctx context.Context, id string, ownerID uint64) error
	GetByShareToken(ctx context.Context, token string) (note model.Note, ownerName string, err error)
	AppendAccessRequest(ctx context.Context, token string, req model.AccessRequest) (model.Note, error)
}

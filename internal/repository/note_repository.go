// Package repository contains data access logic for the note/task domain.
// This file implements the note repository on MySQL. A note is one row;
// its nested sequences (tags, subtasks, access requests) are stored in
// JSON columns so that every operation below is a single-row, single-
// statement mutation. Authorization and data access are combined: every
// owner-scoped statement keys on (id, user_id) in its WHERE clause, so
// there is no fetch-then-check window and no way to observe another
// user's note through these methods.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/notekeep/notekeep-server/internal/model"
)

// NoteRepo manages persistence for the `notes` table.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo constructs a NoteRepo with the given DB handle.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

const noteColumns = `id, user_id, title, content, color, tags,
	is_pinned, is_favorite, is_archived, kind, due_date, priority, task_status, subtasks,
	is_shared, share_id, share_allow_edit, access_requests, created_at, updated_at`

// Create validates the input through model.NewNote, inserts the
// resulting note and returns it. Field defaults (color, kind, priority,
// status, empty sequences) are applied by the model constructor so
// every store enforces the same creation invariants.
func (r *NoteRepo) Create(ctx context.Context, ownerID uint64, in model.NoteInput) (model.Note, error) {
	n, err := model.NewNote(ownerID, in)
	if err != nil {
		return model.Note{}, err
	}
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return model.Note{}, err
	}
	subtasks, err := json.Marshal(n.Subtasks)
	if err != nil {
		return model.Note{}, err
	}
	requests, err := json.Marshal(n.Settings.AccessRequests)
	if err != nil {
		return model.Note{}, err
	}
	const q = `INSERT INTO notes
		(id, user_id, title, content, color, tags,
		 is_pinned, is_favorite, is_archived, kind, due_date, priority, task_status, subtasks,
		 is_shared, share_id, share_allow_edit, access_requests, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,0,NULL,0,?,?,?)`
	_, err = r.db.ExecContext(ctx, q,
		n.ID, n.OwnerID, n.Title, n.Content, n.Color, tags,
		n.Pinned, n.Favorite, n.Archived, n.Kind, n.DueDate, n.Priority, n.Status, subtasks,
		requests, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return model.Note{}, err
	}
	return n, nil
}

// ListByOwner returns the owner's notes matching the filter, ordered
// pinned-first and then by most recent update. Archived/color/tag
// filters run in the database; the search predicate runs in memory
// afterwards (model.MatchesSearch) so its semantics are identical for
// every backing store.
func (r *NoteRepo) ListByOwner(ctx context.Context, ownerID uint64, f model.NoteFilter) ([]model.Note, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + noteColumns + " FROM notes WHERE user_id=?")
	args := []any{ownerID}
	if f.Archived != nil {
		sb.WriteString(" AND is_archived=?")
		args = append(args, *f.Archived)
	}
	if f.Color != "" {
		sb.WriteString(" AND color=?")
		args = append(args, f.Color)
	}
	if len(f.Tags) > 0 {
		// Match-any over the JSON tags column.
		wanted, err := json.Marshal(f.Tags)
		if err != nil {
			return nil, err
		}
		sb.WriteString(" AND JSON_OVERLAPS(tags, CAST(? AS JSON))")
		args = append(args, wanted)
	}
	sb.WriteString(" ORDER BY is_pinned DESC, updated_at DESC")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]model.Note, 0)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		if !model.MatchesSearch(n, f.Search) {
			continue
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// GetByIDForOwner fetches a single note keyed on (id, owner). A note
// owned by someone else yields the same ErrNotFound as a missing one.
func (r *NoteRepo) GetByIDForOwner(ctx context.Context, id string, ownerID uint64) (model.Note, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+noteColumns+" FROM notes WHERE id=? AND user_id=? LIMIT 1", id, ownerID)
	return scanNoteRow(row)
}

// GetByShareToken resolves a live share token to its note and the
// owner's display name. A token whose note has since been unshared no
// longer matches anything: unshare clears share_id, it does not merely
// hide it.
func (r *NoteRepo) GetByShareToken(ctx context.Context, token string) (model.Note, string, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+prefixColumns("n")+`, u.name
		 FROM notes n JOIN users u ON u.id = n.user_id
		 WHERE n.share_id=? AND n.is_shared=1 LIMIT 1`, token)
	var ownerName string
	n, err := scanNoteWith(row, &ownerName)
	if err != nil {
		return model.Note{}, "", err
	}
	return n, ownerName, nil
}

// Update merges the owner-mutable fields of upd into the note keyed on
// (id, owner) and stamps updated_at, all in one statement. Sharing
// state, ownership, kind and timestamps cannot be touched through
// here; concurrent updates are last-write-wins.
func (r *NoteRepo) Update(ctx context.Context, id string, ownerID uint64, upd model.NoteUpdate) (model.Note, error) {
	if err := upd.Validate(); err != nil {
		return model.Note{}, err
	}

	set := []string{"updated_at=?"}
	args := []any{time.Now().UTC().Truncate(time.Second)}
	add := func(col string, v any) {
		set = append(set, col+"=?")
		args = append(args, v)
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Content != nil {
		add("content", *upd.Content)
	}
	if upd.Color != nil {
		add("color", *upd.Color)
	}
	if upd.Tags != nil {
		tags, err := json.Marshal(*upd.Tags)
		if err != nil {
			return model.Note{}, err
		}
		add("tags", tags)
	}
	if upd.Pinned != nil {
		add("is_pinned", *upd.Pinned)
	}
	if upd.Favorite != nil {
		add("is_favorite", *upd.Favorite)
	}
	if upd.Archived != nil {
		add("is_archived", *upd.Archived)
	}
	if upd.DueDate != nil {
		add("due_date", *upd.DueDate)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Status != nil {
		add("task_status", *upd.Status)
	}
	if upd.Subtasks != nil {
		subtasks, err := json.Marshal(*upd.Subtasks)
		if err != nil {
			return model.Note{}, err
		}
		add("subtasks", subtasks)
	}

	q := "UPDATE notes SET " + strings.Join(set, ", ") + " WHERE id=? AND user_id=?"
	args = append(args, id, ownerID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return model.Note{}, err
	}
	// The pool is opened with clientFoundRows, so zero means no row
	// matched (wrong id or wrong owner), not "nothing changed".
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Note{}, err
	}
	if affected == 0 {
		return model.Note{}, ErrNotFound
	}
	return r.GetByIDForOwner(ctx, id, ownerID)
}

// Delete removes the note keyed on (id, owner). Hard delete, no
// tombstone.
func (r *NoteRepo) Delete(ctx context.Context, id string, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id=? AND user_id=?", id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Share turns sharing on for the note keyed on (id, owner) using the
// supplied fresh token. It always overwrites share_id, even when the
// note was already shared, so a re-share invalidates the previous
// link. Returns the updated note.
func (r *NoteRepo) Share(ctx context.Context, id string, ownerID uint64, token string, allowEdit bool) (model.Note, error) {
	const q = `UPDATE notes SET is_shared=1, share_id=?, share_allow_edit=?, updated_at=?
		WHERE id=? AND user_id=?`
	res, err := r.db.ExecContext(ctx, q, token, allowEdit, time.Now().UTC().Truncate(time.Second), id, ownerID)
	if err != nil {
		return model.Note{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Note{}, err
	}
	if affected == 0 {
		return model.Note{}, ErrNotFound
	}
	return r.GetByIDForOwner(ctx, id, ownerID)
}

// Unshare turns sharing off and clears share_id so the old token can
// never resolve again. Unsharing an already-private note is a no-op
// success: the statement still matches the row, nothing breaks.
func (r *NoteRepo) Unshare(ctx context.Context, id string, ownerID uint64) error {
	const q = `UPDATE notes SET is_shared=0, share_id=NULL, updated_at=?
		WHERE id=? AND user_id=?`
	res, err := r.db.ExecContext(ctx, q, time.Now().UTC().Truncate(time.Second), id, ownerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendAccessRequest appends one access request to the note currently
// resolved by the share token. The JSON_ARRAY_APPEND runs in a single
// statement gated on is_shared=1, so a request can never land on a
// private note and never touches any field besides the request log and
// updated_at. Returns the updated note so callers can notify the
// owner.
func (r *NoteRepo) AppendAccessRequest(ctx context.Context, token string, req model.AccessRequest) (model.Note, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return model.Note{}, err
	}
	const q = `UPDATE notes
		SET access_requests = JSON_ARRAY_APPEND(access_requests, '$', CAST(? AS JSON)),
		    updated_at = ?
		WHERE share_id=? AND is_shared=1`
	res, err := r.db.ExecContext(ctx, q, payload, time.Now().UTC().Truncate(time.Second), token)
	if err != nil {
		return model.Note{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.Note{}, err
	}
	if affected == 0 {
		return model.Note{}, ErrNotFound
	}
	n, _, err := r.GetByShareToken(ctx, token)
	return n, err
}

// prefixColumns qualifies every note column with a table alias for use
// in joined queries.
func prefixColumns(alias string) string {
	cols := strings.Split(noteColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanNote reads one note row in noteColumns order.
func scanNote(s rowScanner) (model.Note, error) {
	return scanNoteInto(s)
}

// scanNoteRow is scanNote plus the ErrNoRows translation for single-
// row lookups.
func scanNoteRow(row *sql.Row) (model.Note, error) {
	n, err := scanNoteInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, ErrNotFound
	}
	return n, err
}

// scanNoteWith scans a note row followed by extra columns (e.g. the
// owner name in joined share lookups).
func scanNoteWith(row *sql.Row, extra ...any) (model.Note, error) {
	n, err := scanNoteInto(row, extra...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, ErrNotFound
	}
	return n, err
}

func scanNoteInto(s rowScanner, extra ...any) (model.Note, error) {
	var (
		n        model.Note
		tags     []byte
		subtasks []byte
		requests []byte
		dueDate  sql.NullTime
		shareID  sql.NullString
	)
	dest := []any{
		&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.Color, &tags,
		&n.Pinned, &n.Favorite, &n.Archived, &n.Kind, &dueDate, &n.Priority, &n.Status, &subtasks,
		&n.Shared, &shareID, &n.Settings.AllowEdit, &requests, &n.CreatedAt, &n.UpdatedAt,
	}
	dest = append(dest, extra...)
	if err := s.Scan(dest...); err != nil {
		return model.Note{}, err
	}
	if err := json.Unmarshal(tags, &n.Tags); err != nil {
		return model.Note{}, err
	}
	if err := json.Unmarshal(subtasks, &n.Subtasks); err != nil {
		return model.Note{}, err
	}
	if err := json.Unmarshal(requests, &n.Settings.AccessRequests); err != nil {
		return model.Note{}, err
	}
	if dueDate.Valid {
		t := dueDate.Time
		n.DueDate = &t
	}
	if shareID.Valid {
		v := shareID.String
		n.ShareID = &v
	}
	return n, nil
}

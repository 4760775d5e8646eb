package model

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates a Note between a free-form note and a task.
// Task-only fields (DueDate, Priority, Status, Subtasks) carry their
// defaults when the kind is "note" and are simply ignored by clients.
const (
	KindNote = "note"
	KindTask = "task"
)

// Priority levels for tasks.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task status values.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Access request status values. Requests start as pending and are
// resolved by the owner; they are never auto-approved.
const (
	AccessPending  = "pending"
	AccessApproved = "approved"
	AccessDenied   = "denied"
)

// DefaultColor is applied when a note is created without a color tag.
const DefaultColor = "yellow"

// colorPalette is the fixed set of color tags a note may carry.
var colorPalette = map[string]bool{
	"yellow": true,
	"green":  true,
	"blue":   true,
	"pink":   true,
	"purple": true,
	"orange": true,
	"gray":   true,
}

// Subtask is one entry in a task's ordered checklist.
//
// Fields:
//  Title     – short description of the step.
//  Completed – whether the step is done.
type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// AccessRequest is a record left by an anonymous share-link holder
// asking the owner for edit access. It is append-only: nothing in the
// public API can modify or remove an existing entry.
//
// Fields:
//  Email       – requester's contact address.
//  Message     – free-form message to the owner.
//  RequestedAt – when the request was made.
//  Status      – pending, approved or denied.
type AccessRequest struct {
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	RequestedAt time.Time `json:"requestedAt"`
	Status      string    `json:"status"`
}

// ShareSettings groups the per-note sharing configuration.
//
// Fields:
//  AllowEdit      – whether the share link is meant to grant edit access.
//  AccessRequests – ordered sequence of requests from link holders.
type ShareSettings struct {
	AllowEdit      bool            `json:"allowEdit"`
	AccessRequests []AccessRequest `json:"accessRequests"`
}

// Note is the unifying entity for both plain notes and tasks,
// discriminated by Kind. One row in the `notes` table; the nested
// sequences (Tags, Subtasks, ShareSettings.AccessRequests) live in
// JSON columns so that every mutation is a single-row statement.
//
// Fields:
//  ID        – globally unique identifier (UUID), immutable.
//  OwnerID   – id of the owning user, set at creation, never changes.
//  Title     – required, non-empty.
//  Content   – rich text body, treated as opaque.
//  Color     – one of the fixed palette (default yellow).
//  Tags      – free-form labels; duplicates are allowed.
//  Pinned    – pinned notes sort before everything else.
//  Favorite  – owner bookmark flag.
//  Archived  – hidden from the default listing.
//  Kind      – "note" or "task", fixed at creation.
//  DueDate   – optional deadline (tasks).
//  Priority  – low/medium/high (tasks, default medium).
//  Status    – pending/in-progress/completed/cancelled (tasks).
//  Subtasks  – ordered checklist (tasks).
//  Shared    – true iff a live share token exists.
//  ShareID   – opaque share token; nil whenever Shared is false.
//  Settings  – allowEdit flag plus the access request log.
//  CreatedAt – immutable creation timestamp.
//  UpdatedAt – refreshed on every successful mutation, share and
//              unshare included.
type Note struct {
	ID        string        // notes.id
	OwnerID   uint64        // notes.user_id
	Title     string        // notes.title
	Content   string        // notes.content
	Color     string        // notes.color
	Tags      []string      // notes.tags (JSON)
	Pinned    bool          // notes.is_pinned
	Favorite  bool          // notes.is_favorite
	Archived  bool          // notes.is_archived
	Kind      string        // notes.kind
	DueDate   *time.Time    // notes.due_date (nullable)
	Priority  string        // notes.priority
	Status    string        // notes.task_status
	Subtasks  []Subtask     // notes.subtasks (JSON)
	Shared    bool          // notes.is_shared
	ShareID   *string       // notes.share_id (nullable, unique)
	Settings  ShareSettings // notes.share_allow_edit + notes.access_requests (JSON)
	CreatedAt time.Time     // notes.created_at
	UpdatedAt time.Time     // notes.updated_at
}

// NoteInput carries the caller-supplied fields for creating a note.
// Zero values fall back to the documented defaults.
type NoteInput struct {
	Title    string
	Content  string
	Color    string
	Tags     []string
	Pinned   bool
	Favorite bool
	Archived bool
	Kind     string
	DueDate  *time.Time
	Priority string
	Status   string
	Subtasks []Subtask
}

// NewNote validates in, applies defaults and returns a fully formed
// Note owned by ownerID. It is the single place where creation
// invariants are enforced, regardless of which store persists the
// result. Returns a ValidationError when the input is malformed.
func NewNote(ownerID uint64, in NoteInput) (Note, error) {
	var v ValidationError
	if isBlank(in.Title) {
		v.Add("title", "title is required")
	}
	kind := in.Kind
	if kind == "" {
		kind = KindNote
	}
	if kind != KindNote && kind != KindTask {
		v.Add("kind", "kind must be 'note' or 'task'")
	}
	color := in.Color
	if color == "" {
		color = DefaultColor
	}
	if !colorPalette[color] {
		v.Add("color", "unknown color")
	}
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !ValidPriority(priority) {
		v.Add("priority", "priority must be low, medium or high")
	}
	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !ValidStatus(status) {
		v.Add("status", "unknown task status")
	}
	if !v.Empty() {
		return Note{}, &v
	}

	now := time.Now().UTC().Truncate(time.Second)
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	subtasks := in.Subtasks
	if subtasks == nil {
		subtasks = []Subtask{}
	}
	return Note{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     in.Title,
		Content:   in.Content,
		Color:     color,
		Tags:      tags,
		Pinned:    in.Pinned,
		Favorite:  in.Favorite,
		Archived:  in.Archived,
		Kind:      kind,
		DueDate:   in.DueDate,
		Priority:  priority,
		Status:    status,
		Subtasks:  subtasks,
		Settings:  ShareSettings{AccessRequests: []AccessRequest{}},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidPriority reports whether p is one of the task priority levels.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// ValidStatus reports whether s is one of the task status values.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted || s == StatusCancelled
}

// ValidColor reports whether c belongs to the fixed palette.
func ValidColor(c string) bool {
	return colorPalette[c]
}

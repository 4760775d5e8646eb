package model

import (
	"strings"
	"time"
)

// NoteFilter narrows a listing of one owner's notes. Nil/empty fields
// are ignored. Archived, Color and Tags are store-level filters (the
// SQL repository pushes them into the WHERE clause); Search is always
// applied afterwards as an in-memory predicate so its matching
// semantics do not depend on the backing store.
//
// Fields:
//  Archived – when set, keep only notes whose archived flag equals it.
//  Color    – keep only notes with this color tag.
//  Tags     – keep notes carrying at least one of these tags (match-any).
//  Search   – case-insensitive substring over title, content and tags.
type NoteFilter struct {
	Archived *bool
	Color    string
	Tags     []string
	Search   string
}

// MatchesStore evaluates the store-level part of the filter (everything
// except Search) against n. The SQL repository expresses the same
// predicate in its WHERE clause; in-memory stores call this directly.
func (f NoteFilter) MatchesStore(n Note) bool {
	if f.Archived != nil && n.Archived != *f.Archived {
		return false
	}
	if f.Color != "" && n.Color != f.Color {
		return false
	}
	if len(f.Tags) > 0 {
		any := false
		for _, want := range f.Tags {
			for _, have := range n.Tags {
				if have == want {
					any = true
					break
				}
			}
			if any {
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// MatchesSearch reports whether n matches the case-insensitive
// substring query q across title, content and tags. An empty query
// matches everything.
func MatchesSearch(n Note, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(n.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// NoteUpdate carries a partial update of the owner-mutable fields.
// Nil pointers mean "leave unchanged". Identity, ownership, kind,
// creation time and the whole sharing block (Shared/ShareID/
// AccessRequests) are deliberately absent: they cannot be changed
// through an update, only through the dedicated share operations.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Color    *string
	Tags     *[]string
	Pinned   *bool
	Favorite *bool
	Archived *bool
	DueDate  *time.Time
	Priority *string
	Status   *string
	Subtasks *[]Subtask
}

// Validate checks the populated fields of the update and returns a
// ValidationError when any of them is malformed.
func (u NoteUpdate) Validate() error {
	var v ValidationError
	if u.Title != nil && isBlank(*u.Title) {
		v.Add("title", "title cannot be empty")
	}
	if u.Color != nil && !ValidColor(*u.Color) {
		v.Add("color", "unknown color")
	}
	if u.Priority != nil && !ValidPriority(*u.Priority) {
		v.Add("priority", "priority must be low, medium or high")
	}
	if u.Status != nil && !ValidStatus(*u.Status) {
		v.Add("status", "unknown task status")
	}
	if v.Empty() {
		return nil
	}
	return &v
}

// Apply merges the update into n and stamps UpdatedAt. It mutates only
// the owner-mutable fields listed on NoteUpdate.
func (u NoteUpdate) Apply(n *Note, now time.Time) {
	if u.Title != nil {
		n.Title = *u.Title
	}
	if u.Content != nil {
		n.Content = *u.Content
	}
	if u.Color != nil {
		n.Color = *u.Color
	}
	if u.Tags != nil {
		n.Tags = *u.Tags
	}
	if u.Pinned != nil {
		n.Pinned = *u.Pinned
	}
	if u.Favorite != nil {
		n.Favorite = *u.Favorite
	}
	if u.Archived != nil {
		n.Archived = *u.Archived
	}
	if u.DueDate != nil {
		n.DueDate = u.DueDate
	}
	if u.Priority != nil {
		n.Priority = *u.Priority
	}
	if u.Status != nil {
		n.Status = *u.Status
	}
	if u.Subtasks != nil {
		n.Subtasks = *u.Subtasks
	}
	n.UpdatedAt = now
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool         { return &b }
func strPtr(s string) *string      { return &s }
func tagsPtr(t []string) *[]string { return &t }

func TestFilterMatchesStore(t *testing.T) {
	n := Note{Color: "blue", Archived: false, Tags: []string{"work", "go"}}

	assert.True(t, NoteFilter{}.MatchesStore(n))
	assert.True(t, NoteFilter{Archived: boolPtr(false)}.MatchesStore(n))
	assert.False(t, NoteFilter{Archived: boolPtr(true)}.MatchesStore(n))
	assert.True(t, NoteFilter{Color: "blue"}.MatchesStore(n))
	assert.False(t, NoteFilter{Color: "yellow"}.MatchesStore(n))
	// Tags are match-any.
	assert.True(t, NoteFilter{Tags: []string{"go", "rust"}}.MatchesStore(n))
	assert.False(t, NoteFilter{Tags: []string{"rust"}}.MatchesStore(n))
}

func TestMatchesSearch(t *testing.T) {
	n := Note{
		Title:   "Meeting Notes",
		Content: "Discussed the Q3 roadmap",
		Tags:    []string{"Work", "planning"},
	}

	assert.True(t, MatchesSearch(n, ""))
	assert.True(t, MatchesSearch(n, "meeting"))   // title, case-insensitive
	assert.True(t, MatchesSearch(n, "ROADMAP"))   // content
	assert.True(t, MatchesSearch(n, "work"))      // tag
	assert.True(t, MatchesSearch(n, "q3"))        // substring
	assert.False(t, MatchesSearch(n, "budget"))
}

func TestNoteUpdateValidate(t *testing.T) {
	assert.NoError(t, NoteUpdate{}.Validate())
	assert.NoError(t, NoteUpdate{Title: strPtr("new title"), Color: strPtr("green")}.Validate())

	err := NoteUpdate{Title: strPtr("  "), Priority: strPtr("asap")}.Validate()
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Len(t, v.Fields, 2)
}

func TestNoteUpdateApplyMergesOnlySetFields(t *testing.T) {
	n, err := NewNote(1, NoteInput{Title: "before", Content: "body", Tags: []string{"a"}})
	require.NoError(t, err)
	created := n.CreatedAt

	now := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	NoteUpdate{
		Title:  strPtr("after"),
		Pinned: boolPtr(true),
		Tags:   tagsPtr([]string{"b", "c"}),
	}.Apply(&n, now)

	assert.Equal(t, "after", n.Title)
	assert.Equal(t, "body", n.Content) // untouched
	assert.True(t, n.Pinned)
	assert.Equal(t, []string{"b", "c"}, n.Tags)
	assert.Equal(t, created, n.CreatedAt)
	assert.Equal(t, now, n.UpdatedAt)
	assert.True(t, !n.UpdatedAt.Before(n.CreatedAt))
}

package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notekeep-server/internal/model"
)

// NoteHandler bundles dependencies for the owner-scoped note
// endpoints. Every operation threads the authenticated user id into
// the store, which keys its lookups on (note id, owner id) in a single
// statement.
type NoteHandler struct {
	Notes NoteStore
}

func NewNoteHandler(notes NoteStore) *NoteHandler {
	if notes == nil {
		panic("nil store passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes}
}

// ----- DTOs -----

// The wire names follow the original client contract: isPinned,
// taskStatus, type for the note/task discriminator, and so on.

type createNoteReq struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Color    string          `json:"color"`
	Tags     []string        `json:"tags"`
	Pinned   bool            `json:"isPinned"`
	Favorite bool            `json:"isFavorite"`
	Archived bool            `json:"isArchived"`
	Kind     string          `json:"type"`
	DueDate  *time.Time      `json:"dueDate"`
	Priority string          `json:"priority"`
	Status   string          `json:"taskStatus"`
	Subtasks []model.Subtask `json:"subtasks"`
}

type updateNoteReq struct {
	Title    *string          `json:"title"`
	Content  *string          `json:"content"`
	Color    *string          `json:"color"`
	Tags     *[]string        `json:"tags"`
	Pinned   *bool            `json:"isPinned"`
	Favorite *bool            `json:"isFavorite"`
	Archived *bool            `json:"isArchived"`
	DueDate  *time.Time       `json:"dueDate"`
	Priority *string          `json:"priority"`
	Status   *string          `json:"taskStatus"`
	Subtasks *[]model.Subtask `json:"subtasks"`
}

type shareSettingsPart struct {
	AllowEdit      bool                  `json:"allowEdit"`
	AccessRequests []model.AccessRequest `json:"accessRequests"`
}

type noteResp struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Color     string            `json:"color"`
	Tags      []string          `json:"tags"`
	Pinned    bool              `json:"isPinned"`
	Favorite  bool              `json:"isFavorite"`
	Archived  bool              `json:"isArchived"`
	Kind      string            `json:"type"`
	DueDate   *time.Time        `json:"dueDate,omitempty"`
	Priority  string            `json:"priority"`
	Status    string            `json:"taskStatus"`
	Subtasks  []model.Subtask   `json:"subtasks"`
	Shared    bool              `json:"isShared"`
	ShareID   *string           `json:"shareId,omitempty"`
	Settings  shareSettingsPart `json:"shareSettings"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

func toNoteResp(n model.Note) noteResp {
	return noteResp{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		Tags:      n.Tags,
		Pinned:    n.Pinned,
		Favorite:  n.Favorite,
		Archived:  n.Archived,
		Kind:      n.Kind,
		DueDate:   n.DueDate,
		Priority:  n.Priority,
		Status:    n.Status,
		Subtasks:  n.Subtasks,
		Shared:    n.Shared,
		ShareID:   n.ShareID,
		Settings:  shareSettingsPart{AllowEdit: n.Settings.AllowEdit, AccessRequests: n.Settings.AccessRequests},
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// List returns the caller's notes. Recognized query parameters:
// archived=true|false, color=<palette>, tags=a,b,c (match-any) and
// search=<text> (case-insensitive substring over title/content/tags).
// Results are ordered pinned first, then most recently updated.
func (h *NoteHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var f model.NoteFilter
	if s := c.QueryParam("archived"); s != "" {
		archived := s == "true"
		f.Archived = &archived
	}
	f.Color = c.QueryParam("color")
	if s := c.QueryParam("tags"); s != "" {
		f.Tags = strings.Split(s, ",")
	}
	f.Search = c.QueryParam("search")

	ctx, cancel := reqCtx(c)
	defer cancel()

	notes, err := h.Notes.ListByOwner(ctx, uid, f)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]noteResp, 0, len(notes))
	for _, n := range notes {
		out = append(out, toNoteResp(n))
	}
	return c.JSON(http.StatusOK, echo.Map{"notes": out})
}

// Create stores a new note or task for the caller. The kind is fixed
// here for the lifetime of the note; omitted fields get their
// documented defaults.
func (h *NoteHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req createNoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notes.Create(ctx, uid, model.NoteInput{
		Title:    req.Title,
		Content:  req.Content,
		Color:    req.Color,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
		Favorite: req.Favorite,
		Archived: req.Archived,
		Kind:     req.Kind,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Status:   req.Status,
		Subtasks: req.Subtasks,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"note": toNoteResp(n)})
}

// Get returns one of the caller's notes by id.
func (h *NoteHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notes.GetByIDForOwner(ctx, c.Param("id"), uid)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"note": toNoteResp(n)})
}

// Update merges the supplied fields into one of the caller's notes.
// Absent fields stay untouched; identity, kind and sharing state are
// not updatable through this endpoint at all.
func (h *NoteHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req updateNoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Notes.Update(ctx, c.Param("id"), uid, model.NoteUpdate{
		Title:    req.Title,
		Content:  req.Content,
		Color:    req.Color,
		Tags:     req.Tags,
		Pinned:   req.Pinned,
		Favorite: req.Favorite,
		Archived: req.Archived,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Status:   req.Status,
		Subtasks: req.Subtasks,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"note": toNoteResp(n)})
}

// Delete hard-deletes one of the caller's notes.
func (h *NoteHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notes.Delete(ctx, c.Param("id"), uid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

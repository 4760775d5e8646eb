package handler

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/notekeep/notekeep-server/internal/config"
	"github.com/notekeep/notekeep-server/internal/model"
	"github.com/notekeep/notekeep-server/internal/queue"
	queuepublisher "github.com/notekeep/notekeep-server/internal/service"
	"github.com/notekeep/notekeep-server/internal/utils"
)

// ShareHandler bundles dependencies for the sharing endpoints: the
// owner-side share/unshare operations and the public, unauthenticated
// share-token routes.
type ShareHandler struct {
	Cfg   config.Config
	Notes NoteStore
	// Publish delivers the owner notification for a new access
	// request. Overridable so tests do not need a broker.
	Publish func(ctx context.Context, evt queue.AccessRequestedEvent) error
}

func NewShareHandler(cfg config.Config, notes NoteStore) *ShareHandler {
	if notes == nil {
		panic("nil store passed to NewShareHandler")
	}
	return &ShareHandler{Cfg: cfg, Notes: notes, Publish: queuepublisher.PublishAccessRequested}
}

// ----- DTOs -----

type shareReq struct {
	AllowEdit bool `json:"allowEdit"`
}

type requestAccessReq struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

// sharedNoteResp is the read-only projection served to share-link
// holders. It deliberately omits the owner's email, the access request
// log and the owner-private flags; only the owner's display name is
// exposed.
type sharedNoteResp struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Color     string          `json:"color"`
	Tags      []string        `json:"tags"`
	Kind      string          `json:"type"`
	DueDate   *time.Time      `json:"dueDate,omitempty"`
	Priority  string          `json:"priority"`
	Status    string          `json:"taskStatus"`
	Subtasks  []model.Subtask `json:"subtasks"`
	AllowEdit bool            `json:"allowEdit"`
	OwnerName string          `json:"ownerName"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Share enables sharing on one of the caller's notes. A fresh random
// token is generated on every call, including a re-share of an
// already-shared note, so any previously handed-out link dies the
// moment a new one is created.
func (h *ShareHandler) Share(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var req shareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	token, err := utils.NewShareToken()
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Notes.Share(ctx, c.Param("id"), uid, token, req.AllowEdit); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"shareId":  token,
		"shareUrl": strings.TrimRight(h.Cfg.FrontendURL, "/") + "/shared/" + token,
	})
}

// Unshare disables sharing on one of the caller's notes and destroys
// the token for good. Unsharing a note that is not shared succeeds
// quietly.
func (h *ShareHandler) Unshare(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Notes.Unshare(ctx, c.Param("id"), uid); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetShared serves the public read-only projection of a shared note.
// No authentication: holding a live token is the only credential. A
// token that never existed and a token whose note was since unshared
// are equally NotFound.
func (h *ShareHandler) GetShared(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, ownerName, err := h.Notes.GetByShareToken(ctx, c.Param("shareId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"note": sharedNoteResp{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color,
		Tags:      n.Tags,
		Kind:      n.Kind,
		DueDate:   n.DueDate,
		Priority:  n.Priority,
		Status:    n.Status,
		Subtasks:  n.Subtasks,
		AllowEdit: n.Settings.AllowEdit,
		OwnerName: ownerName,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}})
}

// RequestAccess lets an anonymous share-link holder ask the owner for
// edit access. It appends exactly one pending request to the note's
// log and changes nothing else. The owner notification is
// fire-and-forget: a broker outage never fails the request.
func (h *ShareHandler) RequestAccess(c echo.Context) error {
	var req requestAccessReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	var v model.ValidationError
	if !validEmail(req.Email) {
		v.Add("email", "a valid email is required to request access")
	}
	if req.Message == "" {
		v.Add("message", "a message is required")
	}
	if !v.Empty() {
		return respondError(c, &v)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Second)
	n, err := h.Notes.AppendAccessRequest(ctx, c.Param("shareId"), model.AccessRequest{
		Email:       req.Email,
		Message:     req.Message,
		RequestedAt: now,
		Status:      model.AccessPending,
	})
	if err != nil {
		return respondError(c, err)
	}

	if h.Publish != nil {
		evt := queue.AccessRequestedEvent{
			NoteID:         n.ID,
			NoteTitle:      n.Title,
			OwnerID:        n.OwnerID,
			RequesterEmail: req.Email,
			Message:        req.Message,
			RequestedAt:    now.Format(time.RFC3339),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Publish(ctx, evt); err != nil {
				log.Printf("share: access-request notification not delivered: %v", err)
			}
		}()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "access request sent. The owner has been notified.",
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/tenant-notes/internal/middleware"
	"github.com/iliyamo/tenant-notes/internal/queue"
	"github.com/iliyamo/tenant-notes/internal/repository"
	"github.com/iliyamo/tenant-notes/internal/service"
)

// limitReachedMsg is returned when a Free tenant is at its note cap.
const limitReachedMsg = "Note limit reached. Upgrade to Pro for unlimited notes."

// NoteHandler implements note CRUD.  Every operation is scoped to the
// caller's tenant taken from the token, never from the request.
type NoteHandler struct {
	Notes *repository.NoteRepo
	hooks mutationHooks
}

func NewNoteHandler(notes *repository.NoteRepo, cache CacheInvalidator, events service.EventPublisher, log *zap.Logger) *NoteHandler {
	if notes == nil {
		panic("nil repository passed to NewNoteHandler")
	}
	return &NoteHandler{Notes: notes, hooks: newMutationHooks(cache, events, log)}
}

// noteBody is the payload of create and update.  Update replaces both
// fields, so an omitted field becomes the empty string.
type noteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// noteError maps store errors onto responses.
func noteError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNoteNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "note not found"})
	case errors.Is(err, repository.ErrNoteLimitReached):
		return c.JSON(http.StatusForbidden, echo.Map{"error": limitReachedMsg})
	case errors.Is(err, repository.ErrTenantNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "note store failure"})
	}
}

// CreateNote handles POST /notes.
func (h *NoteHandler) CreateNote(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var body noteBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	n, err := h.Notes.Create(c.Request().Context(), cl.TenantSlug, cl.ID, body.Title, body.Content)
	if err != nil {
		return noteError(c, err)
	}

	ev := service.NewEvent(queue.EventNoteCreated, n.TenantSlug, cl.ID)
	ev.NoteID = n.ID
	h.hooks.after(c, ev)
	h.hooks.log.Info("note created", zap.String("tenant", n.TenantSlug), zap.Uint64("note_id", n.ID))

	return c.JSON(http.StatusCreated, n)
}

// ListNotes handles GET /notes.
func (h *NoteHandler) ListNotes(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, h.Notes.ListByTenant(c.Request().Context(), cl.TenantSlug))
}

// GetNote handles GET /notes/:id.  Notes of other tenants are reported as
// missing.
func (h *NoteHandler) GetNote(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return noteError(c, repository.ErrNoteNotFound)
	}
	n, err := h.Notes.GetByIDAndTenant(c.Request().Context(), id, cl.TenantSlug)
	if err != nil {
		return noteError(c, err)
	}
	return c.JSON(http.StatusOK, n)
}

// UpdateNote handles PUT /notes/:id with full-replace semantics.
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return noteError(c, repository.ErrNoteNotFound)
	}
	var body noteBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	n, err := h.Notes.Update(c.Request().Context(), id, cl.TenantSlug, body.Title, body.Content)
	if err != nil {
		return noteError(c, err)
	}

	ev := service.NewEvent(queue.EventNoteUpdated, n.TenantSlug, cl.ID)
	ev.NoteID = n.ID
	h.hooks.after(c, ev)

	return c.JSON(http.StatusOK, n)
}

// DeleteNote handles DELETE /notes/:id.
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	cl, ok := middleware.ClaimsFrom(c)
	if !ok {
		return unauthorized(c)
	}
	id, ok := parseID(c.Param("id"))
	if !ok {
		return noteError(c, repository.ErrNoteNotFound)
	}
	if err := h.Notes.Delete(c.Request().Context(), id, cl.TenantSlug); err != nil {
		return noteError(c, err)
	}

	ev := service.NewEvent(queue.EventNoteDeleted, cl.TenantSlug, cl.ID)
	ev.NoteID = id
	h.hooks.after(c, ev)
	h.hooks.log.Info("note deleted", zap.String("tenant", cl.TenantSlug), zap.Uint64("note_id", id))

	return c.JSON(http.StatusOK, echo.Map{"message": "Note deleted successfully"})
}

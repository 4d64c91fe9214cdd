package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/tenant-notes/internal/model"
)

// NoteRepo keeps notes in insertion order.  Ids come from a single global
// counter and are never reused, even after deletion.  Every lookup is
// scoped by tenant so a note owned by another tenant behaves exactly like
// a missing one.
type NoteRepo struct {
	mu      sync.RWMutex
	notes   []model.Note
	nextID  uint64
	tenants *TenantRepo
	now     func() time.Time
}

// NewNoteRepo returns an empty note store.  The tenant store is consulted
// for the plan limit while the note lock is held (lock order notes → tenants).
func NewNoteRepo(tenants *TenantRepo) *NoteRepo {
	if tenants == nil {
		panic("nil tenant repository passed to NewNoteRepo")
	}
	return &NoteRepo{nextID: 1, tenants: tenants, now: func() time.Time { return time.Now().UTC() }}
}

// Create stores a new note for tenantSlug.  When the tenant's plan has a
// note limit and the tenant already holds that many notes, ErrNoteLimitReached
// is returned and nothing is stored.  Counting and inserting happen under
// one lock.
func (r *NoteRepo) Create(ctx context.Context, tenantSlug string, createdBy uint64, title, content string) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, err := r.tenants.Get(ctx, tenantSlug)
	if err != nil {
		return model.Note{}, err
	}
	if limit := t.Plan.NoteLimit(); limit > 0 && r.countLocked(tenantSlug) >= limit {
		return model.Note{}, ErrNoteLimitReached
	}

	now := r.now()
	n := model.Note{
		ID:         r.nextID,
		Title:      title,
		Content:    content,
		TenantSlug: tenantSlug,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.nextID++
	r.notes = append(r.notes, n)
	return n, nil
}

// ListByTenant returns the tenant's notes in insertion order.  The result
// is never nil.
func (r *NoteRepo) ListByTenant(ctx context.Context, tenantSlug string) []model.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Note, 0)
	for _, n := range r.notes {
		if n.TenantSlug == tenantSlug {
			out = append(out, n)
		}
	}
	return out
}

// CountByTenant returns how many notes the tenant currently holds.
func (r *NoteRepo) CountByTenant(ctx context.Context, tenantSlug string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.countLocked(tenantSlug)
}

// GetByIDAndTenant returns the note only when both id and tenant match.
func (r *NoteRepo) GetByIDAndTenant(ctx context.Context, id uint64, tenantSlug string) (model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexLocked(id, tenantSlug)
	if i < 0 {
		return model.Note{}, ErrNoteNotFound
	}
	return r.notes[i], nil
}

// Update replaces title and content of the note and bumps UpdatedAt.  Id,
// tenant, author and creation time are left untouched.
func (r *NoteRepo) Update(ctx context.Context, id uint64, tenantSlug, title, content string) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id, tenantSlug)
	if i < 0 {
		return model.Note{}, ErrNoteNotFound
	}
	n := &r.notes[i]
	n.Title = title
	n.Content = content
	n.UpdatedAt = r.now()
	return *n, nil
}

// Delete removes the note permanently.
func (r *NoteRepo) Delete(ctx context.Context, id uint64, tenantSlug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(id, tenantSlug)
	if i < 0 {
		return ErrNoteNotFound
	}
	r.notes = append(r.notes[:i], r.notes[i+1:]...)
	return nil
}

func (r *NoteRepo) countLocked(tenantSlug string) int {
	c := 0
	for _, n := range r.notes {
		if n.TenantSlug == tenantSlug {
			c++
		}
	}
	return c
}

func (r *NoteRepo) indexLocked(id uint64, tenantSlug string) int {
	for i, n := range r.notes {
		if n.ID == id && n.TenantSlug == tenantSlug {
			return i
		}
	}
	return -1
}

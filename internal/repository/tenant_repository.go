package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/tenant-notes/internal/model"
)

// TenantRepo holds tenants keyed by slug.  The plan is the only field that
// changes at runtime.
type TenantRepo struct {
	mu      sync.RWMutex
	tenants map[string]model.Tenant
}

// NewTenantRepo builds a store seeded with the given tenants.
func NewTenantRepo(tenants []model.Tenant) *TenantRepo {
	m := make(map[string]model.Tenant, len(tenants))
	for _, t := range tenants {
		m[t.Slug] = t
	}
	return &TenantRepo{tenants: m}
}

// Get returns the tenant identified by slug.
func (r *TenantRepo) Get(ctx context.Context, slug string) (model.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[slug]
	if !ok {
		return model.Tenant{}, ErrTenantNotFound
	}
	return t, nil
}

// Upgrade moves the tenant to the Pro plan and returns the updated record.
// Upgrading a tenant that is already Pro succeeds without changes.
func (r *TenantRepo) Upgrade(ctx context.Context, slug string) (model.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[slug]
	if !ok {
		return model.Tenant{}, ErrTenantNotFound
	}
	t.Plan = model.PlanPro
	r.tenants[slug] = t
	return t, nil
}

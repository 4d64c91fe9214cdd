package repository

import (
	"fmt"

	"github.com/iliyamo/tenant-notes/internal/model"
	"github.com/iliyamo/tenant-notes/internal/utils"
)

// SeedTenants returns the tenants every fresh process starts with.
func SeedTenants() []model.Tenant {
	return []model.Tenant{
		{Slug: "acme", Name: "Acme Corp", Plan: model.PlanFree},
		{Slug: "globex", Name: "Globex Corporation", Plan: model.PlanFree},
	}
}

// SeedUsers returns the seeded accounts, each with its own bcrypt hash of
// password.
func SeedUsers(password string, cost int) ([]model.User, error) {
	users := []model.User{
		{ID: 1, Email: "admin@acme.test", Role: model.RoleAdmin, TenantSlug: "acme"},
		{ID: 2, Email: "user@acme.test", Role: model.RoleMember, TenantSlug: "acme"},
		{ID: 3, Email: "admin@globex.test", Role: model.RoleAdmin, TenantSlug: "globex"},
		{ID: 4, Email: "user@globex.test", Role: model.RoleMember, TenantSlug: "globex"},
	}
	for i := range users {
		hash, err := utils.HashPassword(password, cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", users[i].Email, err)
		}
		users[i].PasswordHash = hash
	}
	return users, nil
}

package model

// Role is the authorization level of a user inside its tenant.
type Role string

const (
    RoleAdmin  Role = "Admin"
    RoleMember Role = "Member"
)

// User represents an account seeded at startup.  Users are never
// created, updated or deleted at runtime.
//
// Fields:
//  ID           – unique numeric identifier.
//  Email        – unique email address, matched case-sensitively at login.
//  PasswordHash – bcrypt hash of the account password.
//  Role         – Admin or Member.
//  TenantSlug   – slug of the tenant the user belongs to.
type User struct {
    ID           uint64 `json:"id"`
    Email        string `json:"email"`
    PasswordHash string `json:"-"`
    Role         Role   `json:"role"`
    TenantSlug   string `json:"tenantSlug"`
}

package model

import "time"

// Note is a piece of text owned by a tenant.
//
// Fields:
//  ID         – globally unique, monotonically increasing, never reused.
//  Title      – free-form title.
//  Content    – free-form body.
//  TenantSlug – owning tenant; immutable after creation.
//  CreatedBy  – id of the user that created the note.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Note struct {
    ID         uint64    `json:"id"`
    Title      string    `json:"title"`
    Content    string    `json:"content"`
    TenantSlug string    `json:"tenantSlug"`
    CreatedBy  uint64    `json:"createdBy"`
    CreatedAt  time.Time `json:"createdAt"`
    UpdatedAt  time.Time `json:"updatedAt"`
}

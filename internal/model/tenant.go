package model

// Plan is a tenant's subscription tier.
type Plan string

const (
    PlanFree Plan = "Free"
    PlanPro  Plan = "Pro"
)

// FreePlanNoteLimit is the maximum number of notes a Free tenant may hold.
const FreePlanNoteLimit = 3

// NoteLimit returns the maximum number of notes allowed on the plan.
// Zero means unlimited.
func (p Plan) NoteLimit() int {
    if p == PlanFree {
        return FreePlanNoteLimit
    }
    return 0
}

// Tenant is an isolated organization.  Slug is the primary key; Plan is
// the only mutable field and only ever moves from Free to Pro.
type Tenant struct {
    Slug string `json:"slug"`
    Name string `json:"name"`
    Plan Plan   `json:"plan"`
}

package domain

import "time"

// Capability is a single right on a recipe.
type Capability string

const (
	CapabilityEdit          Capability = "edit"
	CapabilityDelete        Capability = "delete"
	CapabilityManageEditors Capability = "manage_editors"
)

// CapabilitySet is the set of rights a user holds on a recipe.
type CapabilitySet struct {
	CanEdit          bool `json:"can_edit"`
	CanDelete        bool `json:"can_delete"`
	CanManageEditors bool `json:"can_manage_editors"`
}

// AllCapabilities is what ownership implies.
func AllCapabilities() CapabilitySet {
	return CapabilitySet{CanEdit: true, CanDelete: true, CanManageEditors: true}
}

// Has reports whether the set contains c.
func (s CapabilitySet) Has(c Capability) bool {
	switch c {
	case CapabilityEdit:
		return s.CanEdit
	case CapabilityDelete:
		return s.CanDelete
	case CapabilityManageEditors:
		return s.CanManageEditors
	default:
		return false
	}
}

// Grant lets a non-owner exercise some capabilities on a recipe.
// The recipe owner never has a grant row.
type Grant struct {
	RecipeID     string        `json:"recipe_id"`
	UserID       string        `json:"user_id"`
	Capabilities CapabilitySet `json:"capabilities"`
	AddedBy      string        `json:"added_by"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

package domain

import (
	"strings"
	"time"
)

const (
	// DefaultCollection always exists for every user and cannot be removed.
	DefaultCollection = "Favorites"
	// AllSavedCollection is a computed view over every favorite. It is never stored.
	AllSavedCollection = "All Saved"
)

// Collection is a named, owned group of favorites.
type Collection struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"user_id"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
}

// CollectionUpdate is a partial update of a collection.
type CollectionUpdate struct {
	Name     *string
	IsPublic *bool
}

// IsEmpty reports whether no field was supplied.
func (u CollectionUpdate) IsEmpty() bool {
	return u.Name == nil && u.IsPublic == nil
}

// IsReservedCollectionName reports whether name is one of the built-in collections.
// Comparison ignores case and surrounding whitespace.
func IsReservedCollectionName(name string) bool {
	n := strings.TrimSpace(name)
	return strings.EqualFold(n, DefaultCollection) || strings.EqualFold(n, AllSavedCollection)
}

// Package search keeps a Bleve full-text index of recipes.
// Only the fields needed to find and list a recipe are indexed; the
// recipe itself is always re-read from the store before it is shown.
package search

import (
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/tags"
)

// Document is a recipe as the index sees it.
//
// The author's display name is denormalized into the document so that a
// single query can match "pancakes by Ada". Renaming a user leaves stale
// author names until the recipe is next written or the index is rebuilt.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Ingredients string   `json:"ingredients,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	AuthorID    string   `json:"author_id"`
	Author      string   `json:"author,omitempty"`
	// Folded holds title and author without accents, so "creme" finds "Crème".
	Folded     string `json:"folded"`
	Visibility string `json:"visibility"`
	CreatedAt  int64  `json:"created_at"` // Unix millis
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"author_id":  d.AuthorID,
		"folded":     d.Folded,
		"visibility": d.Visibility,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Ingredients != "" {
		m["ingredients"] = d.Ingredients
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	return m
}

// RecipeToDocument converts a recipe to its index document. authorName is
// passed in because the search package does not depend on the store.
func RecipeToDocument(recipe *domain.Recipe, authorName string) *Document {
	return &Document{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: strings.Join(recipe.Ingredients, "\n"),
		Tags:        recipe.Tags,
		AuthorID:    recipe.OwnerID,
		Author:      authorName,
		Folded:      tags.Fold(recipe.Title + " " + authorName),
		Visibility:  string(recipe.Visibility),
		CreatedAt:   recipe.CreatedAt.UnixMilli(),
	}
}

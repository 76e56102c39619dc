package domain

import "time"

// Favorite places a recipe in one of its saver's collections.
// A user holds at most one favorite per recipe.
type Favorite struct {
	UserID     string    `json:"user_id"`
	RecipeID   string    `json:"recipe_id"`
	Collection string    `json:"collection"`
	CreatedAt  time.Time `json:"created_at"`
}

// EngagementState is the viewer's relationship to a recipe.
type EngagementState struct {
	HasLiked    bool   `json:"has_liked"`
	HasMade     bool   `json:"has_made"`
	IsFavorited bool   `json:"is_favorited"`
	Collection  string `json:"collection,omitempty"`
}

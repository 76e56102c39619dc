package domain

import "time"

// Visibility controls who can read a recipe.
// There are exactly two tiers; following someone grants no extra access.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Recipe is owned by exactly one user for its whole lifetime.
type Recipe struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"user_id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Image        string     `json:"image,omitempty"`
	CookTime     string     `json:"cook_time,omitempty"`
	Servings     string     `json:"servings,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Visibility   Visibility `json:"visibility"`
	Tags         []string   `json:"tags"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsPublic reports whether anyone may read the recipe.
func (r *Recipe) IsPublic() bool {
	return r.Visibility == VisibilityPublic
}

// IsOwnedBy reports whether userID owns the recipe.
func (r *Recipe) IsOwnedBy(userID string) bool {
	return userID != "" && r.OwnerID == userID
}

// RecipeUpdate is a partial update of a recipe's editable fields.
type RecipeUpdate struct {
	Title        *string
	Description  *string
	Image        *string
	CookTime     *string
	Servings     *string
	Difficulty   *string
	Visibility   *Visibility
	Tags         *[]string
	Ingredients  *[]string
	Instructions *[]string
}

// IsEmpty reports whether no field was supplied.
func (u RecipeUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Image == nil &&
		u.CookTime == nil && u.Servings == nil && u.Difficulty == nil &&
		u.Visibility == nil && u.Tags == nil && u.Ingredients == nil && u.Instructions == nil
}

// Apply overlays the supplied fields onto r.
func (u RecipeUpdate) Apply(r *Recipe) {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		r.Description = *u.Description
	}
	if u.Image != nil {
		r.Image = *u.Image
	}
	if u.CookTime != nil {
		r.CookTime = *u.CookTime
	}
	if u.Servings != nil {
		r.Servings = *u.Servings
	}
	if u.Difficulty != nil {
		r.Difficulty = *u.Difficulty
	}
	if u.Visibility != nil {
		r.Visibility = *u.Visibility
	}
	if u.Tags != nil {
		r.Tags = *u.Tags
	}
	if u.Ingredients != nil {
		r.Ingredients = *u.Ingredients
	}
	if u.Instructions != nil {
		r.Instructions = *u.Instructions
	}
}

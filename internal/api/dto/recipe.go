package dto

import (
	"time"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// Recipe is a recipe with its author and live counts.
type Recipe struct {
	ID           string    `json:"id" doc:"Recipe ID"`
	UserID       string    `json:"user_id" doc:"Owner's user ID"`
	Title        string    `json:"title" doc:"Title"`
	Description  string    `json:"description,omitempty" doc:"Short description"`
	Image        string    `json:"image,omitempty" doc:"Image URL or data URI"`
	CookTime     string    `json:"cook_time,omitempty" doc:"Free-form cook time"`
	Servings     string    `json:"servings,omitempty" doc:"Free-form servings"`
	Difficulty   string    `json:"difficulty,omitempty" doc:"Free-form difficulty"`
	Visibility   string    `json:"visibility" enum:"public,private" doc:"Who can read the recipe"`
	Tags         []string  `json:"tags" doc:"Tag slugs"`
	Ingredients  []string  `json:"ingredients" doc:"Ingredient lines"`
	Instructions []string  `json:"instructions" doc:"Instruction steps"`
	Author       UserRef   `json:"author" doc:"Recipe owner"`
	LikeCount    int       `json:"like_count" doc:"Number of likes"`
	CommentCount int       `json:"comment_count" doc:"Number of comments"`
	CreatedAt    time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt    time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// NewRecipe maps a store recipe summary.
func NewRecipe(s store.RecipeSummary) Recipe {
	r := s.Recipe
	return Recipe{
		ID:           r.ID,
		UserID:       r.OwnerID,
		Title:        r.Title,
		Description:  r.Description,
		Image:        r.Image,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Visibility:   string(r.Visibility),
		Tags:         nonNil(r.Tags),
		Ingredients:  nonNil(r.Ingredients),
		Instructions: nonNil(r.Instructions),
		Author:       NewUserRef(s.Author),
		LikeCount:    s.LikeCount,
		CommentCount: s.CommentCount,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// NewRecipes maps a list of summaries. The result is never nil.
func NewRecipes(in []store.RecipeSummary) []Recipe {
	out := make([]Recipe, 0, len(in))
	for _, s := range in {
		out = append(out, NewRecipe(s))
	}
	return out
}

// Comment is a comment with its author.
type Comment struct {
	ID        string    `json:"id" doc:"Comment ID"`
	RecipeID  string    `json:"recipe_id" doc:"Recipe the comment belongs to"`
	Content   string    `json:"content" doc:"Comment text"`
	Author    UserRef   `json:"author" doc:"Comment author"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last edit timestamp"`
}

// NewComments maps store comments. The result is never nil.
func NewComments(in []store.CommentEntry) []Comment {
	out := make([]Comment, 0, len(in))
	for _, c := range in {
		out = append(out, Comment{
			ID:        c.Comment.ID,
			RecipeID:  c.Comment.RecipeID,
			Content:   c.Comment.Content,
			Author:    NewUserRef(c.Author),
			CreatedAt: c.Comment.CreatedAt,
			UpdatedAt: c.Comment.UpdatedAt,
		})
	}
	return out
}

// Favorite is a saved recipe and the collection it is filed under.
type Favorite struct {
	Recipe
	Collection string    `json:"collection" doc:"Collection name"`
	SavedAt    time.Time `json:"saved_at" doc:"When the recipe was saved"`
}

// NewFavorites maps store favorites. The result is never nil.
func NewFavorites(in []store.FavoriteEntry) []Favorite {
	out := make([]Favorite, 0, len(in))
	for _, f := range in {
		out = append(out, Favorite{
			Recipe:     NewRecipe(f.RecipeSummary),
			Collection: f.Collection,
			SavedAt:    f.SavedAt,
		})
	}
	return out
}

// Capabilities mirrors domain.CapabilitySet on the wire. Each capability is
// a 0/1 integer; requests may also send booleans.
type Capabilities struct {
	CanEdit          Bit `json:"can_edit" required:"false" doc:"May edit the recipe"`
	CanDelete        Bit `json:"can_delete" required:"false" doc:"May delete the recipe"`
	CanManageEditors Bit `json:"can_manage_editors" required:"false" doc:"May grant and revoke editors"`
}

// NewCapabilities maps a capability set.
func NewCapabilities(c domain.CapabilitySet) Capabilities {
	return Capabilities{
		CanEdit:          Bit(c.CanEdit),
		CanDelete:        Bit(c.CanDelete),
		CanManageEditors: Bit(c.CanManageEditors),
	}
}

// ToDomain converts back to a capability set.
func (c Capabilities) ToDomain() domain.CapabilitySet {
	return domain.CapabilitySet{
		CanEdit:          bool(c.CanEdit),
		CanDelete:        bool(c.CanDelete),
		CanManageEditors: bool(c.CanManageEditors),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

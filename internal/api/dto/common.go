// Package dto provides the response types shared by CookFeed API handlers.
// These types are used by huma to generate OpenAPI documentation.
package dto

import (
	"github.com/cookfeed/cookfeed-server/internal/color"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// ListResponse is a limit/offset list response.
type ListResponse[T any] struct {
	Items  []T `json:"items" doc:"List of items"`
	Limit  int `json:"limit" doc:"Page size that was applied"`
	Offset int `json:"offset" doc:"Number of items skipped"`
}

// PaginationParams defines common pagination query parameters.
type PaginationParams struct {
	Limit  int `query:"limit" default:"20" minimum:"1" maximum:"200" doc:"Items per page"`
	Offset int `query:"offset" default:"0" minimum:"0" doc:"Number of items to skip"`
}

// Page converts the query parameters to a normalized store page.
func (p PaginationParams) Page() store.Page {
	return store.Page{Limit: p.Limit, Offset: p.Offset}.Normalize()
}

// UserRef is the public identity shown next to content.
type UserRef struct {
	ID           string `json:"id" doc:"User ID"`
	Name         string `json:"name" doc:"Display name"`
	ProfileImage string `json:"profile_image,omitempty" doc:"Profile image URL"`
	AvatarColor  string `json:"avatar_color" doc:"Placeholder avatar color, stable per user"`
}

// NewUserRef maps a store identity.
func NewUserRef(u store.UserRef) UserRef {
	return UserRef{
		ID:           u.ID,
		Name:         u.Name,
		ProfileImage: u.ProfileImage,
		AvatarColor:  color.ForUser(u.ID),
	}
}

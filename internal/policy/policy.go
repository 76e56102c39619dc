// Package policy decides who may see and change what.
//
// Every decision is a pure function of its arguments: the caller loads the
// recipe, grant row or preferences and passes them in. Nothing here touches
// the store, so the rules can be tested without a database or a network.
package policy

import "github.com/cookfeed/cookfeed-server/internal/domain"

// Policy is the single authorization service injected into every service
// that needs an access decision. It carries no state.
type Policy struct{}

// New creates a Policy.
func New() *Policy {
	return &Policy{}
}

// === Recipe collaboration ===

// Capabilities returns the rights requesterID holds on recipe.
// The owner holds every capability regardless of grant rows.
// A non-owner holds exactly the bits of their grant, or nothing without one.
func (p *Policy) Capabilities(requesterID string, recipe *domain.Recipe, grant *domain.Grant) domain.CapabilitySet {
	if recipe == nil || requesterID == "" {
		return domain.CapabilitySet{}
	}
	if recipe.IsOwnedBy(requesterID) {
		return domain.AllCapabilities()
	}
	if grant == nil || grant.UserID != requesterID || grant.RecipeID != recipe.ID {
		return domain.CapabilitySet{}
	}
	return grant.Capabilities
}

// Can reports whether requesterID may exercise capability on recipe.
func (p *Policy) Can(requesterID string, recipe *domain.Recipe, grant *domain.Grant, capability domain.Capability) bool {
	return p.Capabilities(requesterID, recipe, grant).Has(capability)
}

// CanReadRecipe reports whether viewerID may read recipe.
// Public recipes are readable by anyone, private ones by the owner and any grantee.
func (p *Policy) CanReadRecipe(viewerID string, recipe *domain.Recipe, grant *domain.Grant) bool {
	if recipe == nil {
		return false
	}
	if recipe.IsPublic() || recipe.IsOwnedBy(viewerID) {
		return true
	}
	return viewerID != "" && grant != nil && grant.UserID == viewerID && grant.RecipeID == recipe.ID
}

// CanRevokeGrant reports whether actorID may remove targetID's grant.
// Anyone may always remove themselves; removing others takes manage rights.
func (p *Policy) CanRevokeGrant(actorID, targetID string, actorCaps domain.CapabilitySet) bool {
	if actorID == "" {
		return false
	}
	if actorID == targetID {
		return true
	}
	return actorCaps.CanManageEditors
}

// === Profiles ===

// ProfileView describes which parts of a profile a viewer may see.
type ProfileView struct {
	IsOwner bool
	// Full is false for private profiles viewed by someone else. Only
	// id, name and profile image may be returned then.
	Full             bool
	ShowEmail        bool
	ShowLastActive   bool
	ShowFollowCounts bool
	ShowFavorites    bool
	// PublicRecipesOnly restricts listed recipes to public visibility.
	PublicRecipesOnly bool
}

// ProfileAccess decides what viewerID may see of ownerID's profile.
func (p *Policy) ProfileAccess(viewerID, ownerID string, prefs domain.Preferences) ProfileView {
	if viewerID != "" && viewerID == ownerID {
		return ProfileView{
			IsOwner:          true,
			Full:             true,
			ShowEmail:        true,
			ShowLastActive:   true,
			ShowFollowCounts: true,
			ShowFavorites:    true,
		}
	}
	if !prefs.ProfilePublic {
		return ProfileView{PublicRecipesOnly: true}
	}
	return ProfileView{
		Full:              true,
		ShowEmail:         prefs.ShowEmail,
		ShowLastActive:    prefs.ShowActivity,
		ShowFollowCounts:  prefs.ShowFollowers,
		ShowFavorites:     prefs.ShowFavorites,
		PublicRecipesOnly: true,
	}
}

// CanViewFollowList reports whether viewerID may list who ownerID follows
// or is followed by.
func (p *Policy) CanViewFollowList(viewerID, ownerID string, prefs domain.Preferences) bool {
	if viewerID != "" && viewerID == ownerID {
		return true
	}
	return prefs.ShowFollowersList
}

// FavoriteExposed reports whether a favorite filed in a collection with the
// given visibility shows up on ownerID's profile for viewerID.
// collectionIsPublic is nil when the favorite has no matching collection row;
// such favorites are exposed.
func (p *Policy) FavoriteExposed(viewerID, ownerID string, collectionIsPublic *bool) bool {
	if viewerID != "" && viewerID == ownerID {
		return true
	}
	return collectionIsPublic == nil || *collectionIsPublic
}

// === Comments ===

// CanComment reports whether viewerID may comment on recipe.
// The owner may always comment on their own recipe; others need read access
// and the owner's allow_comments setting.
func (p *Policy) CanComment(viewerID string, recipe *domain.Recipe, grant *domain.Grant, ownerPrefs domain.Preferences) bool {
	if viewerID == "" || !p.CanReadRecipe(viewerID, recipe, grant) {
		return false
	}
	return recipe.IsOwnedBy(viewerID) || ownerPrefs.AllowComments
}

// CanEditComment reports whether actorID may change comment. Only its author may.
func (p *Policy) CanEditComment(actorID string, comment *domain.Comment) bool {
	return comment != nil && actorID != "" && comment.UserID == actorID
}

// CanDeleteComment reports whether actorID may remove comment from recipe.
// The comment author and the recipe owner may.
func (p *Policy) CanDeleteComment(actorID string, comment *domain.Comment, recipe *domain.Recipe) bool {
	if p.CanEditComment(actorID, comment) {
		return true
	}
	return recipe != nil && comment != nil && comment.RecipeID == recipe.ID && recipe.IsOwnedBy(actorID)
}

package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cookfeed/cookfeed-server/internal/domain"
)

func recipe(owner string, v domain.Visibility) *domain.Recipe {
	return &domain.Recipe{ID: "recipe-1", OwnerID: owner, Visibility: v}
}

func grant(user string, caps domain.CapabilitySet) *domain.Grant {
	return &domain.Grant{RecipeID: "recipe-1", UserID: user, Capabilities: caps, AddedBy: "owner"}
}

func boolPtr(b bool) *bool { return &b }

func TestCapabilities_OwnerHoldsEverything(t *testing.T) {
	p := New()
	r := recipe("owner", domain.VisibilityPrivate)

	// A stray grant row for the owner must not reduce their rights.
	stray := &domain.Grant{RecipeID: "recipe-1", UserID: "owner"}

	for _, g := range []*domain.Grant{nil, stray} {
		assert.True(t, p.Can("owner", r, g, domain.CapabilityEdit))
		assert.True(t, p.Can("owner", r, g, domain.CapabilityDelete))
		assert.True(t, p.Can("owner", r, g, domain.CapabilityManageEditors))
	}
}

func TestCapabilities_GranteeGetsExactlyTheirBits(t *testing.T) {
	p := New()
	r := recipe("owner", domain.VisibilityPublic)

	tests := []struct {
		name string
		caps domain.CapabilitySet
	}{
		{"edit only", domain.CapabilitySet{CanEdit: true}},
		{"delete only", domain.CapabilitySet{CanDelete: true}},
		{"manage only", domain.CapabilitySet{CanManageEditors: true}},
		{"none", domain.CapabilitySet{}},
		{"all", domain.AllCapabilities()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := grant("editor", tt.caps)
			assert.Equal(t, tt.caps, p.Capabilities("editor", r, g))
			assert.Equal(t, tt.caps.CanEdit, p.Can("editor", r, g, domain.CapabilityEdit))
			assert.Equal(t, tt.caps.CanDelete, p.Can("editor", r, g, domain.CapabilityDelete))
			assert.Equal(t, tt.caps.CanManageEditors, p.Can("editor", r, g, domain.CapabilityManageEditors))
		})
	}
}

func TestCapabilities_NoGrantMeansNothing(t *testing.T) {
	p := New()
	r := recipe("owner", domain.VisibilityPublic)

	assert.Equal(t, domain.CapabilitySet{}, p.Capabilities("stranger", r, nil))
	assert.Equal(t, domain.CapabilitySet{}, p.Capabilities("", r, nil))
	assert.Equal(t, domain.CapabilitySet{}, p.Capabilities("owner", nil, nil))
}

func TestCapabilities_GrantForSomeoneElseIgnored(t *testing.T) {
	p := New()
	r := recipe("owner", domain.VisibilityPublic)

	g := grant("editor", domain.AllCapabilities())
	assert.False(t, p.Can("stranger", r, g, domain.CapabilityEdit))

	other := &domain.Grant{RecipeID: "recipe-2", UserID: "editor", Capabilities: domain.AllCapabilities()}
	assert.False(t, p.Can("editor", r, other, domain.CapabilityEdit))
}

func TestCanReadRecipe(t *testing.T) {
	p := New()

	tests := []struct {
		name   string
		viewer string
		recipe *domain.Recipe
		grant  *domain.Grant
		want   bool
	}{
		{"public to anonymous", "", recipe("owner", domain.VisibilityPublic), nil, true},
		{"public to stranger", "stranger", recipe("owner", domain.VisibilityPublic), nil, true},
		{"private to owner", "owner", recipe("owner", domain.VisibilityPrivate), nil, true},
		{"private to stranger", "stranger", recipe("owner", domain.VisibilityPrivate), nil, false},
		{"private to anonymous", "", recipe("owner", domain.VisibilityPrivate), nil, false},
		{"private to grantee without bits", "editor", recipe("owner", domain.VisibilityPrivate), grant("editor", domain.CapabilitySet{}), true},
		{"nil recipe", "owner", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.CanReadRecipe(tt.viewer, tt.recipe, tt.grant))
		})
	}
}

func TestCanRevokeGrant(t *testing.T) {
	p := New()

	// Self-revocation bypasses the manage check.
	assert.True(t, p.CanRevokeGrant("editor", "editor", domain.CapabilitySet{}))
	assert.True(t, p.CanRevokeGrant("manager", "editor", domain.CapabilitySet{CanManageEditors: true}))
	assert.True(t, p.CanRevokeGrant("owner", "editor", domain.AllCapabilities()))
	assert.False(t, p.CanRevokeGrant("editor", "other", domain.CapabilitySet{CanEdit: true, CanDelete: true}))
	assert.False(t, p.CanRevokeGrant("", "", domain.AllCapabilities()))
}

func TestProfileAccess_OwnerSeesEverything(t *testing.T) {
	p := New()
	prefs := domain.DefaultPreferences("owner")
	prefs.ProfilePublic = false
	prefs.ShowEmail = false
	prefs.ShowFollowers = false

	view := p.ProfileAccess("owner", "owner", prefs)

	assert.True(t, view.IsOwner)
	assert.True(t, view.Full)
	assert.True(t, view.ShowEmail)
	assert.True(t, view.ShowLastActive)
	assert.True(t, view.ShowFollowCounts)
	assert.True(t, view.ShowFavorites)
	assert.False(t, view.PublicRecipesOnly)
}

func TestProfileAccess_PrivateProfileIsMinimal(t *testing.T) {
	p := New()
	prefs := domain.DefaultPreferences("owner")
	prefs.ProfilePublic = false
	prefs.ShowEmail = true

	for _, viewer := range []string{"", "stranger"} {
		view := p.ProfileAccess(viewer, "owner", prefs)
		assert.False(t, view.Full)
		assert.False(t, view.ShowEmail, "private profile never leaks email")
		assert.False(t, view.ShowFollowCounts)
		assert.False(t, view.ShowFavorites)
	}
}

func TestProfileAccess_PublicProfileGatesFields(t *testing.T) {
	p := New()

	prefs := domain.DefaultPreferences("owner")
	view := p.ProfileAccess("stranger", "owner", prefs)
	assert.True(t, view.Full)
	assert.False(t, view.ShowEmail)
	assert.False(t, view.ShowLastActive)
	assert.True(t, view.ShowFollowCounts)
	assert.False(t, view.ShowFavorites)
	assert.True(t, view.PublicRecipesOnly)

	prefs.ShowEmail = true
	prefs.ShowActivity = true
	prefs.ShowFollowers = false
	prefs.ShowFavorites = true
	view = p.ProfileAccess("stranger", "owner", prefs)
	assert.True(t, view.ShowEmail)
	assert.True(t, view.ShowLastActive)
	assert.False(t, view.ShowFollowCounts)
	assert.True(t, view.ShowFavorites)
}

func TestCanViewFollowList(t *testing.T) {
	p := New()
	prefs := domain.DefaultPreferences("owner")

	assert.True(t, p.CanViewFollowList("owner", "owner", prefs))
	assert.False(t, p.CanViewFollowList("stranger", "owner", prefs), "hidden by default")
	assert.False(t, p.CanViewFollowList("", "owner", prefs))

	prefs.ShowFollowersList = true
	assert.True(t, p.CanViewFollowList("stranger", "owner", prefs))
}

func TestFavoriteExposed(t *testing.T) {
	p := New()

	assert.True(t, p.FavoriteExposed("stranger", "owner", boolPtr(true)))
	assert.False(t, p.FavoriteExposed("stranger", "owner", boolPtr(false)))
	assert.True(t, p.FavoriteExposed("stranger", "owner", nil), "favorites without a collection row are exposed")
	assert.True(t, p.FavoriteExposed("owner", "owner", boolPtr(false)))
}

func TestCanComment(t *testing.T) {
	p := New()
	prefs := domain.DefaultPreferences("owner")
	public := recipe("owner", domain.VisibilityPublic)
	private := recipe("owner", domain.VisibilityPrivate)

	assert.True(t, p.CanComment("stranger", public, nil, prefs))
	assert.False(t, p.CanComment("", public, nil, prefs))
	assert.False(t, p.CanComment("stranger", private, nil, prefs))

	prefs.AllowComments = false
	assert.False(t, p.CanComment("stranger", public, nil, prefs))
	assert.True(t, p.CanComment("owner", public, nil, prefs))
}

func TestCanDeleteComment(t *testing.T) {
	p := New()
	r := recipe("owner", domain.VisibilityPublic)
	c := &domain.Comment{ID: "cmt-1", RecipeID: "recipe-1", UserID: "author"}

	assert.True(t, p.CanDeleteComment("author", c, r))
	assert.True(t, p.CanDeleteComment("owner", c, r))
	assert.False(t, p.CanDeleteComment("stranger", c, r))

	assert.True(t, p.CanEditComment("author", c))
	assert.False(t, p.CanEditComment("owner", c), "recipe owner may delete but not rewrite")
}

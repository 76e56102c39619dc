package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cookfeed/cookfeed-server/internal/errors"
	"github.com/cookfeed/cookfeed-server/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"notblank"`
}

type recipeRequest struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	Visibility  string   `json:"visibility,omitempty" validate:"omitempty,visibility"`
	Ingredients []string `json:"ingredients" validate:"min=1"`
}

type themeRequest struct {
	ColorTheme string `json:"color_theme" validate:"colortheme"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{
		Email:    "cook@example.com",
		Password: "password123",
		Name:     "Test Cook",
	})
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       any
		wantField string
		wantMsg   string
	}{
		{
			name:      "blank name",
			req:       registerRequest{Email: "cook@example.com", Password: "password123", Name: "   "},
			wantField: "name",
			wantMsg:   "is required",
		},
		{
			name:      "invalid email",
			req:       registerRequest{Email: "not-an-email", Password: "password123", Name: "Cook"},
			wantField: "email",
			wantMsg:   "must be a valid email address",
		},
		{
			name:      "password too short",
			req:       registerRequest{Email: "cook@example.com", Password: "short", Name: "Cook"},
			wantField: "password",
			wantMsg:   "must be at least 8 characters",
		},
		{
			name:      "bad visibility",
			req:       recipeRequest{Title: "Soup", Visibility: "friends", Ingredients: []string{"salt"}},
			wantField: "visibility",
			wantMsg:   "must be public or private",
		},
		{
			name:      "empty ingredients",
			req:       recipeRequest{Title: "Soup", Ingredients: nil},
			wantField: "ingredients",
			wantMsg:   "must contain at least 1 items",
		},
		{
			name:      "unknown theme",
			req:       themeRequest{ColorTheme: "neon"},
			wantField: "color_theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
			assert.Contains(t, domainErr.Message, tt.wantField)

			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, details[tt.wantField])
			} else {
				assert.Contains(t, details, tt.wantField)
			}
		})
	}
}

func TestValidator_VisibilityOptional(t *testing.T) {
	v := validation.New()
	assert.NoError(t, v.Validate(recipeRequest{Title: "Soup", Ingredients: []string{"salt"}}))
	assert.NoError(t, v.Validate(recipeRequest{Title: "Soup", Visibility: "private", Ingredients: []string{"salt"}}))
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	err := v.Validate(registerRequest{Password: "password123", Name: "Cook"})
	require.Error(t, err)

	// Should use JSON tag name "email", not struct field name "Email"
	assert.Contains(t, err.Error(), "email")
	assert.NotContains(t, err.Error(), "Email")
}

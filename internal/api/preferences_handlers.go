package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerPreferencesRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPreferences",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/preferences",
		Summary:     "Get preferences",
		Description: "Returns the caller's notification and privacy preferences. Users who never saved any get the defaults.",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPreferences)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePreferences",
		Method:      http.MethodPatch,
		Path:        "/api/v1/me/preferences",
		Summary:     "Update preferences",
		Description: "Changes only the supplied fields. Everything else keeps its stored value.",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePreferences)
}

// PreferencesOutput wraps preferences for Huma.
type PreferencesOutput struct {
	Body domain.Preferences
}

// UpdatePreferencesInput wraps a partial preferences update for Huma.
type UpdatePreferencesInput struct {
	Body service.UpdatePreferencesRequest
}

func (s *Server) handleGetPreferences(ctx context.Context, _ *struct{}) (*PreferencesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := s.services.Preferences.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: *prefs}, nil
}

func (s *Server) handleUpdatePreferences(ctx context.Context, input *UpdatePreferencesInput) (*PreferencesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prefs, err := s.services.Preferences.Update(ctx, userID, input.Body)
	if err != nil {
		return nil, err
	}
	return &PreferencesOutput{Body: *prefs}, nil
}

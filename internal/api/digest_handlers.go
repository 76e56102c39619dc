package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerDigestRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "runWeeklyDigest",
		Method:      http.MethodPost,
		Path:        "/api/v1/internal/digest/weekly",
		Summary:     "Send weekly digest",
		Description: "Runs the weekly digest batch now. Authenticated with the digest secret instead of a user token.",
		Tags:        []string{"Internal"},
		Hidden:      true,
	}, s.handleRunDigest)
}

// RunDigestInput carries the shared secret.
type RunDigestInput struct {
	Authorization string `header:"Authorization" doc:"Bearer <digest secret>"`
}

// RunDigestOutput wraps the batch statistics for Huma.
type RunDigestOutput struct {
	Body service.DigestStats
}

func (s *Server) handleRunDigest(ctx context.Context, input *RunDigestInput) (*RunDigestOutput, error) {
	// With no secret configured the endpoint does not exist.
	if s.digestSecret == "" || s.services.Digest == nil {
		return nil, huma.Error404NotFound("Not found")
	}

	token, ok := strings.CutPrefix(input.Authorization, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.digestSecret)) != 1 {
		s.logger.Warn("Rejected digest trigger", "ip", remoteAddrFrom(ctx))
		return nil, huma.Error401Unauthorized("Invalid digest secret")
	}

	stats, err := s.services.Digest.Run(ctx, service.DigestTriggerManual)
	if err != nil {
		return nil, err
	}
	return &RunDigestOutput{Body: *stats}, nil
}

package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cookfeed/cookfeed-server/internal/api/dto"
	"github.com/cookfeed/cookfeed-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/recipes",
		Summary:     "Search recipes",
		Description: "Full-text search over public recipes: title, description, ingredients, tags and author",
		Tags:        []string{"Search"},
	}, s.handleSearchRecipes)
}

// === DTOs ===

// SearchInput contains parameters for searching recipes.
type SearchInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query. Empty matches every public recipe."`
	Tags   string `query:"tags" maxLength:"200" doc:"Comma-separated tags; results carry all of them"`
	Author string `query:"author" doc:"Only recipes by this user ID"`
	Sort   string `query:"sort" enum:"relevance,recent" default:"relevance" doc:"Result order"`
	Limit  int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
	Offset int    `query:"offset" default:"0" minimum:"0" doc:"Pagination offset"`
}

// SearchHitResult is a single matching recipe.
type SearchHitResult struct {
	dto.Recipe
	Score      float64           `json:"score" doc:"Search relevance score"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value" doc:"Tag slug"`
	Count int    `json:"count" doc:"Number of matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query     string            `json:"query" doc:"Original search query"`
	Total     uint64            `json:"total" doc:"Total index matches"`
	TookMs    int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits      []SearchHitResult `json:"hits" doc:"Search results"`
	TagFacets []FacetCount      `json:"tag_facets,omitempty" doc:"Most common tags among matches"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	results, err := s.services.Search.Search(ctx, service.SearchRequest{
		Query:    input.Query,
		Tags:     service.ParseTagFilter(input.Tags),
		AuthorID: input.Author,
		SortBy:   input.Sort,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}

	resp := SearchResponse{
		Query:  results.Query,
		Total:  results.Total,
		TookMs: results.TookMs,
		Hits:   make([]SearchHitResult, 0, len(results.Hits)),
	}
	for _, h := range results.Hits {
		resp.Hits = append(resp.Hits, SearchHitResult{
			Recipe:     dto.NewRecipe(h.RecipeSummary),
			Score:      h.Score,
			Highlights: h.Highlights,
		})
	}
	for _, f := range results.TagFacets {
		resp.TagFacets = append(resp.TagFacets, FacetCount{Value: f.Value, Count: f.Count})
	}

	return &SearchOutput{Body: resp}, nil
}

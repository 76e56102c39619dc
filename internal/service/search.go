package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/search"
	"github.com/cookfeed/cookfeed-server/internal/store"
	"github.com/cookfeed/cookfeed-server/internal/tags"
)

// SearchService answers full-text recipe queries and keeps the search index
// in step with recipe writes. It implements RecipeIndexer.
type SearchService struct {
	index  *search.Index
	store  store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchRequest is a recipe search as the API receives it.
type SearchRequest struct {
	Query    string
	Tags     []string
	AuthorID string
	SortBy   string
	Limit    int
	Offset   int
}

// SearchHit is a matched recipe with live counts and highlight fragments.
type SearchHit struct {
	store.RecipeSummary
	Score      float64
	Highlights map[string]string
}

// SearchResults is one page of search results.
type SearchResults struct {
	Query     string
	Total     uint64
	TookMs    int64
	Hits      []SearchHit
	TagFacets []search.FacetCount
}

// Search runs a query over public recipes. Hits are rehydrated from the
// store so counts are current; hits whose recipe vanished or went private
// since indexing are dropped.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchResults, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := s.index.Search(ctx, search.Params{
		Query:         strings.TrimSpace(req.Query),
		Tags:          req.Tags,
		AuthorID:      req.AuthorID,
		Limit:         req.Limit,
		Offset:        req.Offset,
		SortBy:        req.SortBy,
		IncludeFacets: true,
		Highlight:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	ids := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		ids[i] = hit.ID
	}
	summaries, err := s.store.GetRecipeSummaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	byID := make(map[string]store.RecipeSummary, len(summaries))
	for _, sum := range summaries {
		byID[sum.Recipe.ID] = sum
	}

	hits := make([]SearchHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		sum, ok := byID[hit.ID]
		if !ok || !sum.Recipe.IsPublic() {
			s.logger.Debug("dropping stale search hit", "recipe_id", hit.ID)
			continue
		}
		hits = append(hits, SearchHit{
			RecipeSummary: sum,
			Score:         hit.Score,
			Highlights:    hit.Highlights,
		})
	}

	return &SearchResults{
		Query:     result.Query,
		Total:     result.Total,
		TookMs:    result.TookMs,
		Hits:      hits,
		TagFacets: result.TagFacets,
	}, nil
}

// IndexRecipe adds or replaces a recipe's document. Failures are logged;
// the store stays the source of truth.
func (s *SearchService) IndexRecipe(_ context.Context, recipe *domain.Recipe, authorName string) {
	if err := s.index.IndexRecipe(search.RecipeToDocument(recipe, authorName)); err != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", recipe.ID, "error", err)
		return
	}
	s.logger.Debug("indexed recipe", "recipe_id", recipe.ID, "title", recipe.Title)
}

// RemoveRecipe drops a recipe's document. Failures are logged.
func (s *SearchService) RemoveRecipe(_ context.Context, recipeID string) {
	if err := s.index.DeleteRecipe(recipeID); err != nil {
		s.logger.Warn("failed to remove recipe from index", "recipe_id", recipeID, "error", err)
	}
}

// DocumentCount returns the number of indexed recipes.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	recipes, err := s.store.ListAllRecipes(ctx)
	if err != nil {
		return fmt.Errorf("list recipes: %w", err)
	}

	docs := make([]*search.Document, 0, len(recipes))
	for i := range recipes {
		docs = append(docs, search.RecipeToDocument(&recipes[i].Recipe, recipes[i].Author.Name))
	}
	if err := s.index.IndexRecipes(docs); err != nil {
		return fmt.Errorf("index recipes: %w", err)
	}

	s.logger.Info("full reindex complete", "total_documents", len(docs))
	return nil
}

// ReindexIfEmpty rebuilds the index when it holds nothing but the store
// has recipes, as after a mapping change or a lost index directory.
func (s *SearchService) ReindexIfEmpty(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.ReindexAll(ctx)
}

// ParseTagFilter splits a comma-separated tag list into slugs.
func ParseTagFilter(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if slug := tags.Slugify(part); slug != "" {
			out = append(out, slug)
		}
	}
	return out
}

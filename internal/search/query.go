package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/cookfeed/cookfeed-server/internal/domain"
	"github.com/cookfeed/cookfeed-server/internal/tags"
)

const (
	// DefaultLimit is the page size when none is given.
	DefaultLimit = 20
	// MaxLimit caps a single page.
	MaxLimit = 100
)

// Params configures a recipe search.
type Params struct {
	Query string
	// Tags restricts results to recipes carrying every listed tag slug.
	Tags []string
	// AuthorID restricts results to one author.
	AuthorID string

	Limit  int
	Offset int

	// SortBy is "relevance" (default) or "recent".
	SortBy string

	IncludeFacets bool
	Highlight     bool
}

// Result is one page of search hits.
type Result struct {
	Query     string       `json:"query"`
	Total     uint64       `json:"total"`
	TookMs    int64        `json:"took_ms"`
	Hits      []Hit        `json:"hits"`
	TagFacets []FacetCount `json:"tag_facets,omitempty"`
}

// Hit is a single matching recipe.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	AuthorID   string            `json:"author_id"`
	Author     string            `json:"author,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a tag and the number of matching recipes carrying it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search runs a query over public recipes. Private recipes are indexed so
// the index mirrors the store, but they are never returned.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	params.Limit = min(params.Limit, MaxLimit)
	params.Offset = max(params.Offset, 0)

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)

	if params.SortBy == "recent" {
		req.SortBy([]string{"-created_at", "-_score"})
	} else {
		req.SortBy([]string{"-_score", "-created_at"})
	}

	if params.IncludeFacets {
		req.AddFacet("tags", bleve.NewFacetRequest("tags", 20))
	}
	if params.Highlight {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
	}
	req.Fields = []string{"title", "author", "author_id", "tags"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	out := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{ID: h.ID, Score: h.Score}
		hit.Title, _ = h.Fields["title"].(string)
		hit.Author, _ = h.Fields["author"].(string)
		hit.AuthorID, _ = h.Fields["author_id"].(string)
		hit.Tags = stringList(h.Fields["tags"])

		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string, len(h.Fragments))
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}
		out.Hits = append(out.Hits, hit)
	}

	if facet, ok := res.Facets["tags"]; ok && facet.Terms != nil {
		for _, term := range facet.Terms.Terms() {
			out.TagFacets = append(out.TagFacets, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return out, nil
}

// buildQuery ANDs the text query with the visibility and tag filters.
func buildQuery(params Params) query.Query {
	public := bleve.NewTermQuery(string(domain.VisibilityPublic))
	public.SetField("visibility")
	queries := []query.Query{public}

	if q := strings.TrimSpace(params.Query); q != "" {
		title := bleve.NewMatchQuery(q)
		title.SetField("title")
		title.SetBoost(3.0)

		folded := bleve.NewMatchQuery(tags.Fold(q))
		folded.SetField("folded")
		folded.SetBoost(2.0)

		author := bleve.NewMatchQuery(q)
		author.SetField("author")
		author.SetBoost(1.5)

		ingredients := bleve.NewMatchQuery(q)
		ingredients.SetField("ingredients")

		description := bleve.NewMatchQuery(q)
		description.SetField("description")
		description.SetBoost(0.8)

		tagMatch := bleve.NewTermQuery(tags.Slugify(q))
		tagMatch.SetField("tags")
		tagMatch.SetBoost(1.5)

		text := []query.Query{title, folded, author, ingredients, description, tagMatch}

		// Typo tolerance and autocomplete on the folded title.
		if first, _, _ := strings.Cut(tags.Fold(q), " "); len(first) >= 2 {
			prefix := bleve.NewPrefixQuery(first)
			prefix.SetField("folded")
			prefix.SetBoost(0.5)
			fuzzy := bleve.NewFuzzyQuery(first)
			fuzzy.SetField("folded")
			fuzzy.SetFuzziness(1)
			fuzzy.SetBoost(0.5)
			text = append(text, prefix, fuzzy)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(text...))
	}

	for _, tag := range params.Tags {
		tq := bleve.NewTermQuery(tags.Slugify(tag))
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if params.AuthorID != "" {
		aq := bleve.NewTermQuery(params.AuthorID)
		aq.SetField("author_id")
		queries = append(queries, aq)
	}

	return bleve.NewConjunctionQuery(queries...)
}

// stringList reads a stored field that Bleve returns as a string for a
// single value and as []any for several.
func stringList(v any) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for recipe documents.
//
// Titles, descriptions and ingredients use English stemming so "tomatoes"
// matches "tomato". Tags, visibility and IDs are keywords for exact filters.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("title", titleField)

	descField := bleve.NewTextFieldMapping()
	descField.Analyzer = en.AnalyzerName
	descField.Store = false
	docMapping.AddFieldMappingsAt("description", descField)

	ingredientsField := bleve.NewTextFieldMapping()
	ingredientsField.Analyzer = en.AnalyzerName
	ingredientsField.Store = false
	docMapping.AddFieldMappingsAt("ingredients", ingredientsField)

	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = simple.Name
	authorField.Store = true
	docMapping.AddFieldMappingsAt("author", authorField)

	// Already folded at index time; the simple analyzer only splits words.
	foldedField := bleve.NewTextFieldMapping()
	foldedField.Analyzer = simple.Name
	foldedField.Store = false
	docMapping.AddFieldMappingsAt("folded", foldedField)

	// --- Keyword fields ---

	for _, name := range []string{"id", "author_id", "visibility"} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = name != "visibility"
		docMapping.AddFieldMappingsAt(name, f)
	}

	// Keyword analyzer keeps compound slugs such as "gluten-free" intact.
	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = keyword.Name
	tagsField.Store = true
	tagsField.IncludeTermVectors = true // faceting
	docMapping.AddFieldMappingsAt("tags", tagsField)

	// --- Numeric fields ---

	createdAt := bleve.NewNumericFieldMapping()
	createdAt.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAt)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}

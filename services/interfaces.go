package services

import (
	"github.com/gramdex/gramdex/internal/filter"
	"github.com/gramdex/gramdex/model"
)

// SearchOptions is the body of a search request. All fields are optional.
type SearchOptions struct {
	Filter *filter.Tree `json:"filter,omitempty"`

	// SortBy is a dot-notation property, or the sentinel "$shuffle" for a
	// deterministic seeded shuffle.
	SortBy *string `json:"sort_by,omitempty"`

	// SortAsc is inverted by contract: true sorts descending, false (or
	// absent) sorts ascending. Kept for wire compatibility.
	SortAsc bool `json:"sort_asc,omitempty"`

	// SortType selects the coercion for property sorts ("number", the
	// default, or "string") and doubles as the seed name for "$shuffle".
	SortType *string `json:"sort_type,omitempty"`
}

// SearchPage is one page of search results: external document ids plus
// the counters describing the full result set.
type SearchPage struct {
	Items    []string `json:"items"`
	MaxItems int      `json:"max_items"`
	NumItems int      `json:"num_items"`
	NumPages int      `json:"num_pages"`
}

// IndexStats reports the size counters of an index.
type IndexStats struct {
	ItemsCount  int `json:"items_count"`
	TokensCount int `json:"tokens_count"`
}

// Indexer defines mutation operations on a single index. The bulk
// operations are fail-fast: they stop at the first offending item and
// report how many items of the batch were applied before it.
type Indexer interface {
	AddDocuments(docs []model.Document, fields []string) (applied int, err error)
	UpdateDocuments(docs []model.Document, fields []string) (applied int, err error)
	DeleteDocuments(ids []string) (removed int)
	DeleteAllDocuments()
}

// Searcher defines query operations on a single index. A nil q skips
// free-text retrieval and feeds every stored document into the pipeline;
// a non-nil empty q still takes the search path.
type Searcher interface {
	SearchItems(q *string, opts SearchOptions, skip, take int) (SearchPage, error)
}

// IndexAccessor combines everything a request handler may do with one
// resolved index.
type IndexAccessor interface {
	Indexer
	Searcher
	Stats() IndexStats
}

// IndexManager manages the lifecycle of indexes.
type IndexManager interface {
	CreateIndex(name string) error
	GetIndex(name string) (IndexAccessor, error)
	DeleteIndex(name string) error
	DeleteAllIndexes()
	ListIndexes() []string
}

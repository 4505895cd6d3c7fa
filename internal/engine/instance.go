package engine

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/gramdex/gramdex/index"
	"github.com/gramdex/gramdex/internal/indexing"
	"github.com/gramdex/gramdex/internal/search"
	"github.com/gramdex/gramdex/model"
	"github.com/gramdex/gramdex/services"
	"github.com/gramdex/gramdex/store"
)

// IndexInstance holds all components and services for a single index.
// It implements the services.IndexAccessor interface.
type IndexInstance struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	indexer       *indexing.Service
	searcher      *search.Service
}

// NewIndexInstance creates and wires an empty index.
func NewIndexInstance() (*IndexInstance, error) {
	invIndex := index.NewInvertedIndex()
	docStore := store.NewDocumentStore()

	indexerService, err := indexing.NewService(invIndex, docStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}
	searchService, err := search.NewService(invIndex, docStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &IndexInstance{
		invertedIndex: invIndex,
		documentStore: docStore,
		indexer:       indexerService,
		searcher:      searchService,
	}, nil
}

// AddDocuments delegates to the underlying indexer service.
func (i *IndexInstance) AddDocuments(docs []model.Document, fields []string) (int, error) {
	return i.indexer.AddDocuments(docs, fields)
}

// UpdateDocuments delegates to the underlying indexer service.
func (i *IndexInstance) UpdateDocuments(docs []model.Document, fields []string) (int, error) {
	return i.indexer.UpdateDocuments(docs, fields)
}

// DeleteDocuments delegates to the underlying indexer service.
func (i *IndexInstance) DeleteDocuments(ids []string) int {
	return i.indexer.DeleteDocuments(ids)
}

// DeleteAllDocuments delegates to the underlying indexer service.
func (i *IndexInstance) DeleteAllDocuments() {
	i.indexer.DeleteAllDocuments()
}

// SearchItems retrieves documents (free-text when q is non-nil, everything
// otherwise), parses them, and runs the filter/sort/paginate pipeline.
func (i *IndexInstance) SearchItems(q *string, opts services.SearchOptions, skip, take int) (services.SearchPage, error) {
	var payloads []string
	if q != nil {
		log.Printf("Searching '%s'", *q)
		payloads = i.searcher.Search(*q)
	} else {
		payloads = i.allPayloads()
	}

	items := make([]model.Document, 0, len(payloads))
	for _, payload := range payloads {
		var doc model.Document
		if err := json.Unmarshal([]byte(payload), &doc); err != nil {
			return services.SearchPage{}, fmt.Errorf("stored document is not valid JSON: %w", err)
		}
		items = append(items, doc)
	}

	return search.Paginate(items, opts, skip, take), nil
}

// Stats reports the current size counters.
func (i *IndexInstance) Stats() services.IndexStats {
	i.documentStore.Mu.RLock()
	defer i.documentStore.Mu.RUnlock()
	i.invertedIndex.Mu.RLock()
	defer i.invertedIndex.Mu.RUnlock()

	return services.IndexStats{
		ItemsCount:  len(i.documentStore.Docs),
		TokensCount: len(i.invertedIndex.Postings),
	}
}

func (i *IndexInstance) allPayloads() []string {
	i.documentStore.Mu.RLock()
	defer i.documentStore.Mu.RUnlock()

	payloads := make([]string, 0, len(i.documentStore.Docs))
	for _, payload := range i.documentStore.Docs {
		payloads = append(payloads, payload)
	}
	return payloads
}

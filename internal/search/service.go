// Package search implements the read side of an index: hybrid
// token-overlap / edit-distance ranking plus the post-retrieval filter,
// sort, and pagination pipeline.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gramdex/gramdex/index"
	"github.com/gramdex/gramdex/internal/strdist"
	"github.com/gramdex/gramdex/internal/tokenizer"
	"github.com/gramdex/gramdex/store"
)

// Service implements free-text retrieval for a single index.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewService creates a new search Service over an inverted index and a
// document store.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// scoredDoc pairs an internal id with its blended ranking score.
type scoredDoc struct {
	docID uint32
	score float64
}

// Search ranks the stored documents against rawQuery and returns their
// serialized payloads, best match first. A query that trims to the empty
// string returns every stored document in unspecified order.
//
// Scoring: each query token present in the index contributes the weights
// of all its postings to the owning documents; every scored document then
// gains the normalized edit-distance similarity between the query and its
// whole serialized payload. Only documents scoring strictly above half of
// the best score are kept.
func (s *Service) Search(rawQuery string) []string {
	query := strings.TrimSpace(rawQuery)

	s.documentStore.Mu.RLock()
	defer s.documentStore.Mu.RUnlock()
	s.invertedIndex.Mu.RLock()
	defer s.invertedIndex.Mu.RUnlock()

	if query == "" {
		all := make([]string, 0, len(s.documentStore.Docs))
		for _, payload := range s.documentStore.Docs {
			all = append(all, payload)
		}
		return all
	}

	scored := s.scoreUnsafe(query)
	if len(scored) == 0 {
		return []string{}
	}

	top := scored[0].score
	results := make([]string, 0, len(scored))
	for _, hit := range scored {
		if hit.score > top/2 {
			results = append(results, s.documentStore.Docs[hit.docID])
		}
	}
	return results
}

// scoreUnsafe computes the blended score for every document matching at
// least one query token, sorted descending. Caller holds both read locks.
func (s *Service) scoreUnsafe(query string) []scoredDoc {
	queryTokens := append(tokenizer.Gramify(query), tokenizer.CleanWords(query)...)

	scores := make(map[uint32]float64)
	for _, token := range queryTokens {
		for _, posting := range s.invertedIndex.Postings[token] {
			scores[posting.DocID] += float64(posting.Weight)
		}
	}

	scored := make([]scoredDoc, 0, len(scores))
	for docID, score := range scores {
		payload := s.documentStore.Docs[docID]
		// The whole serialized document is the comparison target. A crude
		// proxy that favors short documents, but it is the contract.
		similarity := strdist.NormalizedSimilarity(query, payload)
		scored = append(scored, scoredDoc{docID: docID, score: score + similarity})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	return scored
}

// Package indexing implements the mutation side of an index: ingesting,
// re-indexing, and removing documents while keeping the inverted index and
// the document store consistent with each other.
package indexing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/gramdex/gramdex/index"
	apperrors "github.com/gramdex/gramdex/internal/errors"
	"github.com/gramdex/gramdex/internal/tokenizer"
	"github.com/gramdex/gramdex/model"
	"github.com/gramdex/gramdex/store"
)

// Service implements the indexing logic for a single index.
// It fulfills the services.Indexer interface.
type Service struct {
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
}

// NewService creates a new indexing Service over an inverted index and a
// document store. Nil maps are initialized to keep later mutations safe.
func NewService(invertedIndex *index.InvertedIndex, documentStore *store.DocumentStore) (*Service, error) {
	if invertedIndex == nil {
		return nil, fmt.Errorf("inverted index cannot be nil")
	}
	if documentStore == nil {
		return nil, fmt.Errorf("document store cannot be nil")
	}
	if invertedIndex.Postings == nil {
		invertedIndex.Postings = make(map[string]index.PostingList)
	}
	if documentStore.Docs == nil {
		documentStore.Docs = make(map[uint32]string)
	}
	if documentStore.ExternalIDtoInternalID == nil {
		documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	}
	return &Service{
		invertedIndex: invertedIndex,
		documentStore: documentStore,
	}, nil
}

// AddDocuments indexes a batch of documents. Text is extracted from the
// named top-level fields of each document. A document whose "_id" is
// already resident is re-indexed in place under its existing internal id.
// The batch is fail-fast: on error, the returned count is how many
// documents were applied before the offending one.
func (s *Service) AddDocuments(docs []model.Document, fields []string) (int, error) {
	s.documentStore.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	s.invertedIndex.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()

	for i, doc := range docs {
		if err := s.addSingleDocumentUnsafe(doc, fields); err != nil {
			return i, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return len(docs), nil
}

// UpdateDocuments re-indexes a batch of documents that must already be
// resident. Fail-fast like AddDocuments.
func (s *Service) UpdateDocuments(docs []model.Document, fields []string) (int, error) {
	s.documentStore.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	s.invertedIndex.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()

	for i, doc := range docs {
		if err := s.updateSingleDocumentUnsafe(doc, fields); err != nil {
			return i, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return len(docs), nil
}

// DeleteDocuments removes documents by external id. Unknown ids are
// ignored. Returns how many documents were actually removed.
func (s *Service) DeleteDocuments(ids []string) int {
	s.documentStore.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	s.invertedIndex.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()

	removed := 0
	for _, id := range ids {
		iid, exists := s.documentStore.ExternalIDtoInternalID[id]
		if !exists {
			continue
		}
		delete(s.documentStore.Docs, iid)
		delete(s.documentStore.ExternalIDtoInternalID, id)
		s.invertedIndex.PurgeDocument(iid)
		removed++
	}
	return removed
}

// DeleteAllDocuments empties the index. The internal id counter is
// preserved so ids are never reused, even across a clear.
func (s *Service) DeleteAllDocuments() {
	s.documentStore.Mu.Lock()
	defer s.documentStore.Mu.Unlock()
	s.invertedIndex.Mu.Lock()
	defer s.invertedIndex.Mu.Unlock()

	s.documentStore.Docs = make(map[uint32]string)
	s.documentStore.ExternalIDtoInternalID = make(map[string]uint32)
	s.invertedIndex.Reset()
}

// addSingleDocumentUnsafe indexes one document. Caller holds both locks.
func (s *Service) addSingleDocumentUnsafe(doc model.Document, fields []string) error {
	id, ok := doc.GetID()
	if !ok {
		return apperrors.NewValidationError("_id", "document must have a non-empty string _id")
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewValidationError("", "document is not serializable: "+err.Error())
	}

	iid, resident := s.documentStore.ExternalIDtoInternalID[id]
	if resident {
		// Upsert: drop the old postings, keep the internal id.
		s.invertedIndex.PurgeDocument(iid)
	} else {
		iid = s.documentStore.NextID
		s.documentStore.NextID++
		s.documentStore.ExternalIDtoInternalID[id] = iid
	}

	s.documentStore.Docs[iid] = string(payload)
	s.indexTokensUnsafe(iid, ExtractFieldText(doc, fields))
	return nil
}

// updateSingleDocumentUnsafe re-indexes one resident document under its
// existing internal id. Caller holds both locks.
func (s *Service) updateSingleDocumentUnsafe(doc model.Document, fields []string) error {
	id, ok := doc.GetID()
	if !ok {
		return apperrors.NewValidationError("_id", "document must have a non-empty string _id")
	}

	iid, resident := s.documentStore.ExternalIDtoInternalID[id]
	if !resident {
		return apperrors.NewDocumentNotFoundError(id)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return apperrors.NewValidationError("", "document is not serializable: "+err.Error())
	}

	s.invertedIndex.PurgeDocument(iid)
	s.documentStore.Docs[iid] = string(payload)
	s.indexTokensUnsafe(iid, ExtractFieldText(doc, fields))
	return nil
}

// indexTokensUnsafe registers the postings for one document: weight 1 for
// every character gram, weight 10 for every stemmed word. Duplicate tokens
// produce duplicate postings on purpose. Caller holds the index lock.
func (s *Service) indexTokensUnsafe(iid uint32, text string) {
	for _, gram := range tokenizer.Gramify(text) {
		s.invertedIndex.Append(gram, index.Posting{DocID: iid, Weight: index.WeightGram})
	}
	for _, word := range tokenizer.CleanWords(text) {
		s.invertedIndex.Append(word, index.Posting{DocID: iid, Weight: index.WeightWord})
	}
}

// ExtractFieldText collects the searchable text of a document: for each
// named top-level field, a string value is taken as-is, string elements of
// an array are taken, and string values of an object are taken one level
// deep. Object keys are visited in sorted order so the produced text (and
// with it the boundary grams) is deterministic.
func ExtractFieldText(doc model.Document, fields []string) string {
	var b strings.Builder

	for _, field := range fields {
		switch value := doc[field].(type) {
		case string:
			b.WriteString(value)
			b.WriteByte(' ')
		case []interface{}:
			for _, el := range value {
				if str, ok := el.(string); ok {
					b.WriteString(str)
					b.WriteByte(' ')
				}
			}
		case map[string]interface{}:
			keys := make([]string, 0, len(value))
			for k := range value {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				if str, ok := value[k].(string); ok {
					b.WriteString(str)
					b.WriteByte(' ')
				}
			}
		}
	}

	return strings.TrimSpace(b.String())
}

package indexing

import (
	"errors"
	"testing"

	"github.com/gramdex/gramdex/index"
	apperrors "github.com/gramdex/gramdex/internal/errors"
	"github.com/gramdex/gramdex/model"
	"github.com/gramdex/gramdex/store"
)

func newTestService(t *testing.T) (*Service, *index.InvertedIndex, *store.DocumentStore) {
	t.Helper()
	invIndex := index.NewInvertedIndex()
	docStore := store.NewDocumentStore()
	service, err := NewService(invIndex, docStore)
	if err != nil {
		t.Fatalf("NewService() failed: %v", err)
	}
	return service, invIndex, docStore
}

// checkConsistency verifies the structural invariants tying the document
// store and the inverted index together.
func checkConsistency(t *testing.T, invIndex *index.InvertedIndex, docStore *store.DocumentStore) {
	t.Helper()

	if len(docStore.Docs) != len(docStore.ExternalIDtoInternalID) {
		t.Errorf("store out of sync: %d payloads vs %d id mappings",
			len(docStore.Docs), len(docStore.ExternalIDtoInternalID))
	}
	for token, postings := range invIndex.Postings {
		if len(postings) == 0 {
			t.Errorf("token %q has an empty posting list", token)
		}
		for _, p := range postings {
			if _, live := docStore.Docs[p.DocID]; !live {
				t.Errorf("token %q references dead document %d", token, p.DocID)
			}
		}
	}
}

func TestNewService(t *testing.T) {
	if _, err := NewService(nil, store.NewDocumentStore()); err == nil {
		t.Error("expected error for nil inverted index")
	}
	if _, err := NewService(index.NewInvertedIndex(), nil); err == nil {
		t.Error("expected error for nil document store")
	}
}

func TestAddDocuments(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	docs := []model.Document{
		{"_id": "1", "title": "Hello World"},
		{"_id": "2", "title": "Goodbye World"},
	}
	applied, err := service.AddDocuments(docs, []string{"title"})
	if err != nil {
		t.Fatalf("AddDocuments() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied = %d, want 2", applied)
	}
	if len(docStore.Docs) != 2 {
		t.Errorf("stored %d documents, want 2", len(docStore.Docs))
	}
	checkConsistency(t, invIndex, docStore)

	// The stemmed word token carries the word weight.
	postings, exists := invIndex.Postings["hello"]
	if !exists {
		t.Fatal("expected a posting list for token \"hello\"")
	}
	if len(postings) != 1 || postings[0].Weight != index.WeightWord {
		t.Errorf("postings for \"hello\" = %v, want one posting of weight %d",
			postings, index.WeightWord)
	}

	// Grams carry the gram weight.
	gramPostings, exists := invIndex.Postings["hel"]
	if !exists {
		t.Fatal("expected a posting list for gram \"hel\"")
	}
	if gramPostings[0].Weight != index.WeightGram {
		t.Errorf("gram weight = %d, want %d", gramPostings[0].Weight, index.WeightGram)
	}
}

func TestAddDocumentsUpsert(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	if _, err := service.AddDocuments([]model.Document{{"_id": "1", "title": "Hello"}}, []string{"title"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if _, err := service.AddDocuments([]model.Document{{"_id": "1", "title": "Goodbye"}}, []string{"title"}); err != nil {
		t.Fatalf("second add failed: %v", err)
	}

	if len(docStore.Docs) != 1 {
		t.Errorf("stored %d documents after upsert, want 1", len(docStore.Docs))
	}
	if docStore.NextID != 1 {
		t.Errorf("NextID = %d, want 1 (internal id reused on upsert)", docStore.NextID)
	}
	if _, stale := invIndex.Postings["hello"]; stale {
		t.Error("old postings survived the upsert")
	}
	if _, fresh := invIndex.Postings["goodby"]; !fresh {
		t.Error("new postings missing after the upsert")
	}
	checkConsistency(t, invIndex, docStore)
}

func TestAddDocumentsFailFast(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	docs := []model.Document{
		{"_id": "1", "title": "Hello"},
		{"title": "missing id"},
		{"_id": "3", "title": "never reached"},
	}
	applied, err := service.AddDocuments(docs, []string{"title"})
	if err == nil {
		t.Fatal("expected an error for the document without _id")
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("error = %v, want a validation error", err)
	}
	// The prefix before the failure stays applied.
	if len(docStore.Docs) != 1 {
		t.Errorf("stored %d documents, want the 1 applied before the failure", len(docStore.Docs))
	}
	checkConsistency(t, invIndex, docStore)
}

func TestUpdateDocuments(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	if _, err := service.AddDocuments([]model.Document{{"_id": "1", "title": "Hello"}}, []string{"title"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	iid := docStore.ExternalIDtoInternalID["1"]

	applied, err := service.UpdateDocuments([]model.Document{{"_id": "1", "title": "Changed"}}, []string{"title"})
	if err != nil {
		t.Fatalf("UpdateDocuments() failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	if got := docStore.ExternalIDtoInternalID["1"]; got != iid {
		t.Errorf("internal id changed on update: %d -> %d", iid, got)
	}
	if _, stale := invIndex.Postings["hello"]; stale {
		t.Error("old postings survived the update")
	}
	checkConsistency(t, invIndex, docStore)
}

func TestUpdateDocumentsUnknownID(t *testing.T) {
	service, _, _ := newTestService(t)

	applied, err := service.UpdateDocuments([]model.Document{{"_id": "ghost", "title": "x"}}, []string{"title"})
	if !errors.Is(err, apperrors.ErrDocumentNotFound) {
		t.Errorf("error = %v, want document-not-found", err)
	}
	if applied != 0 {
		t.Errorf("applied = %d, want 0", applied)
	}
}

func TestDeleteDocuments(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	docs := []model.Document{
		{"_id": "1", "title": "Hello World"},
		{"_id": "2", "title": "Hello Again"},
	}
	if _, err := service.AddDocuments(docs, []string{"title"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	removed := service.DeleteDocuments([]string{"1", "ghost"})
	if removed != 1 {
		t.Errorf("removed = %d, want 1 (unknown ids are ignored)", removed)
	}
	if len(docStore.Docs) != 1 {
		t.Errorf("stored %d documents, want 1", len(docStore.Docs))
	}
	checkConsistency(t, invIndex, docStore)

	// The shared token must survive with only the living document.
	postings := invIndex.Postings["hello"]
	if len(postings) != 1 {
		t.Fatalf("postings for \"hello\" = %v, want exactly 1 after deletion", postings)
	}
}

func TestDeleteAllDocumentsPreservesCounter(t *testing.T) {
	service, invIndex, docStore := newTestService(t)

	docs := []model.Document{
		{"_id": "1", "title": "Hello"},
		{"_id": "2", "title": "World"},
	}
	if _, err := service.AddDocuments(docs, []string{"title"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	service.DeleteAllDocuments()

	if len(docStore.Docs) != 0 || len(docStore.ExternalIDtoInternalID) != 0 {
		t.Error("expected an empty store after clearing")
	}
	if len(invIndex.Postings) != 0 {
		t.Error("expected an empty inverted index after clearing")
	}
	if docStore.NextID != 2 {
		t.Errorf("NextID = %d, want 2 (ids are never reused, even across a clear)", docStore.NextID)
	}

	if _, err := service.AddDocuments([]model.Document{{"_id": "3", "title": "Back"}}, []string{"title"}); err != nil {
		t.Fatalf("add after clear failed: %v", err)
	}
	if got := docStore.ExternalIDtoInternalID["3"]; got != 2 {
		t.Errorf("internal id after clear = %d, want 2", got)
	}
}

func TestExtractFieldText(t *testing.T) {
	tests := []struct {
		name   string
		doc    model.Document
		fields []string
		want   string
	}{
		{
			"string field",
			model.Document{"_id": "1", "title": "Hello"},
			[]string{"title"},
			"Hello",
		},
		{
			"multiple fields in order",
			model.Document{"_id": "1", "title": "Hello", "body": "World"},
			[]string{"title", "body"},
			"Hello World",
		},
		{
			"missing field skipped",
			model.Document{"_id": "1", "title": "Hello"},
			[]string{"nope", "title"},
			"Hello",
		},
		{
			"array of strings",
			model.Document{"_id": "1", "tags": []interface{}{"go", 42.0, "search"}},
			[]string{"tags"},
			"go search",
		},
		{
			"object values in sorted key order",
			model.Document{"_id": "1", "names": map[string]interface{}{"b": "second", "a": "first", "c": 1.0}},
			[]string{"names"},
			"first second",
		},
		{
			"non-text field ignored",
			model.Document{"_id": "1", "year": 2020.0},
			[]string{"year"},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractFieldText(tt.doc, tt.fields); got != tt.want {
				t.Errorf("ExtractFieldText() = %q, want %q", got, tt.want)
			}
		})
	}
}

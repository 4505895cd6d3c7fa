package store

import "sync"

// DocumentStore owns the documents of one index. Payloads are kept as the
// exact JSON serialization produced at ingestion time so that retrieval
// returns what was ingested.
//
// Internal ids are assigned from NextID and never reused within the
// lifetime of the store, even after removal or a full clear.
type DocumentStore struct {
	Mu                     sync.RWMutex
	Docs                   map[uint32]string // Internal id to serialized document
	ExternalIDtoInternalID map[string]uint32 // User-provided "_id" to internal id
	NextID                 uint32
}

// NewDocumentStore returns an empty store with the id counter at zero.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		Docs:                   make(map[uint32]string),
		ExternalIDtoInternalID: make(map[string]uint32),
	}
}

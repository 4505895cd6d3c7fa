package index

import "sync"

// InvertedIndex maps a token to the postings of every document containing
// that token. No token ever maps to an empty posting list: mutations that
// drain a list must drop its key.
type InvertedIndex struct {
	Mu       sync.RWMutex
	Postings map[string]PostingList
}

// NewInvertedIndex returns an empty, ready-to-use inverted index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{Postings: make(map[string]PostingList)}
}

// Append adds a posting to a token's list, creating the list if the token
// is new. Caller must hold Mu.
func (ii *InvertedIndex) Append(token string, p Posting) {
	ii.Postings[token] = append(ii.Postings[token], p)
}

// PurgeDocument removes every posting referencing docID across all token
// lists and drops any token whose list becomes empty. Caller must hold Mu.
func (ii *InvertedIndex) PurgeDocument(docID uint32) {
	for token, list := range ii.Postings {
		kept := list[:0]
		for _, p := range list {
			if p.DocID != docID {
				kept = append(kept, p)
			}
		}
		if len(kept) == 0 {
			delete(ii.Postings, token)
			continue
		}
		ii.Postings[token] = kept
	}
}

// Reset drops every token list. Caller must hold Mu.
func (ii *InvertedIndex) Reset() {
	ii.Postings = make(map[string]PostingList)
}

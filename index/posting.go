package index

// Posting weights. A character n-gram match is worth 1, a whole stemmed
// word match is worth 10. A document may carry several postings for the
// same token; their weights accumulate during scoring.
const (
	WeightGram = 1
	WeightWord = 10
)

// Posting marks one occurrence of a token in a document.
type Posting struct {
	DocID  uint32 // Internal numeric id, assigned by the document store
	Weight uint8  // WeightGram or WeightWord
}

// PostingList is the ordered sequence of postings for a single token.
// Order follows insertion; scoring only sums weights, so no sort is kept.
type PostingList []Posting

package search

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"sort"

	"github.com/gramdex/gramdex/model"
	"github.com/gramdex/gramdex/services"
)

// DefaultTake is the page size applied when a search request does not
// specify one.
const DefaultTake = 2000000

// ShuffleSortKey is the sort_by sentinel selecting a deterministic
// seeded shuffle instead of a property sort.
const ShuffleSortKey = "$shuffle"

// Paginate runs the post-retrieval pipeline over already-parsed documents:
// filter, sort (or shuffle), reverse, skip/take, and projection to
// external ids. The reverse happens whether or not a sort ran; callers
// wanting natural order must sort explicitly.
func Paginate(items []model.Document, opts services.SearchOptions, skip, take int) services.SearchPage {
	if opts.Filter != nil {
		kept := make([]model.Document, 0, len(items))
		for _, item := range items {
			if opts.Filter.Matches(item) {
				kept = append(kept, item)
			}
		}
		items = kept
	}

	maxItems := len(items)

	if opts.SortBy != nil {
		sortType := "number"
		if opts.SortType != nil {
			sortType = *opts.SortType
		}

		if *opts.SortBy == ShuffleSortKey {
			seedName := "default"
			if opts.SortType != nil {
				seedName = *opts.SortType
			}
			shuffleItems(items, seedName)
		} else {
			sortItems(items, *opts.SortBy, opts.SortAsc, sortType)
		}
	}

	reverseItems(items)

	if skip > len(items) {
		skip = len(items)
	}
	page := items[skip:]
	if take < len(page) {
		page = page[:take]
	}

	ids := make([]string, 0, len(page))
	for _, item := range page {
		id, _ := item.GetID()
		ids = append(ids, id)
	}

	numPages := 1
	if len(ids) >= take {
		numPages = (maxItems + take - 1) / take
	}

	return services.SearchPage{
		Items:    ids,
		MaxItems: maxItems,
		NumItems: len(ids),
		NumPages: numPages,
	}
}

// ShuffleSeed derives the RNG seed for a named shuffle: the MD5 hex digest
// of the name, summing the decimal value of every digit character (hex
// letters contribute zero). Identical names therefore shuffle identically
// across calls and across processes.
func ShuffleSeed(name string) uint64 {
	digest := md5.Sum([]byte(name))
	var sum uint64
	for _, c := range hex.EncodeToString(digest[:]) {
		if c >= '0' && c <= '9' {
			sum += uint64(c - '0')
		}
	}
	return sum
}

func shuffleItems(items []model.Document, seedName string) {
	rng := rand.New(rand.NewSource(int64(ShuffleSeed(seedName))))
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

// sortItems sorts by a dot-notation property. sortAsc is inverted by
// contract: true means descending. Unknown sort types leave the order
// untouched.
func sortItems(items []model.Document, sortBy string, sortAsc bool, sortType string) {
	switch sortType {
	case "number":
		sort.SliceStable(items, func(i, j int) bool {
			a, _ := items[i].Lookup(sortBy).(float64)
			b, _ := items[j].Lookup(sortBy).(float64)
			if sortAsc {
				return b < a
			}
			return a < b
		})
	case "string":
		sort.SliceStable(items, func(i, j int) bool {
			a, _ := items[i].Lookup(sortBy).(string)
			b, _ := items[j].Lookup(sortBy).(string)
			if sortAsc {
				return b < a
			}
			return a < b
		})
	}
}

func reverseItems(items []model.Document) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}

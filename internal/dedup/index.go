package dedup

import "trendradar/internal/models"

// DefaultNumHashes and DefaultShingleSize match the teacher's code-dedup
// defaults; title text is short enough that a 2-rune shingle still
// produces a useful signature without degenerating into per-character
// noise.
const (
	DefaultNumHashes   = 64
	DefaultShingleSize = 2

	// DefaultThreshold is the minimum Jaccard similarity for two titles
	// to be considered near-duplicates.
	DefaultThreshold = 0.8
)

// Index is a standalone fuzzy-duplicate detector for RawContent
// titles. The crawl orchestrator does not use it; its Filter applies
// the same literal 30-character DedupKey pass first, and items that
// survive that exact-key pass can still be near-duplicates (e.g. a
// platform appends a trailing tag, or a title is truncated differently
// across two crawls), which this index catches on Jaccard similarity
// over character shingles.
type Index struct {
	minHash    *MinHash
	signatures map[string]*Signature
	threshold  float64
}

// NewIndex builds an empty Index with the given similarity threshold.
func NewIndex(threshold float64) *Index {
	return &Index{
		minHash:    NewMinHash(DefaultNumHashes, DefaultShingleSize),
		signatures: make(map[string]*Signature),
		threshold:  threshold,
	}
}

// Add registers item's title under key, returning its signature.
func (idx *Index) Add(key string, item models.RawContent) *Signature {
	sig := idx.minHash.ComputeSignature(item.Title)
	idx.signatures[key] = sig
	return sig
}

// IsDuplicate reports whether item's title is a near-duplicate of any
// title already in the index.
func (idx *Index) IsDuplicate(item models.RawContent) (string, bool) {
	candidate := idx.minHash.ComputeSignature(item.Title)
	for key, sig := range idx.signatures {
		if candidate.Normalized == sig.Normalized {
			return key, true
		}
		if idx.minHash.JaccardSimilarity(candidate, sig) >= idx.threshold {
			return key, true
		}
	}
	return "", false
}

// Filter runs items through exact DedupKey dedup first, then through
// the fuzzy MinHash index, returning the deduplicated slice in
// original order.
func (idx *Index) Filter(items []models.RawContent) []models.RawContent {
	seen := make(map[string]bool)
	out := make([]models.RawContent, 0, len(items))

	for _, item := range items {
		key := item.DedupKey()
		if seen[key] {
			continue
		}
		if _, dup := idx.IsDuplicate(item); dup {
			continue
		}
		seen[key] = true
		idx.Add(key, item)
		out = append(out, item)
	}

	return out
}

// Size returns the number of titles currently indexed.
func (idx *Index) Size() int { return len(idx.signatures) }

// Clear empties the index, ready for the next crawl cycle.
func (idx *Index) Clear() {
	idx.signatures = make(map[string]*Signature)
}

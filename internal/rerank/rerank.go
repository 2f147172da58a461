// Package rerank orders retrieved candidates and assembles the context
// passed to the language model.
package rerank

import (
	"sort"
	"strings"

	"github.com/bull/pdfask/internal/storage"
)

// DefaultTopP is the number of candidates kept for the context when no
// value is configured.
const DefaultTopP = 4

// Context stable-sorts the candidates by score descending, keeps the first
// topP, and joins their texts with a blank line. The sort is stable so tied
// scores keep their retrieval order and repeated queries build identical
// contexts. The input slice is not modified. Empty input or a non-positive
// topP yields an empty string.
func Context(candidates []storage.Candidate, topP int) string {
	if len(candidates) == 0 || topP <= 0 {
		return ""
	}

	sorted := make([]storage.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	if topP > len(sorted) {
		topP = len(sorted)
	}

	texts := make([]string, topP)
	for i, candidate := range sorted[:topP] {
		texts[i] = candidate.Text
	}
	return strings.Join(texts, "\n\n")
}

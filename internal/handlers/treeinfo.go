package handlers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/treedoc"
)

// complexityBucket buckets a document by its total node count (spec §4.7).
func complexityBucket(nodeCount int) string {
	switch {
	case nodeCount < 10:
		return "Simple"
	case nodeCount < 100:
		return "Moderate"
	default:
		return "Complex"
	}
}

// dominantAttributeTypes returns attribute type names ordered by frequency
// (most common first), ties broken alphabetically for determinism.
func dominantAttributeTypes(counts map[string]int) []string {
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		if counts[types[i]] != counts[types[j]] {
			return counts[types[i]] > counts[types[j]]
		}
		return types[i] < types[j]
	})
	return types
}

// fileInfoBlock renders the "BG3 FILE INFO" summary appended after a
// successfully parsed text-dialect document (spec §4.7).
func fileInfoBlock(doc treedoc.Document) string {
	var b strings.Builder
	b.WriteString("--- BG3 FILE INFO ---\n")
	fmt.Fprintf(&b, "Regions: %d\n", len(doc.Regions))

	shown := doc.Regions
	if len(shown) > 3 {
		shown = shown[:3]
	}
	for _, r := range shown {
		fmt.Fprintf(&b, "  %s: %d node(s)\n", r.ID, len(r.Nodes))
	}
	if len(doc.Regions) > 3 {
		fmt.Fprintf(&b, "  ... and %d more region(s)\n", len(doc.Regions)-3)
	}

	counts := doc.AttributeTypeCounts()
	dominant := dominantAttributeTypes(counts)
	if len(dominant) > 5 {
		dominant = dominant[:5]
	}
	if len(dominant) > 0 {
		fmt.Fprintf(&b, "Dominant attribute types: %s\n", strings.Join(dominant, ", "))
	}

	nodeCount := doc.NodeCount()
	fmt.Fprintf(&b, "Node count: %d\n", nodeCount)
	fmt.Fprintf(&b, "Complexity: %s\n", complexityBucket(nodeCount))

	return b.String()
}

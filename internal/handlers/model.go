package handlers

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

var modelExtensions = []string{".gr2"}

const modelSampleSize = 4 * 1024 // 4 KiB (spec §4.7)

// modelTokens are the substrings scanned for in the model header sample.
var modelTokens = []string{"mesh", "bone", "skeleton", "animation", "material", "vertex"}

// ModelHandler previews the game's 3D model container by reporting
// substring frequencies in the leading bytes, since the binary layout
// itself is out of scope (no 3D-model decoder ships here).
type ModelHandler struct{}

// NewModelHandler builds a ModelHandler.
func NewModelHandler() *ModelHandler { return &ModelHandler{} }

func (h *ModelHandler) Name() string { return "model" }

func (h *ModelHandler) Extensions() []string { return modelExtensions }

func (h *ModelHandler) CanHandle(path string) bool {
	return extOf(path) == ".gr2"
}

func (h *ModelHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		rec.Err = err.Error()
		return rec, nil
	}

	sample := content
	if len(sample) > modelSampleSize {
		sample = sample[:modelSampleSize]
	}
	lower := bytes.ToLower(sample)

	counts := make(map[string]int, len(modelTokens))
	for _, tok := range modelTokens {
		counts[tok] = bytes.Count(lower, []byte(tok))
	}

	tokens := make([]string, 0, len(modelTokens))
	for _, t := range modelTokens {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return counts[tokens[i]] > counts[tokens[j]] })

	var b strings.Builder
	fmt.Fprintf(&b, "Model file: %s (%d bytes)\n", rec.Filename, rec.Size)
	b.WriteString("Token frequencies in first 4 KiB:\n")
	for _, t := range tokens {
		fmt.Fprintf(&b, "  %s: %d\n", t, counts[t])
		rec.Metadata[t+"_count"] = fmt.Sprintf("%d", counts[t])
	}

	rec.Content = b.String()
	return rec, nil
}

package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/cyberdeco/bg3kit/internal/dialect/jsondialect"
)

var jsonExtensions = []string{".lsj", ".json"}

// JSONHandler previews the JSON-dialect tree document.
type JSONHandler struct{}

// NewJSONHandler builds a JSONHandler.
func NewJSONHandler() *JSONHandler { return &JSONHandler{} }

func (h *JSONHandler) Name() string { return "json" }

func (h *JSONHandler) Extensions() []string { return jsonExtensions }

func (h *JSONHandler) CanHandle(path string) bool {
	ext := extOf(path)
	for _, e := range jsonExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (h *JSONHandler) Preview(ctx context.Context, path string) (Record, error) {
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
	if len(sample) > textualReadLimit {
		sample = sample[:textualReadLimit]
	}

	doc, err := jsondialect.Parse(content)
	if err != nil {
		rec.Content = string(sample)
		rec.Err = fmt.Sprintf("unable to parse as JSON dialect: %v", err)
		return rec, nil
	}

	rec.Content = string(sample) + "\n" + fileInfoBlock(doc)
	rec.Metadata["version"] = doc.Version
	return rec, nil
}

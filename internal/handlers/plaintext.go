package handlers

import (
	"context"
	"os"
)

var plainTextExtensions = []string{".txt"}

const plainTextReadLimit = 64 * 1024

// PlainTextHandler previews unstructured text files. It claims only the
// .txt extension; files with an unrecognized extension are not routed here.
type PlainTextHandler struct{}

// NewPlainTextHandler builds a PlainTextHandler.
func NewPlainTextHandler() *PlainTextHandler { return &PlainTextHandler{} }

func (h *PlainTextHandler) Name() string { return "plaintext" }

func (h *PlainTextHandler) Extensions() []string { return plainTextExtensions }

func (h *PlainTextHandler) CanHandle(path string) bool {
	return extOf(path) == ".txt"
}

func (h *PlainTextHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		rec.Err = err.Error()
		return rec, nil
	}

	if int64(len(content)) > plainTextReadLimit {
		content = content[:plainTextReadLimit]
	}
	rec.Content = string(content)
	return rec, nil
}

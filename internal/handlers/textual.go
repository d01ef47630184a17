package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/cyberdeco/bg3kit/internal/dialect/textual"
)

const textualReadLimit = 2 * 1024 // 2 KiB (spec §4.7)

var textualExtensions = []string{".lsx", ".xml"}

// TextualHandler previews the XML-dialect tree document.
type TextualHandler struct{}

// NewTextualHandler builds a TextualHandler.
func NewTextualHandler() *TextualHandler { return &TextualHandler{} }

func (h *TextualHandler) Name() string { return "textual" }

func (h *TextualHandler) Extensions() []string { return textualExtensions }

func (h *TextualHandler) CanHandle(path string) bool {
	ext := extOf(path)
	for _, e := range textualExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (h *TextualHandler) Preview(ctx context.Context, path string) (Record, error) {
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

	doc, err := textual.ParseBytes(sample)
	if err != nil {
		// A truncated 2 KiB sample commonly fails to parse as complete
		// XML; fall back to the full content before giving up.
		doc, err = textual.ParseBytes(content)
	}
	if err != nil {
		rec.Content = string(sample)
		rec.Err = fmt.Sprintf("unable to parse as textual dialect: %v", err)
		return rec, nil
	}

	rec.Content = string(sample) + "\n" + fileInfoBlock(doc)
	rec.Metadata["root_tag"] = doc.RootTag
	rec.Metadata["version"] = doc.Version
	return rec, nil
}

// baseRecord stats path and fills the fields common to every handler.
func baseRecord(path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Record{Filename: filepath.Base(path), Extension: extOf(path)}, err
	}
	return Record{
		Filename:  filepath.Base(path),
		Size:      info.Size(),
		Extension: extOf(path),
		Metadata:  map[string]string{"size_human": humanize.Bytes(uint64(info.Size()))},
	}, nil
}

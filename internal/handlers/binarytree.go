package handlers

import (
	"context"
	"fmt"

	"github.com/cyberdeco/bg3kit/internal/dialect/textual"
)

var binaryExtensions = []string{".lsf", ".lsfx", ".lsbs", ".lsbc"}

// BinaryTreeHandler previews the binary-dialect tree document by
// round-tripping it through the external converter and reusing the
// textual handler's rendering on the intermediate (spec §4.7).
type BinaryTreeHandler struct {
	converter binaryConverter
}

type binaryConverter interface {
	ParseToTextual(ctx context.Context, path string) (string, error)
}

// NewBinaryTreeHandler builds a BinaryTreeHandler backed by converter,
// which must produce the textual-dialect XML text for a given LSF path.
func NewBinaryTreeHandler(converter binaryConverter) *BinaryTreeHandler {
	return &BinaryTreeHandler{converter: converter}
}

func (h *BinaryTreeHandler) Name() string { return "binary-tree" }

func (h *BinaryTreeHandler) Extensions() []string { return binaryExtensions }

func (h *BinaryTreeHandler) CanHandle(path string) bool {
	ext := extOf(path)
	for _, e := range binaryExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (h *BinaryTreeHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	if h.converter == nil {
		rec.Err = "no converter configured for binary dialect"
		return rec, nil
	}

	xmlText, err := h.converter.ParseToTextual(ctx, path)
	if err != nil {
		rec.Err = fmt.Sprintf("conversion to textual dialect failed: %v", err)
		return rec, nil
	}

	doc, err := textual.ParseBytes([]byte(xmlText))
	if err != nil {
		rec.Err = fmt.Sprintf("converted output did not parse as textual dialect: %v", err)
		return rec, nil
	}

	const header = "--- converted from binary dialect via external converter ---\n"
	rec.Content = header + fileInfoBlock(doc)
	rec.Metadata["root_tag"] = doc.RootTag
	rec.Metadata["version"] = doc.Version
	rec.Metadata["source_dialect"] = "binary"
	return rec, nil
}

package handlers

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
)

var locaExtensions = []string{".loca"}

const locaPreviewLimit = 5

// LocaEntry is a single localization string table row.
type LocaEntry struct {
	ContentUID string
	Text       string
}

// LocaConverter converts a .loca file to its XML representation via the
// external converter (`convert-resource --output-format xml`).
type LocaConverter interface {
	ConvertLocaToXML(ctx context.Context, path string) (string, error)
}

// LocaHandler previews a localization string table.
type LocaHandler struct {
	converter LocaConverter
}

// NewLocaHandler builds a LocaHandler. converter may be nil, in which case
// previews report the converter as unavailable rather than failing.
func NewLocaHandler(converter LocaConverter) *LocaHandler {
	return &LocaHandler{converter: converter}
}

func (h *LocaHandler) Name() string { return "localization" }

func (h *LocaHandler) Extensions() []string { return locaExtensions }

func (h *LocaHandler) CanHandle(path string) bool {
	return extOf(path) == ".loca"
}

func (h *LocaHandler) Preview(ctx context.Context, path string) (Record, error) {
	rec, err := baseRecord(path)
	if err != nil {
		return rec, err
	}

	if h.converter == nil {
		rec.Err = "no converter configured for localization preview"
		return rec, nil
	}

	entries, err := ExtractEntries(ctx, path, h.converter)
	if err != nil {
		rec.Err = fmt.Sprintf("unable to extract localization entries: %v", err)
		return rec, nil
	}

	rec.Metadata["entry_count"] = fmt.Sprintf("%d", len(entries))

	var b strings.Builder
	shown := entries
	truncated := false
	if len(shown) > locaPreviewLimit {
		shown = shown[:locaPreviewLimit]
		truncated = true
	}
	for _, e := range shown {
		fmt.Fprintf(&b, "%s: %s\n", e.ContentUID, e.Text)
	}
	if truncated {
		fmt.Fprintf(&b, "... and %d more entries\n", len(entries)-locaPreviewLimit)
	}
	rec.Content = b.String()
	return rec, nil
}

// ExtractEntries converts path to XML via converter and parses out every
// contentuid/text pair (supplemented feature: standalone localization
// extraction usable outside the preview path, e.g. by a batch export).
func ExtractEntries(ctx context.Context, path string, converter LocaConverter) ([]LocaEntry, error) {
	const op = "handlers.ExtractEntries"

	xmlText, err := converter.ConvertLocaToXML(ctx, path)
	if err != nil {
		return nil, bgerr.New(op, bgerr.KindConversionFailed, err)
	}

	dec := xml.NewDecoder(strings.NewReader(xmlText))
	var entries []LocaEntry
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || !strings.EqualFold(start.Name.Local, "content") {
			continue
		}

		var uid string
		for _, attr := range start.Attr {
			if strings.EqualFold(attr.Name.Local, "contentuid") {
				uid = attr.Value
			}
		}

		var text string
		if err := dec.DecodeElement(&text, &start); err != nil {
			return nil, bgerr.New(op, bgerr.KindInvalidFormat, err)
		}
		entries = append(entries, LocaEntry{ContentUID: uid, Text: text})
	}
	return entries, nil
}

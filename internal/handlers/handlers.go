// Package handlers implements the per-format preview handlers (spec §4.6,
// §4.7's body) and the ordered registry that dispatches a file path to one
// of them by extension. Detection proper (content sniffing) is
// formatdetect's job; a handler invokes it internally only when a format
// needs to distinguish sub-variants it owns.
package handlers

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Record is the structured preview produced for a single file (spec §3's
// Preview record). It is immutable once produced.
type Record struct {
	Filename   string
	Size       int64
	Extension  string
	Content    string
	Thumbnail  []byte // opaque image handle; nil when no decoder produced one
	Metadata   map[string]string
	Err        string
	CacheMtime time.Time
	CacheSize  int64
}

// Handler previews one family of files. CanHandle is extension-only
// dispatch (spec §4.6); content-based decisions happen inside Preview.
type Handler interface {
	CanHandle(path string) bool
	Preview(ctx context.Context, path string) (Record, error)
	Name() string
}

// ThumbnailDecoder produces a rendered thumbnail from raw texture bytes.
// No implementation ships in this module (image decoding is out of scope);
// a caller may pass one to NewTextureHandler.
type ThumbnailDecoder func(content []byte) ([]byte, error)

// Registry is an ordered list of Handlers, checked in registration order.
type Registry struct {
	handlers  []Handler
	locaIndex int // position of the default loca handler, for WithLocaHandler to replace in place
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// NewRegistry builds a Registry with all built-in handlers in priority
// order: structured tree dialects first, then the auxiliary blob formats,
// then plain text (.txt) last.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		handlers: []Handler{
			NewTextualHandler(),
			NewJSONHandler(),
			NewLocaHandler(nil),
			NewTextureHandler(nil),
			NewModelHandler(),
			NewShaderHandler(),
			NewPlainTextHandler(),
		},
		locaIndex: 2,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithBinaryHandler registers a binary-tree handler. It is injected rather
// than built by default because it requires a live converter
// (procmon.Monitor), which NewRegistry has no way to construct on its own.
func WithBinaryHandler(h Handler) Option {
	return func(r *Registry) {
		// Binary dialects are checked before the structured-text handlers
		// below them would otherwise never see, so prepend.
		r.handlers = append([]Handler{h}, r.handlers...)
		r.locaIndex++
	}
}

// WithLocaHandler replaces the default unconfigured loca handler with one
// backed by a live converter, in the same registration slot so dispatch
// order is unaffected. It is injected rather than built by default because
// it requires a live converter (procmon.Monitor), which NewRegistry has no
// way to construct on its own.
func WithLocaHandler(h Handler) Option {
	return func(r *Registry) {
		r.handlers[r.locaIndex] = h
	}
}

// HandlerFor returns the first handler willing to claim path.
func (r *Registry) HandlerFor(path string) (Handler, bool) {
	for _, h := range r.handlers {
		if h.CanHandle(path) {
			return h, true
		}
	}
	return nil, false
}

// SupportedExtensions lists every extension any registered handler claims,
// sorted, de-duplicated. Used to build the Unsupported message.
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, h := range r.handlers {
		if declarer, ok := h.(interface{ Extensions() []string }); ok {
			for _, ext := range declarer.Extensions() {
				if !seen[ext] {
					seen[ext] = true
					exts = append(exts, ext)
				}
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether any registered handler claims path.
func (r *Registry) IsSupported(path string) bool {
	_, ok := r.HandlerFor(path)
	return ok
}

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

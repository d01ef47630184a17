// Package preview implements the preview engine (C7) and its LRU cache
// (C8): producing a structured handlers.Record for a file, and serving it
// from cache when the file's mtime and size haven't drifted.
package preview

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/handlers"
)

// ProgressFunc receives the same (percent, message) pair procmon.Progress
// carries, for binary-dialect conversions that take observable time.
type ProgressFunc func(percent int, message string)

// Engine produces handlers.Record values for arbitrary files, optionally
// reading from and writing to a Cache.
type Engine struct {
	registry *handlers.Registry
	cache    *Cache
}

// New builds an Engine. cache may be nil to disable caching entirely.
func New(registry *handlers.Registry, cache *Cache) *Engine {
	return &Engine{registry: registry, cache: cache}
}

// Preview produces a record for path, consulting the cache first.
func (e *Engine) Preview(ctx context.Context, path string) (handlers.Record, error) {
	return e.PreviewWithProgress(ctx, path, nil)
}

// PreviewWithProgress is Preview with an optional progress callback for
// long-running binary-dialect conversions (spec §4.7).
func (e *Engine) PreviewWithProgress(ctx context.Context, path string, onProgress ProgressFunc) (handlers.Record, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		return handlers.Record{Filename: path, Err: statErr.Error()}, nil
	}
	if info.IsDir() {
		return handlers.Record{Filename: path, Err: "path is a directory, not a file"}, nil
	}

	if e.cache != nil {
		if rec, ok := e.cache.Get(path, info.ModTime(), info.Size()); ok {
			return rec, nil
		}
	}

	h, ok := e.registry.HandlerFor(path)
	if !ok {
		return handlers.Record{
			Filename: info.Name(),
			Size:     info.Size(),
			Err:      unsupportedMessage(e.registry),
		}, nil
	}

	if onProgress != nil {
		onProgress(0, "starting preview")
	}

	rec, err := h.Preview(ctx, path)
	if err != nil {
		return rec, err
	}

	if onProgress != nil {
		onProgress(100, "done")
	}

	if e.cache != nil {
		e.cache.Set(path, rec, info.ModTime(), info.Size())
	}
	return rec, nil
}

func unsupportedMessage(r *handlers.Registry) string {
	exts := r.SupportedExtensions()
	return fmt.Sprintf("unsupported file type; supported extensions: %s", strings.Join(exts, ", "))
}

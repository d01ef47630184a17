// Package config bundles the toolkit's tunable knobs into a single
// Options tree, with per-component defaults and a merge that lets a
// project-level file override a user-level one.
package config

import (
	"cmp"
	"sort"
	"time"

	"github.com/cyberdeco/bg3kit/internal/convert"
	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// ProcessOptions configures the external converter's process monitor.
type ProcessOptions struct {
	// ConverterPath is the path to the converter executable. Required.
	ConverterPath string `json:"converter_path,omitempty" jsonschema:"description=Path to the external converter executable"`
	// TimeoutSeconds bounds a single conversion invocation. Zero uses
	// procmon.DefaultTimeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" jsonschema:"description=Per-invocation timeout in seconds (0 = default)"`
	// InitTimeoutSeconds bounds the startup capability probe. Zero uses
	// procmon.DefaultInitTimeout.
	InitTimeoutSeconds int `json:"init_timeout_seconds,omitempty" jsonschema:"description=Startup probe timeout in seconds (0 = default)"`
	// GracePeriodSeconds is how long Cancel waits after an interrupt
	// before escalating to a forced kill. Zero uses procmon.DefaultGracePeriod.
	GracePeriodSeconds int `json:"grace_period_seconds,omitempty" jsonschema:"description=Cancel grace period in seconds before a forced kill (0 = default)"`
}

// DefaultProcessOptions returns process monitor defaults. ConverterPath is
// left empty; callers must supply it.
func DefaultProcessOptions() ProcessOptions {
	return ProcessOptions{}
}

// ToMonitorOptions converts to the procmon.Options procmon.New expects.
func (o ProcessOptions) ToMonitorOptions() procmon.Options {
	opts := procmon.Options{}
	if o.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(o.TimeoutSeconds) * time.Second
	}
	if o.InitTimeoutSeconds > 0 {
		opts.InitTimeout = time.Duration(o.InitTimeoutSeconds) * time.Second
	}
	if o.GracePeriodSeconds > 0 {
		opts.GracePeriod = time.Duration(o.GracePeriodSeconds) * time.Second
	}
	return opts
}

func (o ProcessOptions) merge(t ProcessOptions) ProcessOptions {
	o.ConverterPath = cmp.Or(t.ConverterPath, o.ConverterPath)
	o.TimeoutSeconds = cmp.Or(t.TimeoutSeconds, o.TimeoutSeconds)
	o.InitTimeoutSeconds = cmp.Or(t.InitTimeoutSeconds, o.InitTimeoutSeconds)
	o.GracePeriodSeconds = cmp.Or(t.GracePeriodSeconds, o.GracePeriodSeconds)
	return o
}

// PathOptions configures the emulated-drive path translator (C1).
type PathOptions struct {
	// DriveLetter is the single uppercase letter the converter's emulated
	// filesystem root is mounted at, e.g. "Z". Empty uses pathtrans's
	// own default ('Z').
	DriveLetter string `json:"drive_letter,omitempty" jsonschema:"description=Emulated drive letter the converter mounts the host root at, e.g. Z"`
}

// DefaultPathOptions returns path translator defaults.
func DefaultPathOptions() PathOptions {
	return PathOptions{DriveLetter: "Z"}
}

// ToTranslator builds a pathtrans.Translator from o.
func (o PathOptions) ToTranslator() pathtrans.Translator {
	letter := byte('Z')
	if len(o.DriveLetter) > 0 {
		letter = o.DriveLetter[0]
	}
	return pathtrans.New(letter)
}

func (o PathOptions) merge(t PathOptions) PathOptions {
	o.DriveLetter = cmp.Or(t.DriveLetter, o.DriveLetter)
	return o
}

// CacheOptions configures the preview cache (C8).
type CacheOptions struct {
	// Capacity is the maximum number of cached preview records held at
	// once. Zero uses DefaultCacheCapacity.
	Capacity int `json:"capacity,omitempty" jsonschema:"description=Maximum cached preview records (0 = default)"`
}

// DefaultCacheCapacity is used when CacheOptions.Capacity is unset.
const DefaultCacheCapacity = 100

// DefaultCacheOptions returns preview cache defaults.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{Capacity: DefaultCacheCapacity}
}

// ResolvedCapacity returns o.Capacity, or DefaultCacheCapacity if unset.
func (o CacheOptions) ResolvedCapacity() int {
	return cmp.Or(o.Capacity, DefaultCacheCapacity)
}

func (o CacheOptions) merge(t CacheOptions) CacheOptions {
	o.Capacity = cmp.Or(t.Capacity, o.Capacity)
	return o
}

// ScanOptions configures the conversion scanner (C9).
type ScanOptions struct {
	// ExcludeGlobs are additional doublestar glob patterns, relative to
	// the scan root, that are skipped during discovery.
	ExcludeGlobs []string `json:"exclude_globs,omitempty" jsonschema:"description=Doublestar glob patterns excluded from conversion scanning"`
}

// DefaultScanOptions returns conversion scanner defaults.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{}
}

func (o ScanOptions) merge(t ScanOptions) ScanOptions {
	o.ExcludeGlobs = sortedUniqueStrings(append(o.ExcludeGlobs, t.ExcludeGlobs...))
	return o
}

// BatchOptions configures the batch driver (C12).
type BatchOptions struct {
	// Workers bounds the concurrent conversion worker pool. Zero or
	// negative uses convert.DefaultWorkerCount.
	Workers int `json:"workers,omitempty" jsonschema:"description=Bounded worker pool size for batch conversion (0 = default)"`
}

// DefaultBatchOptions returns batch driver defaults.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{Workers: convert.DefaultWorkerCount}
}

// ResolvedWorkers returns o.Workers, or convert.DefaultWorkerCount if unset.
func (o BatchOptions) ResolvedWorkers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return convert.DefaultWorkerCount
}

func (o BatchOptions) merge(t BatchOptions) BatchOptions {
	o.Workers = cmp.Or(t.Workers, o.Workers)
	return o
}

// Options is the full tree of tunable knobs for the toolkit's pipeline
// components. The zero value, passed through Default, yields a usable
// configuration apart from Monitor.ConverterPath.
type Options struct {
	Process PathOptions    `json:"process_paths,omitempty"`
	Monitor ProcessOptions `json:"monitor,omitempty"`
	Cache   CacheOptions   `json:"cache,omitempty"`
	Scan    ScanOptions    `json:"scan,omitempty"`
	Batch   BatchOptions   `json:"batch,omitempty"`
}

// Default returns Options with every component's defaults applied.
func Default() Options {
	return Options{
		Process: DefaultPathOptions(),
		Monitor: DefaultProcessOptions(),
		Cache:   DefaultCacheOptions(),
		Scan:    DefaultScanOptions(),
		Batch:   DefaultBatchOptions(),
	}
}

// Merge overlays t onto o, field by field: scalars are replaced when t's
// value is non-zero, and ExcludeGlobs are unioned. o is treated as the
// base (e.g. user-level) configuration and t as the override (e.g.
// project-level).
func (o Options) Merge(t Options) Options {
	o.Process = o.Process.merge(t.Process)
	o.Monitor = o.Monitor.merge(t.Monitor)
	o.Cache = o.Cache.merge(t.Cache)
	o.Scan = o.Scan.merge(t.Scan)
	o.Batch = o.Batch.merge(t.Batch)
	return o
}

// sortedUniqueStrings returns ss deduplicated and sorted.
func sortedUniqueStrings(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ss))
	var out []string
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

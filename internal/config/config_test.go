package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefault_AppliesComponentDefaults(t *testing.T) {
	o := Default()
	assert.Equal(t, "Z", o.Process.DriveLetter)
	assert.Equal(t, DefaultCacheCapacity, o.Cache.Capacity)
	assert.Positive(t, o.Batch.Workers)
	assert.Empty(t, o.Monitor.ConverterPath)
}

func TestProcessOptions_ToMonitorOptions_ZeroUsesProcmonDefaults(t *testing.T) {
	opts := ProcessOptions{}.ToMonitorOptions()
	assert.Zero(t, opts.Timeout)
	assert.Zero(t, opts.InitTimeout)
	assert.Zero(t, opts.GracePeriod)
}

func TestProcessOptions_ToMonitorOptions_ConvertsSeconds(t *testing.T) {
	opts := ProcessOptions{TimeoutSeconds: 30, InitTimeoutSeconds: 5, GracePeriodSeconds: 2}.ToMonitorOptions()
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 5*time.Second, opts.InitTimeout)
	assert.Equal(t, 2*time.Second, opts.GracePeriod)
}

func TestPathOptions_ToTranslator_DefaultsToZ(t *testing.T) {
	tr := PathOptions{}.ToTranslator()
	emulated, err := tr.ToEmulated(t.TempDir())
	assert.NoError(t, err)
	assert.Contains(t, emulated, "Z:")
}

func TestOptions_Merge_OverridesScalars(t *testing.T) {
	base := Options{
		Monitor: ProcessOptions{ConverterPath: "/usr/bin/base-converter", TimeoutSeconds: 60},
		Cache:   CacheOptions{Capacity: 100},
		Batch:   BatchOptions{Workers: 2},
	}
	override := Options{
		Monitor: ProcessOptions{TimeoutSeconds: 120},
		Batch:   BatchOptions{Workers: 8},
	}

	merged := base.Merge(override)
	assert.Equal(t, "/usr/bin/base-converter", merged.Monitor.ConverterPath)
	assert.Equal(t, 120, merged.Monitor.TimeoutSeconds)
	assert.Equal(t, 100, merged.Cache.Capacity)
	assert.Equal(t, 8, merged.Batch.Workers)
}

func TestOptions_Merge_UnionsExcludeGlobs(t *testing.T) {
	base := Options{Scan: ScanOptions{ExcludeGlobs: []string{"vendor/**", "dist/**"}}}
	override := Options{Scan: ScanOptions{ExcludeGlobs: []string{"dist/**", "tmp/**"}}}

	merged := base.Merge(override)
	assert.Equal(t, []string{"dist/**", "tmp/**", "vendor/**"}, merged.Scan.ExcludeGlobs)
}

func TestCacheOptions_ResolvedCapacity_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultCacheCapacity, CacheOptions{}.ResolvedCapacity())
	assert.Equal(t, 42, CacheOptions{Capacity: 42}.ResolvedCapacity())
}

func TestBatchOptions_ResolvedWorkers_FallsBackToDefault(t *testing.T) {
	assert.Positive(t, BatchOptions{}.ResolvedWorkers())
	assert.Equal(t, 6, BatchOptions{Workers: 6}.ResolvedWorkers())
}

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// Converter is the minimal surface the orchestrator and batch driver need
// from procmon.Monitor, narrowed so tests can supply a fake (same pattern
// as dialect/binary.Converter).
type Converter interface {
	Run(ctx context.Context, args ...string) *procmon.Handle
}

// ProgressFunc receives a coarse (percent, message) update as a workspace
// conversion proceeds.
type ProgressFunc func(percent int, message string)

// ConversionRecord is the outcome of converting a single staged job.
type ConversionRecord struct {
	Source    string
	TargetExt string
	Succeeded bool
	Err       error
}

// WorkspacePrep is the result of preparing a workspace for conversion
// (spec §4.10).
type WorkspacePrep struct {
	StagingRoot string
	OwnsStaging bool
	Conversions []ConversionRecord
	Errors      []error
}

// Orchestrator drives workspace staging and per-job conversion via a
// Converter (normally a procmon.Monitor) and a pathtrans.Translator for
// the emulated-drive argument form the converter expects.
type Orchestrator struct {
	converter    Converter
	translator   pathtrans.Translator
	excludeGlobs []string
}

// NewOrchestrator builds an Orchestrator. excludeGlobs is passed through to
// ScanWithExcludes during PrepareWorkspace; pass nil for no exclusions.
func NewOrchestrator(converter Converter, translator pathtrans.Translator, excludeGlobs []string) *Orchestrator {
	return &Orchestrator{converter: converter, translator: translator, excludeGlobs: excludeGlobs}
}

// PrepareWorkspace implements the 5-step staging flow in spec §4.10. When
// sourceRoot contains no convertible files, it returns a WorkspacePrep
// that points straight at sourceRoot with OwnsStaging false; otherwise it
// stages a temp copy at T/workspace and converts in place there, leaving
// the original sourceRoot untouched.
func (o *Orchestrator) PrepareWorkspace(ctx context.Context, sourceRoot string, onProgress ProgressFunc) (prep WorkspacePrep, err error) {
	const op = "convert.PrepareWorkspace"
	emit(onProgress, 5, "scan")

	grouped, err := ScanWithExcludes(sourceRoot, o.excludeGlobs)
	if err != nil {
		return WorkspacePrep{}, bgerr.New(op, bgerr.KindIO, err)
	}
	total := CountJobs(grouped)
	if total == 0 {
		emit(onProgress, 100, "no conversions requested")
		return WorkspacePrep{StagingRoot: sourceRoot, OwnsStaging: false}, nil
	}

	tmpDir, err := os.MkdirTemp("", "bg3kit-workspace-*")
	if err != nil {
		return WorkspacePrep{}, bgerr.New(op, bgerr.KindIO, err)
	}
	stagingRoot := filepath.Join(tmpDir, "workspace")

	defer func() {
		if err != nil {
			os.RemoveAll(tmpDir)
		}
	}()

	if copyErr := copyTree(sourceRoot, stagingRoot); copyErr != nil {
		err = bgerr.New(op, bgerr.KindIO, copyErr)
		return WorkspacePrep{}, err
	}

	jobs := orderedJobs(grouped)
	done := 0
	for _, job := range jobs {
		stagedSource := filepath.Join(stagingRoot, relativeTo(sourceRoot, job.SourcePath))
		rec := o.convertOne(ctx, stagedSource, job.TargetExt)
		prep.Conversions = append(prep.Conversions, rec)
		if rec.Err != nil {
			prep.Errors = append(prep.Errors, rec.Err)
		}

		done++
		pct := progressForJob(done, total)
		emit(onProgress, pct, fmt.Sprintf("converting %d/%d", done, total))

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = bgerr.New(op, bgerr.KindCancelled, ctxErr)
			return WorkspacePrep{}, err
		}
	}

	emit(onProgress, 95, "finalize")
	prep.StagingRoot = stagingRoot
	prep.OwnsStaging = true
	emit(onProgress, 100, "done")
	return prep, nil
}

// Cleanup removes the staging directory prep owns, a no-op otherwise.
// Callers must invoke this once they're done with prep; a crashed caller
// simply leaks a temp dir for the OS to reclaim.
func Cleanup(prep WorkspacePrep) error {
	if !prep.OwnsStaging {
		return nil
	}
	return os.RemoveAll(filepath.Dir(prep.StagingRoot))
}

func (o *Orchestrator) convertOne(ctx context.Context, stagedSourcePath, targetExt string) ConversionRecord {
	rec := ConversionRecord{Source: stagedSourcePath, TargetExt: targetExt}

	outPath := stagedSourcePath[:len(stagedSourcePath)-len(filepath.Ext(stagedSourcePath))] // strip ".lsx"

	emulatedIn, err := o.translator.ToEmulated(stagedSourcePath)
	if err != nil {
		rec.Err = fmt.Errorf("translate input path: %w", err)
		return rec
	}
	emulatedOut, err := o.translator.ToEmulated(outPath)
	if err != nil {
		rec.Err = fmt.Errorf("translate output path: %w", err)
		return rec
	}

	h := o.converter.Run(ctx,
		"--action", "convert-resource",
		"--game", "bg3",
		"--source", emulatedIn,
		"--destination", emulatedOut,
		"--input-format", "lsx",
		"--output-format", targetExt,
	)
	for range h.Progress {
	}
	result := <-h.Done

	if result.Status != procmon.StatusSucceeded {
		rec.Err = fmt.Errorf("convert %s -> .%s: %s (%s)", filepath.Base(stagedSourcePath), targetExt, result.Status, result.Stderr)
		return rec
	}

	if err := os.Remove(stagedSourcePath); err != nil {
		rec.Err = fmt.Errorf("remove staged source after conversion: %w", err)
		return rec
	}
	rec.Succeeded = true
	return rec
}

// orderedJobs flattens grouped into a single slice ordered by target
// extension name, then by the stable per-group order Scan produced.
func orderedJobs(grouped map[string][]Job) []Job {
	exts := make([]string, 0, len(grouped))
	for ext := range grouped {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	var jobs []Job
	for _, ext := range exts {
		jobs = append(jobs, grouped[ext]...)
	}
	return jobs
}

// progressForJob maps (done, total) onto the 10-90% conversion band.
func progressForJob(done, total int) int {
	if total == 0 {
		return 90
	}
	span := 80.0 * float64(done) / float64(total)
	pct := 10 + int(span)
	if pct > 90 {
		pct = 90
	}
	return pct
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.Base(path)
	}
	return rel
}

func emit(fn ProgressFunc, percent int, message string) {
	if fn != nil {
		fn(percent, message)
	}
}

// copyTree recursively copies src into dst, preserving file permissions
// and modification times.
func copyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(target, info.Mode())
		}
		if info.Mode()&os.ModeSymlink != 0 {
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		}
		if err := copyFile(path, target, info); err != nil {
			return err
		}
		return os.Chtimes(target, info.ModTime(), info.ModTime())
	})
}

func copyFile(srcPath, dstPath string, info os.FileInfo) error {
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

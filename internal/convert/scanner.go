// Package convert implements the conversion scanner (C9), orchestrator
// (C10), and batch driver (C12): discovering files that request a
// dialect conversion, staging a workspace copy to convert them in, and
// fanning the work out across a bounded worker pool.
package convert

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// requestSuffixes maps a lowercased basename suffix that "requests
// conversion" (spec §4.9) to the target extension obtained by stripping
// the trailing ".lsx".
var requestSuffixes = []string{".lsf.lsx", ".lsb.lsx", ".lsbs.lsx", ".lsbc.lsx"}

// Job is a single discovered conversion request.
type Job struct {
	// SourcePath is the ".lsx" file on disk that requests conversion.
	SourcePath string
	// TargetExt is the extension to convert to, e.g. "lsf", without a
	// leading dot.
	TargetExt string
}

// Scan walks root and returns every Job found, grouped by TargetExt. Each
// group's jobs are ordered by a stable, case-sensitive, sorted directory
// walk (spec §4.9). Hidden files and directories (leading dot) are
// skipped entirely. Equivalent to ScanWithExcludes(root, nil).
func Scan(root string) (map[string][]Job, error) {
	return ScanWithExcludes(root, nil)
}

// ScanWithExcludes is Scan with an additional caller-supplied set of
// doublestar glob patterns (relative to root, forward-slash separated)
// to skip -- a supplemented feature for callers that want to exclude,
// say, a vendored or already-converted subtree without a full ignore
// file.
func ScanWithExcludes(root string, excludeGlobs []string) (map[string][]Job, error) {
	var jobs []Job

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if name != "." && strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if matchesAnyGlob(root, path, excludeGlobs) {
			return nil
		}
		targetExt, ok := matchRequest(name)
		if !ok {
			return nil
		}
		jobs = append(jobs, Job{SourcePath: path, TargetExt: targetExt})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].SourcePath < jobs[j].SourcePath })

	grouped := make(map[string][]Job)
	for _, j := range jobs {
		grouped[j.TargetExt] = append(grouped[j.TargetExt], j)
	}
	return grouped, nil
}

// matchesAnyGlob reports whether path's root-relative, forward-slash
// form matches any of globs.
func matchesAnyGlob(root, path string, globs []string) bool {
	if len(globs) == 0 {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	return false
}

// matchRequest reports whether name (a basename) requests conversion and,
// if so, the target extension.
func matchRequest(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, suffix := range requestSuffixes {
		if strings.HasSuffix(lower, suffix) {
			target := strings.TrimSuffix(suffix, ".lsx")
			target = strings.TrimPrefix(target, ".")
			return target, true
		}
	}
	return "", false
}

// CountJobs totals the jobs across every target-extension group.
func CountJobs(grouped map[string][]Job) int {
	total := 0
	for _, jobs := range grouped {
		total += len(jobs)
	}
	return total
}

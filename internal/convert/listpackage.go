package convert

import (
	"bufio"
	"context"
	"strconv"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
	"github.com/cyberdeco/bg3kit/internal/pathtrans"
	"github.com/cyberdeco/bg3kit/internal/procmon"
)

// PackageEntry is one file inside an archive, as reported by the
// converter's list-package verb. The archive format itself is never
// decoded here (Non-goal); this only parses the converter's own
// inventory output.
type PackageEntry struct {
	Path       string
	Size       int64
	Compressed int64
}

// ListPackage shells out to converter's "list-package" verb for the
// archive at path and parses its manifest output into PackageEntry
// values. Read-only: it never extracts or modifies the archive.
//
// The manifest is one tab-separated line per entry: "path\tsize\tcompressed".
// Malformed lines are skipped rather than failing the whole listing.
func ListPackage(ctx context.Context, converter Converter, translator pathtrans.Translator, path string) ([]PackageEntry, error) {
	const op = "convert.ListPackage"

	emulated, err := translator.ToEmulated(path)
	if err != nil {
		return nil, bgerr.New(op, bgerr.KindInvalidFormat, err)
	}

	h := converter.Run(ctx, "--action", "list-package", "--game", "bg3", "--source", emulated)

	var out strings.Builder
	for range h.Progress {
	}
	result := <-h.Done
	if result.Status != procmon.StatusSucceeded {
		return nil, bgerr.New(op, bgerr.KindConversionFailed, errListFailed(result))
	}
	out.WriteString(result.Stdout)

	return parsePackageManifest(out.String()), nil
}

func parsePackageManifest(output string) []PackageEntry {
	var entries []PackageEntry
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		size, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		compressed, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, PackageEntry{Path: fields[0], Size: size, Compressed: compressed})
	}
	return entries
}

type listFailedError struct {
	result procmon.Result
}

func (e *listFailedError) Error() string {
	return "list-package failed: " + e.result.Stderr
}

func errListFailed(result procmon.Result) error {
	return &listFailedError{result: result}
}

// Package pathtrans converts between host filesystem paths and the
// emulated-drive path form the external converter expects when it runs
// under a host-foreign ABI.
package pathtrans

import (
	"path/filepath"
	"strings"

	"github.com/cyberdeco/bg3kit/internal/bgerr"
)

// Translator maps host paths to a single configured emulated drive letter
// and back. It holds no state beyond the drive letter and performs no I/O.
type Translator struct {
	drive byte // e.g. 'Z'
}

// New returns a Translator for the given drive letter (case-insensitive,
// a single ASCII letter). An invalid letter falls back to 'Z'.
func New(driveLetter byte) Translator {
	if driveLetter < 'A' || driveLetter > 'Z' {
		if driveLetter >= 'a' && driveLetter <= 'z' {
			driveLetter -= 'a' - 'A'
		} else {
			driveLetter = 'Z'
		}
	}
	return Translator{drive: driveLetter}
}

// ToEmulated converts an absolute host path to emulated-drive form, e.g.
// "/home/user/Mods/Foo" -> `Z:\home\user\Mods\Foo`.
func (t Translator) ToEmulated(hostPath string) (string, error) {
	if !filepath.IsAbs(hostPath) {
		return "", bgerr.New("pathtrans.ToEmulated", bgerr.KindInvalidFormat,
			errInvalidPath(hostPath))
	}
	cleaned := filepath.Clean(hostPath)
	backslashed := strings.ReplaceAll(cleaned, "/", `\`)
	return string(t.drive) + `:` + backslashed, nil
}

// FromEmulated is the inverse of ToEmulated: it strips the configured drive
// prefix and restores forward slashes.
func (t Translator) FromEmulated(emulatedPath string) (string, error) {
	prefix := string(t.drive) + `:`
	if !strings.HasPrefix(emulatedPath, prefix) {
		return "", bgerr.New("pathtrans.FromEmulated", bgerr.KindInvalidFormat,
			errInvalidPath(emulatedPath))
	}
	rest := strings.TrimPrefix(emulatedPath, prefix)
	forwardSlashed := strings.ReplaceAll(rest, `\`, "/")
	if !strings.HasPrefix(forwardSlashed, "/") {
		forwardSlashed = "/" + forwardSlashed
	}
	return filepath.Clean(forwardSlashed), nil
}

type pathError struct {
	path string
}

func (e *pathError) Error() string { return "invalid path: " + e.path }

func errInvalidPath(path string) error { return &pathError{path: path} }

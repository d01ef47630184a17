// Package idgen provides identifier helpers used by the mod validator when
// it flags a missing or malformed UUID/handle attribute. It does not author
// new tree content (an explicit spec non-goal); it only generates an
// identifier a validation check can suggest.
package idgen

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// NewNodeUUID returns a fresh random UUID string in the canonical
// hyphenated lowercase form the game's tree documents use for node "UUID"
// attributes (e.g. meta.lsx's ModuleInfo/UUID).
func NewNodeUUID() string {
	return uuid.New().String()
}

// ValidUUID reports whether s parses as a UUID in any of the forms the RFC
// permits (used by the mod validator to sanity-check an existing UUID
// attribute rather than replace it).
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// NewLocaHandle returns a fresh synthetic localization handle of the shape
// the game uses for TranslatedString/TranslatedFSString attributes:
// "h" followed by 32 lowercase hex characters, matching the handle
// generator in the original mac-pak tooling.
func NewLocaHandle() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand.Read on a fixed-size buffer does not fail in
		// practice; fall back to a UUID-derived handle rather than panic.
		u := uuid.New()
		copy(b[:], u[:])
	}
	return fmt.Sprintf("h%x", b)
}

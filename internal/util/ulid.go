package util

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewULID returns a new lowercase ULID. ulid.Make is safe for concurrent use
// and monotonic within the same millisecond.
func NewULID() string {
	return strings.ToLower(ulid.Make().String())
}

// IsULID reports whether s parses as a ULID, ignoring any prefix before the last '-'.
func IsULID(s string) bool {
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		s = s[i+1:]
	}
	_, err := ulid.ParseStrict(strings.ToUpper(s))
	return err == nil
}

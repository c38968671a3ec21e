package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// EntityName carries the two identifier forms derived from the raw name a
// user passes to `generate module`.
type EntityName struct {
	// Lower is the lower-cased identifier used for file names, variables and paths
	Lower string

	// TypeName is Lower with its first character upper-cased
	TypeName string
}

// ErrInvalidEntityName is returned for names that cannot become a
// TypeScript identifier and a path segment.
var ErrInvalidEntityName = errors.New("invalid module name")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// ValidateEntityName rejects names that would escape the modules directory
// or produce invalid identifiers in the generated sources and the router.
func ValidateEntityName(raw string) error {
	if !identifierPattern.MatchString(raw) {
		return fmt.Errorf("%w: %q (use letters, digits, _ or $, not starting with a digit)", ErrInvalidEntityName, raw)
	}
	return nil
}

// NewEntityName derives both forms from raw. Callers pass a name accepted by
// ValidateEntityName; no trimming or de-pluralization happens here.
func NewEntityName(raw string) EntityName {
	lower := strings.ToLower(raw)
	return EntityName{
		Lower:    lower,
		TypeName: upperFirst(lower),
	}
}

// Plural returns the naive English plural used for mount paths and table names.
func (e EntityName) Plural() string {
	return e.Lower + "s"
}

// RoutesIdent is the identifier the router file binds the module's routes to.
func (e EntityName) RoutesIdent() string {
	return e.Lower + "Routes"
}

func (e EntityName) String() string {
	return e.Lower
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

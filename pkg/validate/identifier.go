// Package validate holds the checks run before any output tree exists.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/hatch/pkg/errors"
)

// IdentifierPattern is what a project identifier must match to be usable as
// a module name: a letter or underscore, then at least one more letter,
// digit or underscore.
var IdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{1,}$`)

// Result is the outcome of a validation
type Result struct {
	Valid   bool
	Value   string
	Message string
}

// Err returns nil for a valid result and an IDENTIFIER_INVALID error otherwise
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return errors.New(errors.ErrIdentifierInvalid, r.Message).WithDetail("value", r.Value)
}

// Identifier checks a project identifier
func Identifier(value string) Result {
	if IdentifierPattern.MatchString(value) {
		return Result{
			Valid:   true,
			Value:   value,
			Message: fmt.Sprintf("project slug '%s' is valid", value),
		}
	}
	return Result{Value: value, Message: diagnose(value)}
}

func diagnose(value string) string {
	base := fmt.Sprintf("the project slug (%s) is not a valid module name", value)
	switch {
	case value == "":
		return base + ": it is empty"
	case len(value) < 2:
		return base + ": it must be at least two characters long"
	case value[0] >= '0' && value[0] <= '9':
		return base + ": it must start with a letter or an underscore"
	case strings.Contains(value, "-"):
		return base + fmt.Sprintf(": do not use '-', use '_' instead (%s)", strings.ReplaceAll(value, "-", "_"))
	default:
		return base + ": only letters, digits and underscores are allowed"
	}
}

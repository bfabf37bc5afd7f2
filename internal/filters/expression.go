package filters

import (
	"strings"

	"github.com/pkg/errors"
)

// Position expressions are passed to the tool unevaluated; only their syntax
// is checked here. Permitted symbols are W/H (main canvas) and w/h (the
// overlay itself), digits, and basic arithmetic.

// normalizePosition validates a position value, resolving the "center"
// shorthand and defaulting empty values to the standard inset.
func normalizePosition(value, axis string) (string, error) {
	return normalizePositionWith(value, axis, defaultCoord)
}

func normalizePositionDefault(value, def string) (string, error) {
	return normalizePositionWith(value, "", def)
}

func normalizePositionWith(value, axis, def string) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return def, nil
	}
	switch strings.ToLower(s) {
	case "center", "centre", "middle":
		if axis == "y" {
			return "(H-h)/2", nil
		}
		return "(W-w)/2", nil
	}
	if err := ValidateExpression(s); err != nil {
		return "", err
	}
	return s, nil
}

// ValidateExpression performs the syntactic check on a position expression:
// permitted symbols only, balanced parentheses, no empty input, no operator
// at the end.
func ValidateExpression(expr string) error {
	if expr == "" {
		return errors.Wrap(ErrInvalidExpression, "empty expression")
	}
	depth := 0
	for _, r := range expr {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return errors.Wrapf(ErrInvalidExpression, "unbalanced parentheses in %q", expr)
			}
		case r >= '0' && r <= '9':
		case r == 'W' || r == 'H' || r == 'w' || r == 'h':
		case r == '+' || r == '-' || r == '*' || r == '/' || r == '.' || r == '%':
		case r == ' ':
		default:
			return errors.Wrapf(ErrInvalidExpression, "illegal symbol %q in %q", string(r), expr)
		}
	}
	if depth != 0 {
		return errors.Wrapf(ErrInvalidExpression, "unbalanced parentheses in %q", expr)
	}
	last := expr[len(expr)-1]
	if strings.ContainsRune("+-*/%", rune(last)) {
		return errors.Wrapf(ErrInvalidExpression, "dangling operator in %q", expr)
	}
	return nil
}

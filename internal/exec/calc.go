package exec

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/traefik/yaegi/interp"
)

// Arithmetic only: the expression must pass this before the interpreter ever
// sees it.
var arithmeticRe = regexp.MustCompile(`^[0-9\s+\-*/().]+$`)

var errNotArithmetic = errors.New("not a plain arithmetic expression")

var numberRe = regexp.MustCompile(`[0-9]+(\.[0-9]*)?|\.[0-9]+`)

// floatExpr rewrites bare integer literals as floats so division keeps its
// fractional part (5/2 is 2.5, not Go's truncated 2).
func floatExpr(expr string) string {
	return numberRe.ReplaceAllStringFunc(expr, func(tok string) string {
		if strings.Contains(tok, ".") {
			return tok
		}
		return tok + ".0"
	})
}

// EvalArithmetic evaluates a digits-and-operators expression in a fresh
// sandboxed interpreter with no symbols loaded.
func EvalArithmetic(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || !arithmeticRe.MatchString(expr) {
		return "", errNotArithmetic
	}

	i := interp.New(interp.Options{})
	v, err := i.Eval(floatExpr(expr))
	if err != nil {
		return "", fmt.Errorf("eval %q: %w", expr, err)
	}
	if !v.IsValid() {
		return "", fmt.Errorf("eval %q: no value", expr)
	}
	return fmt.Sprint(v.Interface()), nil
}

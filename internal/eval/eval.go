// Package eval evaluates ${...} placeholders found in spec inputs.
//
// Expressions are Go expressions run by the yaegi interpreter. The
// interpreter is not sandboxed; only evaluate documents from trusted authors.
package eval

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// DefaultImports are the packages visible to placeholder expressions.
var DefaultImports = []string{"strings", "strconv", "fmt", "math"}

// Interpreter evaluates expressions on one shared yaegi interpreter.
type Interpreter struct {
	mu sync.Mutex
	i  *interp.Interpreter
}

// New creates an Interpreter with the given packages imported.
func New(imports ...string) (*Interpreter, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	for _, pkg := range imports {
		if _, err := i.Eval(fmt.Sprintf("import %q", pkg)); err != nil {
			return nil, fmt.Errorf("failed to import %q: %w", pkg, err)
		}
	}
	return &Interpreter{i: i}, nil
}

// Evaluate runs expr and returns its value formatted with fmt.Sprint.
func (e *Interpreter) Evaluate(expr string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	v, err := e.i.Eval(expr)
	if err != nil {
		return "", fmt.Errorf("expression %q: %w", expr, err)
	}
	if !v.IsValid() || (v.Kind() == reflect.Func) {
		return "", fmt.Errorf("expression %q has no value", expr)
	}
	return fmt.Sprint(v.Interface()), nil
}

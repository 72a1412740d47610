package proc

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/spyview/pkg"
)

// Where is a compiled candidate predicate written in expr-lang, for example
//
//	Label endsWith "manage.py" && "runserver" in Args
//
// A nil *Where accepts every candidate.
type Where struct {
	program *vm.Program
	source  string
}

// CompileWhere compiles src against the [Candidate] environment. An empty or
// blank source yields a nil *Where.
func CompileWhere(src string) (*Where, error) {
	if strings.TrimSpace(src) == "" {
		return nil, nil //nolint:nilnil
	}

	program, err := expr.Compile(src, expr.Env(Candidate{}), expr.AsBool())
	if err != nil {
		return nil, pkg.ErrInvalidFilter.Wrap(err)
	}

	return &Where{program: program, source: src}, nil
}

// String returns the expression source.
func (w *Where) String() string {
	if w == nil {
		return ""
	}

	return w.source
}

// Match evaluates w against c. Evaluation errors and non-boolean results
// reject the candidate.
func (w *Where) Match(c Candidate) bool {
	if w == nil {
		return true
	}

	out, err := expr.Run(w.program, c)
	if err != nil {
		return false
	}

	ok, isBool := out.(bool)

	return isBool && ok
}

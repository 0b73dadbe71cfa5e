package expression

import (
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/autobrr/otherfile/pkg/pathops"
)

// Candidate is the environment an exclude expression is evaluated against.
type Candidate struct {
	Path string
	Dir  string
	Name string
	Base string
	Ext  string
	Root string
	Rel  string
}

type CompiledExpression struct {
	Program *vm.Program
	Text    string
}

func NewCandidate(root, path string) *Candidate {
	base, ext, dir := pathops.SplitPath(path)

	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}

	return &Candidate{
		Path: path,
		Dir:  dir,
		Name: filepath.Base(path),
		Base: base,
		Ext:  ext,
		Root: root,
		Rel:  filepath.ToSlash(rel),
	}
}

func Compile(expressions []string) ([]CompiledExpression, error) {
	compiled := make([]CompiledExpression, 0, len(expressions))

	for _, text := range expressions {
		program, err := expr.Compile(text, expr.Env(Candidate{}), expr.AsBool())
		if err != nil {
			return nil, errors.Wrapf(err, "compile expression %q", text)
		}

		compiled = append(compiled, CompiledExpression{
			Program: program,
			Text:    text,
		})
	}

	return compiled, nil
}

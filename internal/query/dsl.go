package query

import (
	"fmt"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/vm"
)

// ParsedQuery holds a validated and compiled expression.
type ParsedQuery struct {
	program *vm.Program
	raw     string
	now     func() time.Time
}

// Raw returns the original expression string.
func (pq *ParsedQuery) Raw() string {
	return pq.raw
}

// Match evaluates the expression against one record's field values.
func (pq *ParsedQuery) Match(record map[string]any) (bool, error) {
	env := make(map[string]any, len(record)+len(AllowedFunctions))
	for k, v := range record {
		env[k] = v
	}
	addFunctions(env, pq.now)

	out, err := expr.Run(pq.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", pq.raw, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// QueryDSL handles expression parsing and validation.
type QueryDSL struct {
	fields map[string]FieldDef
	now    func() time.Time
}

// NewQueryDSL creates a new DSL parser with the given field definitions.
func NewQueryDSL(fields map[string]FieldDef) *QueryDSL {
	return &QueryDSL{fields: fields, now: time.Now}
}

// WithClock returns a copy of the DSL whose now() uses the given clock.
func (d *QueryDSL) WithClock(now func() time.Time) *QueryDSL {
	return &QueryDSL{fields: d.fields, now: now}
}

// Parse compiles and validates an expression string.
func (d *QueryDSL) Parse(expression string) (*ParsedQuery, error) {
	if expression == "" {
		return nil, fmt.Errorf("empty expression")
	}

	program, err := expr.Compile(
		expression,
		expr.Env(d.buildEnv()),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	node := program.Node()
	if err := d.validateAST(&node); err != nil {
		return nil, err
	}

	return &ParsedQuery{program: program, raw: expression, now: d.now}, nil
}

// buildEnv creates the typed placeholder environment for compilation.
func (d *QueryDSL) buildEnv() map[string]any {
	env := make(map[string]any)
	for name, field := range d.fields {
		switch field.Type {
		case FieldTypeString:
			env[name] = ""
		case FieldTypeInt:
			env[name] = 0
		case FieldTypeBool:
			env[name] = false
		case FieldTypeTime:
			env[name] = time.Time{}
		case FieldTypeList:
			env[name] = []string{}
		}
	}
	addFunctions(env, d.now)
	return env
}

func addFunctions(env map[string]any, now func() time.Time) {
	env["now"] = func() time.Time { return now() }
	env["duration"] = func(s string) time.Duration {
		d, _ := time.ParseDuration(s)
		return d
	}
	env["date"] = func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
}

// validateAST walks the AST to validate fields and operators.
func (d *QueryDSL) validateAST(node *ast.Node) error {
	v := &validationVisitor{fields: d.fields}
	ast.Walk(node, v)
	return v.err
}

// validationVisitor checks fields and operators in the AST.
type validationVisitor struct {
	fields map[string]FieldDef
	err    error
}

func (v *validationVisitor) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}

	switch n := (*node).(type) {
	case *ast.IdentifierNode:
		if _, ok := v.fields[n.Value]; !ok {
			if !AllowedFunctions[n.Value] && !isBuiltinFunction(n.Value) {
				v.err = fmt.Errorf("unknown field: %s", n.Value)
			}
		}

	case *ast.BinaryNode:
		if ident, ok := n.Left.(*ast.IdentifierNode); ok {
			if field, ok := v.fields[ident.Value]; ok {
				if !field.IsOperatorAllowed(n.Operator) {
					v.err = fmt.Errorf("operator %q not allowed for field %q", n.Operator, ident.Value)
				}
			}
		}

	case *ast.MemberNode:
		if ident, ok := n.Node.(*ast.IdentifierNode); ok {
			if _, ok := v.fields[ident.Value]; ok {
				v.err = fmt.Errorf("field %q does not support member access", ident.Value)
			}
		}

	case *ast.CallNode:
		if ident, ok := n.Callee.(*ast.IdentifierNode); ok {
			if !AllowedFunctions[ident.Value] && !isBuiltinFunction(ident.Value) {
				v.err = fmt.Errorf("function %q is not allowed", ident.Value)
			}
		}
	}
}

// isBuiltinFunction checks if a function is a built-in expr function.
func isBuiltinFunction(name string) bool {
	builtins := map[string]bool{
		"len": true, "lower": true, "upper": true, "trim": true,
		"int": true, "string": true, "abs": true,
		"min": true, "max": true,
	}
	return builtins[name]
}

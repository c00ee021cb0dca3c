// Package progfile loads Lox programs stored as YAML syntax trees.
//
// A program is a YAML sequence of statements. Every statement and every
// non-literal expression is a mapping with exactly one key naming the
// node kind. Plain scalars are literals; references use local tags:
//
//	- class:
//	    name: Breakfast
//	    methods:
//	      - name: init
//	        params: [meat]
//	        body:
//	          - expr: {set: [!this, meat, !var meat]}
//	- var: [b, {call: [!var Breakfast, "bacon"]}]
//	- print: {get: [!var b, meat]}
package progfile

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"gopkg.in/yaml.v3"

	"github.com/mgomes/loxobj/lox"
)

const (
	tagVar   = "!var"
	tagThis  = "!this"
	tagSuper = "!super"
)

// identPattern rejects reserved words, which the standard regexp engine
// cannot express without lookahead.
var identPattern = regexp2.MustCompile(
	`^(?!(?:and|class|else|false|for|fun|if|nil|or|print|return|super|this|true|var|while)$)[A-Za-z_][A-Za-z0-9_]*$`,
	regexp2.None,
)

var binaryShorthands = map[string]lox.BinaryOp{
	"sub": lox.OpSubtract,
	"mul": lox.OpMultiply,
	"div": lox.OpDivide,
	"eq":  lox.OpEqual,
	"ne":  lox.OpNotEqual,
	"lt":  lox.OpLess,
	"le":  lox.OpLessEqual,
	"gt":  lox.OpGreater,
	"ge":  lox.OpGreaterEqual,
}

// DecodeError reports a malformed node in a program file.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// ValidIdentifier reports whether name can be used as a variable, class,
// method, parameter, or property name.
func ValidIdentifier(name string) bool {
	ok, err := identPattern.MatchString(name)
	return err == nil && ok
}

// Load decodes a YAML program. The returned Program carries source as its
// Source so runtime errors can render code frames against it.
func Load(source []byte) (*lox.Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	prog := &lox.Program{Source: string(source)}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return prog, nil
	}
	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return prog, nil
	}
	stmts, err := decodeStatements(root)
	if err != nil {
		return nil, err
	}
	prog.Statements = stmts
	return prog, nil
}

func failf(node *yaml.Node, format string, args ...any) error {
	return &DecodeError{Line: node.Line, Column: node.Column, Message: fmt.Sprintf(format, args...)}
}

func position(node *yaml.Node) lox.Position {
	return lox.Position{Line: node.Line, Column: node.Column}
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// single splits a one-key mapping into its key and value nodes.
func single(node *yaml.Node) (string, *yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return "", nil, failf(node, "expected a single-key mapping")
	}
	if len(node.Content) != 2 {
		return "", nil, failf(node, "expected exactly one key, found %d", len(node.Content)/2)
	}
	return node.Content[0].Value, node.Content[1], nil
}

func fields(node *yaml.Node, allowed ...string) (map[string]*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, failf(node, "expected a mapping")
	}
	out := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		known := false
		for _, name := range allowed {
			if key.Value == name {
				known = true
				break
			}
		}
		if !known {
			return nil, failf(key, "unknown field %q (want one of %s)", key.Value, strings.Join(allowed, ", "))
		}
		if _, dup := out[key.Value]; dup {
			return nil, failf(key, "duplicate field %q", key.Value)
		}
		out[key.Value] = node.Content[i+1]
	}
	return out, nil
}

func items(node *yaml.Node, want int) ([]*yaml.Node, error) {
	if node.Kind != yaml.SequenceNode {
		if want < 0 {
			return nil, failf(node, "expected a sequence")
		}
		return nil, failf(node, "expected a sequence of %d items", want)
	}
	if want >= 0 && len(node.Content) != want {
		return nil, failf(node, "expected %d items, found %d", want, len(node.Content))
	}
	return node.Content, nil
}

func identifier(node *yaml.Node, what string) (string, error) {
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		if node == nil {
			return "", fmt.Errorf("missing %s", what)
		}
		return "", failf(node, "%s must be a plain string", what)
	}
	if !ValidIdentifier(node.Value) {
		return "", failf(node, "invalid %s %q", what, node.Value)
	}
	return node.Value, nil
}

func identifiers(node *yaml.Node, what string) ([]string, error) {
	if isNull(node) {
		return nil, nil
	}
	list, err := items(node, -1)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		name, err := identifier(item, what)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, failf(item, "duplicate %s %q", what, name)
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

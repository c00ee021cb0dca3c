package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mgomes/loxobj/internal/progfile"
	"github.com/mgomes/loxobj/lox"
)

var errQuit = errors.New("quit")

// session drives one execution from inspector commands. Program output
// is buffered and returned with each command's result.
type session struct {
	exec *lox.Execution
	out  *bytes.Buffer
	ctx  context.Context
	// startup is what the program printed while it ran.
	startup string
}

type varEntry struct {
	name  string
	value lox.Value
}

func newSession(prog *loaded) (*session, error) {
	var out bytes.Buffer
	exec, err := prog.newExecution(&out)
	if err != nil {
		return nil, err
	}
	sess := &session{exec: exec, out: &out, ctx: context.Background()}
	if _, err := exec.Run(sess.ctx, prog.program); err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}
	sess.startup = sess.drain()
	return sess, nil
}

// drain returns and clears what the program printed.
func (s *session) drain() string {
	text := strings.TrimRight(s.out.String(), "\n")
	s.out.Reset()
	return text
}

// vars lists the program's globals, hiding host builtins.
func (s *session) vars() []varEntry {
	var entries []varEntry
	for _, name := range s.exec.Globals().Names() {
		val, ok := s.exec.Lookup(name)
		if !ok || val.Kind() == lox.KindBuiltin {
			continue
		}
		entries = append(entries, varEntry{name: name, value: val})
	}
	return entries
}

func (s *session) classes() []*lox.Class {
	var out []*lox.Class
	for _, entry := range s.vars() {
		if entry.value.Kind() == lox.KindClass && entry.value.Class().Name() == entry.name {
			out = append(out, entry.value.Class())
		}
	}
	return out
}

// summary counts the classes and instances held in globals.
func (s *session) summary() string {
	var classes, instances int
	for _, entry := range s.vars() {
		switch entry.value.Kind() {
		case lox.KindClass:
			classes++
		case lox.KindInstance:
			instances++
		}
	}
	return fmt.Sprintf("%d classes, %d instances", classes, instances)
}

// execute runs one command line. errQuit signals the caller to stop.
func (s *session) execute(line string) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var (
		result string
		err    error
	)
	switch verb {
	case ":quit", ":q":
		return "", errQuit
	case ":help", ":h":
		result = helpText()
	case ":vars", ":v":
		result = s.describeVars()
	case ":classes":
		result = s.describeClasses()
	case ":class":
		result, err = s.describeClass(rest)
	case ":inspect":
		result, err = s.describeInstance(rest)
	case "new":
		result, err = s.newInstance(rest)
	case "call":
		result, err = s.callMethod(rest)
	case "get":
		result, err = s.getProperty(rest)
	case "set":
		result, err = s.setProperty(rest)
	case "super":
		result, err = s.callSuper(rest)
	default:
		return "", fmt.Errorf("unknown command: %s", verb)
	}

	printed := s.drain()
	if printed != "" && result != "" {
		result = printed + "\n" + result
	} else if printed != "" {
		result = printed
	}
	return result, err
}

func (s *session) describeVars() string {
	entries := s.vars()
	if len(entries) == 0 {
		return "no variables defined"
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, fmt.Sprintf("%s = %s", entry.name, entry.value.GoString()))
	}
	return strings.Join(lines, "\n")
}

func (s *session) describeClasses() string {
	classes := s.classes()
	if len(classes) == 0 {
		return "no classes defined"
	}
	lines := make([]string, 0, len(classes))
	for _, cl := range classes {
		if sup := cl.Superclass(); sup != nil {
			lines = append(lines, fmt.Sprintf("%s < %s", cl.Name(), sup.Name()))
		} else {
			lines = append(lines, cl.Name())
		}
	}
	return strings.Join(lines, "\n")
}

// describeClass prints the chain and, for every method visible on an
// instance, the class that defines it.
func (s *session) describeClass(rest string) (string, error) {
	cl, err := s.lookupClass(strings.TrimSpace(rest))
	if err != nil {
		return "", err
	}
	chain := cl.Chain()
	names := make([]string, len(chain))
	seen := map[string]bool{}
	var visible []string
	for i, link := range chain {
		names[i] = link.Name()
		for _, name := range link.MethodNames() {
			if !seen[name] {
				seen[name] = true
				visible = append(visible, name)
			}
		}
	}
	sort.Strings(visible)

	var b strings.Builder
	fmt.Fprintf(&b, "chain: %s\n", strings.Join(names, " < "))
	fmt.Fprintf(&b, "arity: %d", cl.Arity())
	for _, name := range visible {
		method, owner := cl.FindMethod(name)
		fmt.Fprintf(&b, "\n  %s(%s) from %s", name, strings.Join(method.Params, ", "), owner.Name())
	}
	return b.String(), nil
}

func (s *session) describeInstance(rest string) (string, error) {
	name := strings.TrimSpace(rest)
	if name == "" {
		return "", errors.New("usage: :inspect VAR")
	}
	inst, err := s.lookupInstance(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nid: %s", inst, inst.ID())
	for _, field := range inst.FieldNames() {
		val, _ := inst.Field(field)
		fmt.Fprintf(&b, "\n  %s = %s", field, val.GoString())
	}
	return b.String(), nil
}

func (s *session) lookupClass(name string) (*lox.Class, error) {
	if name == "" {
		return nil, errors.New("class name required")
	}
	val, ok := s.exec.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	if val.Kind() != lox.KindClass {
		return nil, fmt.Errorf("%s is a %s, not a class", name, val.Kind())
	}
	return val.Class(), nil
}

func (s *session) lookupInstance(name string) (*lox.Instance, error) {
	val, ok := s.exec.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("undefined variable '%s'", name)
	}
	if val.Kind() != lox.KindInstance {
		return nil, fmt.Errorf("%s is a %s, not an instance", name, val.Kind())
	}
	return val.Instance(), nil
}

// words splits off the first n space-separated words of rest and returns
// the remainder unparsed.
func words(rest string, n int, usage string) ([]string, string, error) {
	out := make([]string, 0, n)
	for len(out) < n {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return nil, "", fmt.Errorf("usage: %s", usage)
		}
		word, tail, _ := strings.Cut(rest, " ")
		if !progfile.ValidIdentifier(word) {
			return nil, "", fmt.Errorf("invalid name %q", word)
		}
		out = append(out, word)
		rest = tail
	}
	return out, strings.TrimSpace(rest), nil
}

// evalArgs evaluates a comma-separated argument list against the globals.
func (s *session) evalArgs(src string) ([]lox.Value, error) {
	exprs, err := progfile.ParseArguments(src)
	if err != nil {
		return nil, err
	}
	values := make([]lox.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := s.eval(expr)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

func (s *session) eval(expr lox.Expression) (lox.Value, error) {
	return s.exec.Run(s.ctx, &lox.Program{Statements: []lox.Statement{&lox.ExprStmt{Expr: expr}}})
}

func (s *session) newInstance(rest string) (string, error) {
	names, tail, err := words(rest, 2, "new VAR CLASS args...")
	if err != nil {
		return "", err
	}
	cl, err := s.lookupClass(names[1])
	if err != nil {
		return "", err
	}
	args, err := s.evalArgs(tail)
	if err != nil {
		return "", err
	}
	inst, err := s.exec.Construct(cl, args)
	if err != nil {
		return "", err
	}
	s.exec.Globals().Define(names[0], lox.NewInstance(inst))
	return fmt.Sprintf("%s = %s", names[0], inst), nil
}

func (s *session) callMethod(rest string) (string, error) {
	names, tail, err := words(rest, 2, "call VAR METHOD args...")
	if err != nil {
		return "", err
	}
	inst, err := s.lookupInstance(names[0])
	if err != nil {
		return "", err
	}
	callee, err := inst.Get(names[1])
	if err != nil {
		return "", err
	}
	args, err := s.evalArgs(tail)
	if err != nil {
		return "", err
	}
	result, err := s.exec.Call(callee, args)
	if err != nil {
		return "", err
	}
	return result.GoString(), nil
}

func (s *session) getProperty(rest string) (string, error) {
	names, tail, err := words(rest, 2, "get VAR NAME")
	if err != nil {
		return "", err
	}
	if tail != "" {
		return "", errors.New("usage: get VAR NAME")
	}
	inst, err := s.lookupInstance(names[0])
	if err != nil {
		return "", err
	}
	val, err := inst.Get(names[1])
	if err != nil {
		return "", err
	}
	if bound := val.BoundMethod(); bound != nil {
		return fmt.Sprintf("%s (defined on %s)", val, bound.DefiningClass().Name()), nil
	}
	return val.GoString(), nil
}

func (s *session) setProperty(rest string) (string, error) {
	names, tail, err := words(rest, 2, "set VAR NAME VALUE")
	if err != nil {
		return "", err
	}
	inst, err := s.lookupInstance(names[0])
	if err != nil {
		return "", err
	}
	args, err := s.evalArgs(tail)
	if err != nil {
		return "", err
	}
	if len(args) != 1 {
		return "", errors.New("usage: set VAR NAME VALUE")
	}
	inst.Set(names[1], args[0])
	return fmt.Sprintf("%s.%s = %s", names[0], names[1], args[0].GoString()), nil
}

// callSuper resolves METHOD as `super.METHOD` would from a method defined
// on CLASS, bound to the instance in VAR.
func (s *session) callSuper(rest string) (string, error) {
	names, tail, err := words(rest, 3, "super VAR CLASS METHOD args...")
	if err != nil {
		return "", err
	}
	inst, err := s.lookupInstance(names[0])
	if err != nil {
		return "", err
	}
	cl, err := s.lookupClass(names[1])
	if err != nil {
		return "", err
	}
	if !inst.Class().IsSubclassOf(cl) {
		return "", fmt.Errorf("%s is not an instance of %s", names[0], cl.Name())
	}
	bound, err := lox.ResolveSuper(cl, names[2], inst)
	if err != nil {
		return "", err
	}
	args, err := s.evalArgs(tail)
	if err != nil {
		return "", err
	}
	result, err := s.exec.Call(lox.NewBoundMethod(bound), args)
	if err != nil {
		return "", err
	}
	return result.GoString(), nil
}

func helpText() string {
	lines := make([]string, 0, len(inspectorCommands))
	for _, c := range inspectorCommands {
		lines = append(lines, fmt.Sprintf("%-32s %s", c.usage, c.desc))
	}
	return strings.Join(lines, "\n")
}

var inspectorCommands = []struct {
	usage string
	desc  string
}{
	{":classes", "List declared classes"},
	{":class NAME", "Show a class's chain and methods"},
	{":inspect VAR", "Show an instance's id and fields"},
	{"new VAR CLASS args...", "Construct an instance into VAR"},
	{"call VAR METHOD args...", "Invoke a method on an instance"},
	{"get VAR NAME", "Read a field or bound method"},
	{"set VAR NAME VALUE", "Assign a field"},
	{"super VAR CLASS METHOD args...", "Call METHOD as super from CLASS"},
	{":vars", "Show globals"},
	{":help", "Show this help"},
	{":quit", "Exit"},
}

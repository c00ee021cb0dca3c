package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mgomes/loxobj/internal/progfile"
	"github.com/mgomes/loxobj/lox"
)

func newTestSession(t *testing.T, source string) *session {
	t.Helper()
	prog, err := progfile.Load([]byte(source))
	if err != nil {
		t.Fatalf("load program: %v", err)
	}
	cfg, err := progfile.ParseConfig(nil, progfile.ConfigFileName)
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	sess, err := newSession(&loaded{program: prog, config: cfg})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return sess
}

func mustExecute(t *testing.T, sess *session, line string) string {
	t.Helper()
	out, err := sess.execute(line)
	if err != nil {
		t.Fatalf("%s: %v", line, err)
	}
	return out
}

func TestSessionKeepsStartupOutput(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)
	want := "Enjoy your ham and English muffin, Dear reader.\nAnd a glass of OJ"
	if sess.startup != want {
		t.Fatalf("unexpected startup output %q", sess.startup)
	}
	if out := mustExecute(t, sess, ":classes"); strings.Contains(out, "Enjoy") {
		t.Fatalf("startup output leaked into first command: %q", out)
	}
}

func TestSessionNewCallGetSet(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)

	if out := mustExecute(t, sess, `new b Breakfast "bacon", toast`); out != "b = Breakfast instance" {
		t.Fatalf("unexpected new output %q", out)
	}
	if out := mustExecute(t, sess, `call b serve "Dear reader"`); out != "Enjoy your bacon and toast, Dear reader.\nNil" {
		t.Fatalf("unexpected call output %q", out)
	}
	if out := mustExecute(t, sess, "get b meat"); out != `"bacon":string` {
		t.Fatalf("unexpected get output %q", out)
	}
	if out := mustExecute(t, sess, "get b serve"); out != "fun serve (defined on Breakfast)" {
		t.Fatalf("unexpected bound method output %q", out)
	}
	if out := mustExecute(t, sess, `set b meat "eggs"`); out != `b.meat = "eggs":string` {
		t.Fatalf("unexpected set output %q", out)
	}
	if out := mustExecute(t, sess, "set b side !var Breakfast"); out != "b.side = Breakfast:class" {
		t.Fatalf("unexpected set output %q", out)
	}
	if out := mustExecute(t, sess, "call b serve you"); out != "Enjoy your eggs and toast, you.\nNil" {
		t.Fatalf("unexpected call output %q", out)
	}
}

func TestSessionSuperStartsAboveDefiningClass(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)

	out := mustExecute(t, sess, "call benedict serve you")
	if out != "Enjoy your ham and English muffin, you.\nAnd a glass of OJ\nNil" {
		t.Fatalf("unexpected override output %q", out)
	}
	out = mustExecute(t, sess, "super benedict Brunch serve you")
	if out != "Enjoy your ham and English muffin, you.\nNil" {
		t.Fatalf("unexpected super output %q", out)
	}

	_, err := sess.execute("super benedict Breakfast serve you")
	var noSuper *lox.NoSuperclassError
	if !errors.As(err, &noSuper) || noSuper.Class != "Breakfast" {
		t.Fatalf("expected NoSuperclass(Breakfast), got %v", err)
	}

	mustExecute(t, sess, `new plain Breakfast a, b`)
	_, err = sess.execute("super plain Brunch serve you")
	if err == nil || !strings.Contains(err.Error(), "plain is not an instance of Brunch") {
		t.Fatalf("expected instance check error, got %v", err)
	}
}

func TestSessionDescribesClasses(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)

	if out := mustExecute(t, sess, ":classes"); out != "Breakfast\nBrunch < Breakfast" {
		t.Fatalf("unexpected classes output %q", out)
	}
	want := "chain: Brunch < Breakfast\narity: 3\n  init(meat, bread, drink) from Brunch\n  serve(who) from Brunch"
	if out := mustExecute(t, sess, ":class Brunch"); out != want {
		t.Fatalf("unexpected class output:\n%s", out)
	}
	if _, err := sess.execute(":class benedict"); err == nil || !strings.Contains(err.Error(), "not a class") {
		t.Fatalf("expected not-a-class error, got %v", err)
	}
}

func TestSessionInspectInstance(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)
	out := mustExecute(t, sess, ":inspect benedict")

	val, _ := sess.exec.Lookup("benedict")
	id := val.Instance().ID()
	if id == uuid.Nil {
		t.Fatalf("instance should have an id")
	}
	want := "Brunch instance\nid: " + id.String() +
		"\n  bread = \"English muffin\":string\n  drink = \"OJ\":string\n  meat = \"ham\":string"
	if out != want {
		t.Fatalf("unexpected inspect output:\n%s", out)
	}
	if _, err := sess.execute(":inspect Breakfast"); err == nil || !strings.Contains(err.Error(), "not an instance") {
		t.Fatalf("expected not-an-instance error, got %v", err)
	}
}

func TestSessionDescribeVarsHidesBuiltins(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)
	out := mustExecute(t, sess, ":vars")
	want := "Breakfast = Breakfast:class\nBrunch = Brunch:class\nbenedict = Brunch instance:instance"
	if out != want {
		t.Fatalf("unexpected vars output:\n%s", out)
	}
}

func TestSessionErrors(t *testing.T) {
	sess := newTestSession(t, breakfastProgram)

	_, err := sess.execute("new x Breakfast 1")
	var arity *lox.ArityMismatchError
	if !errors.As(err, &arity) || arity.Expected != 2 || arity.Given != 1 {
		t.Fatalf("expected ArityMismatch(2, 1), got %v", err)
	}
	if _, ok := sess.exec.Lookup("x"); ok {
		t.Fatalf("failed construction should not define x")
	}

	_, err = sess.execute("get benedict coffee")
	var undef *lox.UndefinedPropertyError
	if !errors.As(err, &undef) || undef.Name != "coffee" || undef.Class != "Brunch" {
		t.Fatalf("expected UndefinedProperty(coffee, Brunch), got %v", err)
	}

	tests := map[string]string{
		"fly away":                "unknown command: fly",
		"new":                     "usage: new VAR CLASS args...",
		"new x":                   "usage: new VAR CLASS args...",
		"new class Breakfast":     `invalid name "class"`,
		"call Breakfast serve":    "Breakfast is a class, not an instance",
		"get missing meat":        "undefined variable 'missing'",
		"get benedict meat bread": "usage: get VAR NAME",
		"set benedict meat":       "usage: set VAR NAME VALUE",
		"new y Nope":              "undefined variable 'Nope'",
		"call benedict serve [":   "parsing arguments",
	}
	for line, want := range tests {
		_, err := sess.execute(line)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: expected error containing %q, got %v", line, want, err)
		}
	}

	if _, err := sess.execute(":quit"); !errors.Is(err, errQuit) {
		t.Fatalf("expected quit signal, got %v", err)
	}
}

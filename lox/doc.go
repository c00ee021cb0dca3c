// Package lox implements the class object model of a Lox runtime together
// with a small tree-walking evaluator that drives it.
//
// The object model covers:
//   - Classes with single inheritance and per-class method tables.
//   - Instances carrying an open set of fields assigned on demand.
//   - Bound methods that record both the receiver ("this") and the class
//     whose method table supplied the body, so `super` lookups start one
//     level above the defining class rather than the receiver's class.
//   - Construction: calling a class allocates an instance and runs the
//     first `init` found along the inheritance chain.
//
// Source text is never parsed here. Hosts hand the evaluator an already
// built Program (see ast.go), or declare classes directly with DeclareClass
// and Go-implemented methods.
package lox

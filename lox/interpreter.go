package lox

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Config controls evaluator limits and output.
type Config struct {
	Stdout         io.Writer
	StepQuota      int
	RecursionLimit int
	// Trace, when set, receives a line for every call entered and left.
	Trace *log.Logger
}

// Engine holds configuration and host builtins shared by executions.
type Engine struct {
	config     Config
	builtins   map[string]Value
	builtinsMu sync.RWMutex
}

// NewEngine constructs an Engine, filling zero limits with defaults.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.StepQuota < 0 {
		return nil, fmt.Errorf("step quota must not be negative (got %d)", cfg.StepQuota)
	}
	if cfg.RecursionLimit < 0 {
		return nil, fmt.Errorf("recursion limit must not be negative (got %d)", cfg.RecursionLimit)
	}
	if cfg.StepQuota == 0 {
		cfg.StepQuota = 1_000_000
	}
	if cfg.RecursionLimit == 0 {
		cfg.RecursionLimit = 256
	}
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	return &Engine{config: cfg, builtins: make(map[string]Value)}, nil
}

// MustNewEngine is NewEngine for configurations known to be valid.
func MustNewEngine(cfg Config) *Engine {
	engine, err := NewEngine(cfg)
	if err != nil {
		panic(err)
	}
	return engine
}

func (e *Engine) Config() Config { return e.config }

// RegisterBuiltin exposes fn to every execution created afterwards as a
// global named name. A negative arity accepts any argument count.
func (e *Engine) RegisterBuiltin(name string, arity int, fn BuiltinFunc) {
	e.builtinsMu.Lock()
	defer e.builtinsMu.Unlock()
	e.builtins[name] = NewBuiltin(name, arity, fn)
}

// NewExecution returns an execution with a fresh global environment. An
// execution is single-threaded; callers serialise access to it.
func (e *Engine) NewExecution() *Execution {
	globals := NewEnv(nil)
	e.builtinsMu.RLock()
	for name, val := range e.builtins {
		globals.Define(name, val)
	}
	e.builtinsMu.RUnlock()
	return &Execution{
		engine:       e,
		globals:      globals,
		stdout:       e.config.Stdout,
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
	}
}

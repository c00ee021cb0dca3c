package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/mgomes/loxobj/internal/progfile"
	"github.com/mgomes/loxobj/lox"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "inspect":
		return inspectCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

type commonFlags struct {
	configPath string
	trace      bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "path to lox.yaml (default: search from the program directory)")
	fs.BoolVar(&c.trace, "trace", false, "log every call entered and left to stderr")
}

// loaded is a parsed program plus the settings it should run with.
type loaded struct {
	program *lox.Program
	config  *progfile.Config
	trace   *log.Logger
}

func loadProgram(command string, flags commonFlags, remaining []string) (*loaded, error) {
	if len(remaining) == 0 {
		return nil, fmt.Errorf("lox %s: program path required", command)
	}
	if len(remaining) > 1 {
		return nil, fmt.Errorf("lox %s: unexpected arguments %v", command, remaining[1:])
	}
	absPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return nil, fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	prog, err := progfile.Load(input)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(absPath), err)
	}

	cfg, err := resolveConfig(flags.configPath, filepath.Dir(absPath))
	if err != nil {
		return nil, err
	}

	out := &loaded{program: prog, config: cfg}
	if flags.trace {
		out.trace = log.New(os.Stderr, "trace: ", 0)
	}
	return out, nil
}

func resolveConfig(explicit, programDir string) (*progfile.Config, error) {
	path := explicit
	if path == "" {
		found, err := progfile.FindConfig(programDir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return progfile.ParseConfig(nil, progfile.ConfigFileName)
	}
	return progfile.LoadConfig(path)
}

func (l *loaded) newExecution(stdout io.Writer) (*lox.Execution, error) {
	cfg := l.config.EngineConfig(stdout)
	cfg.Trace = l.trace
	engine, err := lox.NewEngine(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure engine: %w", err)
	}
	registerBuiltins(engine)
	return engine.NewExecution(), nil
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var flags commonFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	prog, err := loadProgram("run", flags, fs.Args())
	if err != nil {
		return err
	}
	exec, err := prog.newExecution(os.Stdout)
	if err != nil {
		return err
	}
	if _, err := exec.Run(context.Background(), prog.program); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}

func inspectCommand(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var flags commonFlags
	flags.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	prog, err := loadProgram("inspect", flags, fs.Args())
	if err != nil {
		return err
	}
	sess, err := newSession(prog)
	if err != nil {
		return err
	}
	configureColor(prog.config.Color, os.Stdout)
	if isTerminal(os.Stdin) && isTerminal(os.Stdout) {
		return runInspector(sess)
	}
	return runLineMode(sess, os.Stdin, os.Stdout)
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s run [flags] <program.yaml>\n", prog)
	fmt.Fprintf(os.Stderr, "       %s inspect [flags] <program.yaml>\n", prog)
	fmt.Fprintln(os.Stderr, "Flags:")
	fmt.Fprintln(os.Stderr, "  -config string")
	fmt.Fprintln(os.Stderr, "    path to lox.yaml (default: search from the program directory)")
	fmt.Fprintln(os.Stderr, "  -trace")
	fmt.Fprintln(os.Stderr, "    log every call entered and left to stderr")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}

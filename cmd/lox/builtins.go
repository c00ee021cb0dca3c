package main

import (
	"time"

	"github.com/mgomes/loxobj/lox"
)

var startTime = time.Now()

func registerBuiltins(engine *lox.Engine) {
	engine.RegisterBuiltin("clock", 0, func(*lox.Execution, []lox.Value) (lox.Value, error) {
		return lox.NewNumber(time.Since(startTime).Seconds()), nil
	})
}

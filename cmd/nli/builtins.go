package main

import (
	"fmt"
	"io"

	"nli-lang/impl/internal/evaluator"
)

// hostEnv builds the initial environment. TEE writes the raw form of its
// argument to w in the raw format, or the formatted value when raw is
// "none", and returns the argument unchanged.
func hostEnv(w io.Writer, raw string) *evaluator.Env {
	env := evaluator.NewEnv(nil)
	env.Define("TEE", evaluator.NewBuiltin("TEE", func(v evaluator.Value) (evaluator.Value, error) {
		var err error
		if raw == "none" {
			_, err = fmt.Fprintln(w, evaluator.Format(v))
		} else {
			err = encodeRaw(w, raw, v)
		}
		if err != nil {
			return nil, err
		}
		return v, nil
	}))
	return env
}

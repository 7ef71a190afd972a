package effect

import "fmt"

// Compiler turns effect names into bytecode.
type Compiler interface {
	// Compile expands and compiles name under params. Compilers may answer synchronously with a
	// completed Result or hand the work to a background pool.
	//
	// Parameters:
	//   - name: the effect name, "Main" or "Main.Sub"
	//   - params: the request parameters; implementations must not retain or mutate them
	//
	// Returns:
	//   - *Result[*EffectBytecode]: the bytecode, or a *CompileError
	Compile(name string, params CompilerParameters) *Result[*EffectBytecode]

	// ResetCache forgets everything the compiler cached about the named source files.
	//
	// Parameters:
	//   - names: modified source names
	ResetCache(names []string)
}

// CompileError reports a failed compile with the full compiler log.
type CompileError struct {
	Effect string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("effect %s: compile failed:\n%s", e.Effect, e.Log)
}

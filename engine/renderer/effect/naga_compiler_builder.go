package effect

// CompilerBuilderOption is a functional option applied to a compiler during construction via NewCompiler.
type CompilerBuilderOption func(*NagaCompiler)

// WithAsyncWorkers runs compiles on a pool of n workers. Zero keeps compiles on the caller.
//
// Parameters:
//   - n: the number of compile workers
//
// Returns:
//   - CompilerBuilderOption: a function that applies the worker count to a compiler
func WithAsyncWorkers(n int) CompilerBuilderOption {
	return func(c *NagaCompiler) {
		c.workers = max(n, 0)
	}
}

// WithValidation toggles naga IR validation before SPIR-V generation.
//
// Parameters:
//   - enabled: whether to validate
//
// Returns:
//   - CompilerBuilderOption: a function that applies the validation flag to a compiler
func WithValidation(enabled bool) CompilerBuilderOption {
	return func(c *NagaCompiler) {
		c.options.Validate = enabled
	}
}

// WithDebugInfo toggles debug names and line info in the generated SPIR-V.
//
// Parameters:
//   - enabled: whether to emit debug info
//
// Returns:
//   - CompilerBuilderOption: a function that applies the debug flag to a compiler
func WithDebugInfo(enabled bool) CompilerBuilderOption {
	return func(c *NagaCompiler) {
		c.options.Debug = enabled
	}
}

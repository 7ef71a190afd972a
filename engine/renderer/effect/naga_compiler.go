package effect

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/renderer/shader"
	"github.com/gogpu/naga"
	"golang.org/x/sync/singleflight"
)

// NagaCompiler expands effects with the shader pre-processor and compiles the WGSL to SPIR-V with naga.
type NagaCompiler struct {
	lib      shader.Library
	pp       shader.PreProcessor
	options  naga.CompileOptions
	workers  int
	pool     worker.DynamicWorkerPool
	group    singleflight.Group
	taskID   atomic.Int64
	compiles atomic.Int64
	// epoch moves on every ResetCache so requests made after a reset never join an older compile.
	epoch atomic.Uint64
}

var _ Compiler = &NagaCompiler{}

// NewCompiler creates a Compiler over lib. Without WithAsyncWorkers every Compile runs on the caller.
//
// Parameters:
//   - lib: the shader source library
//   - options: functional options applied after defaults
//
// Returns:
//   - *NagaCompiler: the compiler; Close stops its worker pool
func NewCompiler(lib shader.Library, options ...CompilerBuilderOption) *NagaCompiler {
	if lib == nil {
		panic("effect: NewCompiler requires a shader library")
	}
	c := &NagaCompiler{
		lib:     lib,
		pp:      shader.NewPreProcessor(lib),
		options: naga.DefaultOptions(),
	}
	for _, opt := range options {
		opt(c)
	}
	if c.workers > 0 {
		c.pool = worker.NewDynamicWorkerPool(c.workers, 256, time.Second)
	}
	return c
}

func (c *NagaCompiler) Compile(name string, params CompilerParameters) *Result[*EffectBytecode] {
	params = params.Clone()
	key := compileKey(name, params, c.epoch.Load())

	run := func() (*EffectBytecode, error) {
		v, err, _ := c.group.Do(key, func() (any, error) {
			return c.compile(name, params)
		})
		if err != nil {
			return nil, err
		}
		return v.(*EffectBytecode), nil
	}

	if c.pool == nil {
		bc, err := run()
		if err != nil {
			return Failed[*EffectBytecode](err)
		}
		return Completed(bc)
	}

	r := newPending[*EffectBytecode]()
	c.pool.SubmitTask(worker.Task{
		ID:      int(c.taskID.Add(1)),
		Payload: name,
		Do: func() (any, error) {
			bc, err := run()
			r.resolve(bc, err)
			return bc, err
		},
	})
	return r
}

func (c *NagaCompiler) compile(name string, params CompilerParameters) (*EffectBytecode, error) {
	c.compiles.Add(1)
	out, err := c.pp.Process(name, params)
	if err != nil {
		if errors.Is(err, shader.ErrSourceNotFound) {
			return nil, err
		}
		return nil, &CompileError{Effect: name, Log: err.Error()}
	}
	if !shader.Reflect(out.Source).HasEntryPoint() {
		return nil, &CompileError{Effect: name, Log: "module declares no @vertex, @fragment or @compute entry point"}
	}

	spirv, err := naga.CompileWithOptions(out.Source, c.options)
	if err != nil {
		common.Logger().Warn("effect compile failed", "effect", name, "error", err)
		return nil, &CompileError{Effect: name, Log: err.Error()}
	}

	bc := NewEffectBytecode(name, spirvWords(spirv), out.Source, CompilerParameters(out.UsedParameters), out.Dependencies)
	common.Logger().Debug("effect compiled", "effect", name, "hash", hex.EncodeToString(bc.Hash[:8]), "words", len(bc.SPIRV))
	return bc, nil
}

func (c *NagaCompiler) ResetCache(names []string) {
	c.lib.Invalidate(names...)
	c.epoch.Add(1)
}

// Compiles returns how many expansions and compiles actually ran.
func (c *NagaCompiler) Compiles() int {
	return int(c.compiles.Load())
}

// Close stops the worker pool. Compiles already queued may still finish.
func (c *NagaCompiler) Close() error {
	if c.pool != nil {
		c.pool.Stop()
	}
	return nil
}

func compileKey(name string, params CompilerParameters, epoch uint64) string {
	h := params.Hash()
	return fmt.Sprintf("%s#%x@%d", name, h[:], epoch)
}

// pre_processor.go implements the Oxy shader pre-processor. It expands a named effect into a
// single WGSL module by following @oxy: annotations through the Library, and it records every
// compiler parameter the expansion read plus the hash of every source it touched. The effect
// system keys its caches on those two records.
package shader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrUnknownChild is returned when "Main.Sub" names a sub-effect Main does not declare.
var ErrUnknownChild = errors.New("shader: unknown child effect")

// substitutionRegex matches {{KEY}} parameter references in source lines.
var substitutionRegex = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// Output is the result of expanding one effect.
type Output struct {
	// Name is the effect name that was processed, including any sub-effect suffix.
	Name string

	// Source is the expanded WGSL.
	Source string

	// Composable reports whether the main effect came from a composition file.
	Composable bool

	// UsedParameters maps every parameter the expansion read to the value it saw.
	// A nil value means the parameter was read but not set.
	UsedParameters map[string]any

	// Dependencies maps every source name the expansion read to its content hash.
	Dependencies map[string][32]byte

	// Mixins lists composed mixins in composition order.
	Mixins []string
}

// PreProcessor expands effect names into WGSL.
type PreProcessor interface {
	// Process expands name under params. A dotted name "Main.Sub" expands the source Main declares
	// for Sub with //@oxy:child.
	//
	// Parameters:
	//   - name: the effect name
	//   - params: the compiler parameters of the request
	//
	// Returns:
	//   - *Output: the expanded source and its recorded inputs
	//   - error: a lookup error or a malformed annotation
	Process(name string, params map[string]any) (*Output, error)
}

type preProcessor struct {
	lib Library
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor reading sources from lib. It keeps no per-call state
// and may be used from several goroutines.
//
// Parameters:
//   - lib: the source library
//
// Returns:
//   - PreProcessor: the pre-processor
func NewPreProcessor(lib Library) PreProcessor {
	if lib == nil {
		panic("shader: NewPreProcessor requires a library")
	}
	return &preProcessor{lib: lib}
}

func (p *preProcessor) Process(name string, params map[string]any) (*Output, error) {
	mainName, sub := SplitName(name)
	main, err := p.lib.Lookup(mainName)
	if err != nil {
		return nil, err
	}

	e := newExpansion(p.lib, params)
	root := main
	if sub != "" {
		if main.Kind != SourceComposable {
			return nil, fmt.Errorf("%w: %s is not a composition", ErrUnknownChild, name)
		}
		// A first pass over the composition only resolves the child table.
		if err := e.expand(main); err != nil {
			return nil, err
		}
		target, ok := e.children[sub]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownChild, name)
		}
		if root, err = p.lib.Lookup(target); err != nil {
			return nil, err
		}
		e.out = e.out[:0]
		e.mixins = nil
	}
	if err := e.expand(root); err != nil {
		return nil, err
	}

	return &Output{
		Name:           name,
		Source:         strings.Join(e.out, "\n"),
		Composable:     main.Kind == SourceComposable,
		UsedParameters: e.used,
		Dependencies:   e.deps,
		Mixins:         e.mixins,
	}, nil
}

type condition struct {
	parentActive bool
	matched      bool
	active       bool
	elseSeen     bool
	line         int
}

type expansion struct {
	lib      Library
	params   map[string]any
	used     map[string]any
	deps     map[string][32]byte
	defaults map[string]string
	children map[string]string
	mixins   []string
	stack    []string
	out      []string
}

func newExpansion(lib Library, params map[string]any) *expansion {
	return &expansion{
		lib:      lib,
		params:   params,
		used:     make(map[string]any),
		deps:     make(map[string][32]byte),
		defaults: make(map[string]string),
		children: make(map[string]string),
	}
}

func (e *expansion) read(key string) (any, bool) {
	v, ok := e.params[key]
	if !ok {
		v = nil
	}
	if _, seen := e.used[key]; !seen {
		e.used[key] = v
	}
	return v, ok
}

func (e *expansion) expand(src *Source) error {
	for _, n := range e.stack {
		if n == src.Name {
			return fmt.Errorf("shader: include cycle %s -> %s", strings.Join(e.stack, " -> "), src.Name)
		}
	}
	e.stack = append(e.stack, src.Name)
	defer func() { e.stack = e.stack[:len(e.stack)-1] }()
	e.deps[src.Name] = src.Hash

	var conds []condition
	active := func() bool {
		return len(conds) == 0 || conds[len(conds)-1].active
	}

	for i, line := range strings.Split(src.Text, "\n") {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return fmt.Errorf("%s: %w", src.Name, err)
		}
		if a == nil {
			if !active() {
				continue
			}
			expanded, err := e.substitute(line)
			if err != nil {
				return fmt.Errorf("%s: line %d: %w", src.Name, i+1, err)
			}
			e.out = append(e.out, expanded)
			continue
		}

		switch a.Type {
		case AnnotationTypeIf:
			parent := active()
			matched := parent && e.evaluate(a.Args)
			conds = append(conds, condition{parentActive: parent, matched: matched, active: matched, line: a.Line})
			continue
		case AnnotationTypeElse:
			if len(conds) == 0 || conds[len(conds)-1].elseSeen {
				return fmt.Errorf("%s: line %d: @oxy else without matching if", src.Name, a.Line)
			}
			top := &conds[len(conds)-1]
			top.elseSeen = true
			top.active = top.parentActive && !top.matched
			continue
		case AnnotationTypeEndif:
			if len(conds) == 0 {
				return fmt.Errorf("%s: line %d: @oxy endif without matching if", src.Name, a.Line)
			}
			conds = conds[:len(conds)-1]
			continue
		}

		if !active() {
			continue
		}

		switch a.Type {
		case AnnotationTypeParam:
			e.read(a.Args[0])
			if len(a.Args) == 2 {
				e.defaults[a.Args[0]] = a.Args[1]
			}
		case AnnotationTypeInclude:
			inc, err := e.lib.Lookup(a.Args[0])
			if err != nil {
				return fmt.Errorf("%s: line %d: %w", src.Name, a.Line, err)
			}
			if inc.Kind == SourceComposable {
				return fmt.Errorf("%s: line %d: cannot include composition %s, use @oxy:mixin", src.Name, a.Line, inc.Name)
			}
			if err := e.expand(inc); err != nil {
				return err
			}
		case AnnotationTypeMixin, AnnotationTypeChild:
			if src.Kind != SourceComposable {
				return fmt.Errorf("%s: line %d: @oxy %s is only valid in %s files", src.Name, a.Line, a.Type, ComposableExt)
			}
			if a.Type == AnnotationTypeChild {
				e.children[a.Args[0]] = a.Args[1]
				continue
			}
			mix, err := e.lib.Lookup(a.Args[0])
			if err != nil {
				return fmt.Errorf("%s: line %d: %w", src.Name, a.Line, err)
			}
			e.mixins = append(e.mixins, mix.Name)
			if err := e.expand(mix); err != nil {
				return err
			}
		}
	}

	if len(conds) > 0 {
		return fmt.Errorf("%s: line %d: @oxy if is never closed", src.Name, conds[len(conds)-1].line)
	}
	return nil
}

func (e *expansion) evaluate(args []string) bool {
	v, ok := e.read(args[0])
	if len(args) == 2 {
		return ok && fmt.Sprint(v) == args[1]
	}
	return ok && truthy(v)
}

func (e *expansion) substitute(line string) (string, error) {
	var failed error
	out := substitutionRegex.ReplaceAllStringFunc(line, func(m string) string {
		key := substitutionRegex.FindStringSubmatch(m)[1]
		if v, ok := e.read(key); ok {
			return fmt.Sprint(v)
		}
		if d, ok := e.defaults[key]; ok {
			return d
		}
		if failed == nil {
			failed = fmt.Errorf("parameter %s has no value and no default", key)
		}
		return m
	})
	return out, failed
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(t)
		if err == nil {
			return b
		}
		return t != ""
	case int:
		return t != 0
	case int32:
		return t != 0
	case int64:
		return t != 0
	case uint32:
		return t != 0
	case float32:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}

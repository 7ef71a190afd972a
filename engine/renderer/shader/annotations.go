// annotations.go defines the @oxy: annotation language understood by the shader
// pre-processor. Annotations are single-line WGSL comments. They pull in other sources,
// declare compiler parameters, select code paths on those parameters and, inside
// composition (.oxyfx) files, list mixins and name child effects.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix marks an Oxy annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude splices another plain source in place of the annotation.
	//
	// Syntax: //@oxy:include <source_name>
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeParam declares a compiler parameter read through {{KEY}} substitution,
	// with an optional default used when the request does not set it.
	//
	// Syntax: //@oxy:param <KEY> [default]
	AnnotationTypeParam AnnotationType = "param"

	// AnnotationTypeIf opens a conditional block. Without a value the block is kept when the
	// parameter is set and truthy; with a value it is kept when the parameter prints as value.
	//
	// Syntax: //@oxy:if <KEY> [value]
	AnnotationTypeIf AnnotationType = "if"

	// AnnotationTypeElse flips the innermost conditional block.
	AnnotationTypeElse AnnotationType = "else"

	// AnnotationTypeEndif closes the innermost conditional block.
	AnnotationTypeEndif AnnotationType = "endif"

	// AnnotationTypeMixin composes another source, plain or composable, into a composition.
	// Only valid in .oxyfx files.
	//
	// Syntax: //@oxy:mixin <source_name>
	AnnotationTypeMixin AnnotationType = "mixin"

	// AnnotationTypeChild names a sub-effect reachable as "<Main>.<Sub>".
	// Only valid in .oxyfx files.
	//
	// Syntax: //@oxy:child <Sub> <source_name>
	AnnotationTypeChild AnnotationType = "child"
)

// Annotation is one parsed @oxy: annotation.
type Annotation struct {
	Type AnnotationType

	// Args holds the arguments after the type:
	//   - include, mixin: [0] = source name
	//   - param:          [0] = key, [1] = default (optional)
	//   - if:             [0] = key, [1] = value (optional)
	//   - child:          [0] = sub-effect name, [1] = source name
	Args []string

	// Line is 1-based, for error reporting.
	Line int
}

// arity lists the accepted argument counts per annotation type.
var arity = map[AnnotationType][2]int{
	AnnotationTypeInclude: {1, 1},
	AnnotationTypeParam:   {1, 2},
	AnnotationTypeIf:      {1, 2},
	AnnotationTypeElse:    {0, 0},
	AnnotationTypeEndif:   {0, 0},
	AnnotationTypeMixin:   {1, 1},
	AnnotationTypeChild:   {2, 2},
}

// parseAnnotation parses one source line. It returns nil with no error for lines that are
// not annotations, and an error for lines carrying the prefix with a malformed body.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	rest, ok := strings.CutPrefix(trimmed, "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(rest), annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(after)
	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	t := AnnotationType(fields[0])
	bounds, known := arity[t]
	if !known {
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, fields[0])
	}
	args := fields[1:]
	if len(args) < bounds[0] || len(args) > bounds[1] {
		if bounds[0] == bounds[1] {
			return nil, fmt.Errorf("line %d: @oxy %s annotation takes %d argument(s), got %d", lineNum, t, bounds[0], len(args))
		}
		return nil, fmt.Errorf("line %d: @oxy %s annotation takes %d to %d arguments, got %d", lineNum, t, bounds[0], bounds[1], len(args))
	}

	return &Annotation{Type: t, Args: args, Line: lineNum}, nil
}

package shader

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// computeEntryRegex matches @compute functions and captures the entry point name
	computeEntryRegex = regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`)

	// workgroupSizeRegex captures 1-3 integer dimensions from @workgroup_size(x[, y[, z]])
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?\)`)

	// bindingDeclRegex captures group, binding, optional address space, variable name and type
	// from declarations like: @group(0) @binding(0) var<uniform> camera: CameraUniform;
	bindingDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// Binding is one resource declaration found in WGSL.
type Binding struct {
	Group        int
	Binding      int
	AddressSpace string
	Name         string
	Type         string
}

// Reflection is what the effect system needs to know about an expanded module without compiling it.
type Reflection struct {
	VertexEntry   string
	FragmentEntry string
	ComputeEntry  string

	// WorkgroupSize defaults to [1, 1, 1] when the module has no @workgroup_size.
	WorkgroupSize [3]uint32

	// Bindings are sorted by group, then binding.
	Bindings []Binding
}

// HasEntryPoint reports whether the module declares any stage entry point.
func (r Reflection) HasEntryPoint() bool {
	return r.VertexEntry != "" || r.FragmentEntry != "" || r.ComputeEntry != ""
}

// Reflect scans WGSL for entry points, workgroup size and resource bindings.
//
// Parameters:
//   - source: WGSL source, typically Output.Source
//
// Returns:
//   - Reflection: the scanned metadata
func Reflect(source string) Reflection {
	cleaned := stripComments(source)
	r := Reflection{
		VertexEntry:   firstCapture(vertexEntryRegex, cleaned),
		FragmentEntry: firstCapture(fragmentEntryRegex, cleaned),
		ComputeEntry:  firstCapture(computeEntryRegex, cleaned),
		WorkgroupSize: [3]uint32{1, 1, 1},
	}

	if m := workgroupSizeRegex.FindStringSubmatch(cleaned); m != nil {
		for i := range 3 {
			if v, err := strconv.ParseUint(m[i+1], 10, 32); err == nil {
				r.WorkgroupSize[i] = uint32(v)
			}
		}
	}

	for _, m := range bindingDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(m[1])
		binding, _ := strconv.Atoi(m[2])
		r.Bindings = append(r.Bindings, Binding{
			Group:        group,
			Binding:      binding,
			AddressSpace: strings.TrimSpace(m[3]),
			Name:         m[4],
			Type:         strings.TrimSpace(m[5]),
		})
	}
	slices.SortFunc(r.Bindings, func(a, b Binding) int {
		return cmp.Or(cmp.Compare(a.Group, b.Group), cmp.Compare(a.Binding, b.Binding))
	})
	return r
}

func firstCapture(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

// stripComments removes block and line comments so they do not interfere with scanning.
func stripComments(source string) string {
	return stripLineComments(stripBlockComments(source))
}

func stripLineComments(source string) string {
	var sb strings.Builder
	for line := range strings.SplitSeq(source, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// stripBlockComments handles nested block comments, which WGSL allows.
func stripBlockComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			if source[i] == '/' && source[i+1] == '*' {
				depth++
				i++
				continue
			}
			if source[i] == '*' && source[i+1] == '/' && depth > 0 {
				depth--
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}

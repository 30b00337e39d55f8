package blueprint

import "github.com/matzehuels/hardref/pkg/asset"

// NodeKind identifies the graph node types the reference scan understands.
// Any other node type uses [NodeOther].
type NodeKind string

const (
	// NodeOther is any node whose type does not itself reference a package.
	NodeOther NodeKind = ""
	// NodeCallFunction calls a function; Target is the called function.
	NodeCallFunction NodeKind = "call_function"
	// NodeDynamicCast casts to a type; Target is the cast target class.
	NodeDynamicCast NodeKind = "dynamic_cast"
	// NodeFunctionEntry is the entry point of a function graph; Function names it.
	NodeFunctionEntry NodeKind = "function_entry"
)

// Direction is the data-flow direction of a pin.
type Direction string

const (
	DirInput  Direction = "input"
	DirOutput Direction = "output"
)

// Blueprint is the inspected visual-scripting asset.
type Blueprint struct {
	// Path is the object path of the Blueprint (the root of the scan).
	Path asset.ObjectRef `json:"path" toml:"path"`

	EventGraphs    []*Graph `json:"event_graphs,omitempty" toml:"event_graphs"`
	FunctionGraphs []*Graph `json:"function_graphs,omitempty" toml:"function_graphs"`

	// Properties are declared on the generated class itself (inherited
	// properties excluded). Defaults holds their class-default values.
	Properties []Property `json:"properties,omitempty" toml:"properties"`
	Defaults   Instance   `json:"defaults,omitempty" toml:"defaults"`

	// Components are the construction-script entries, one per default-attached component.
	Components []Component `json:"components,omitempty" toml:"components"`

	// Functions are the class functions with their captured object references.
	Functions []Function `json:"functions,omitempty" toml:"functions"`
}

// Graph is an event or function graph.
type Graph struct {
	Name  string  `json:"name" toml:"name"`
	Nodes []*Node `json:"nodes,omitempty" toml:"nodes"`
}

// Node is a single graph node.
type Node struct {
	// ID is the stable identifier used to locate the node in an editor.
	ID    string   `json:"id" toml:"id"`
	Kind  NodeKind `json:"kind,omitempty" toml:"kind"`
	Title string   `json:"title" toml:"title"`

	// Target is the called function (NodeCallFunction) or the cast target
	// class (NodeDynamicCast). Null for other kinds.
	Target asset.ObjectRef `json:"target,omitempty" toml:"target"`

	// Function names the function a NodeFunctionEntry node starts.
	Function string `json:"function,omitempty" toml:"function"`

	Pins []Pin `json:"pins,omitempty" toml:"pins"`
}

// Pin is an input or output slot on a node.
type Pin struct {
	Name      string    `json:"name" toml:"name"`
	Direction Direction `json:"direction,omitempty" toml:"direction"`
	Hidden    bool      `json:"hidden,omitempty" toml:"hidden"`
	// Linked reports whether the pin is connected to another node, in which
	// case its default value is not used.
	Linked bool `json:"linked,omitempty" toml:"linked"`
	// Default is the default object assigned to the pin, if any.
	Default asset.ObjectRef `json:"default,omitempty" toml:"default"`
}

// IsInput reports whether the pin receives data. Pins without an explicit
// direction are inputs.
func (p Pin) IsInput() bool { return p.Direction == "" || p.Direction == DirInput }

// Component is a construction-script node describing one default-attached component.
type Component struct {
	// Name is the construction-script node name.
	Name string `json:"name" toml:"name"`
	// Variable is the component's variable name on the generated class.
	Variable string          `json:"variable" toml:"variable"`
	Class    asset.ObjectRef `json:"class" toml:"class"`

	// Properties are the component class properties (inherited included);
	// Template holds the values on the component template instance.
	Properties []Property `json:"properties,omitempty" toml:"properties"`
	Template   Instance   `json:"template,omitempty" toml:"template"`
}

// Function is a class function and the objects its bytecode and local
// properties reference.
type Function struct {
	Name       string            `json:"name" toml:"name"`
	References []asset.ObjectRef `json:"references,omitempty" toml:"references"`
}

// FunctionEntry returns the entry node of the function graph that starts
// the named function, or nil if no function graph has one.
func (b *Blueprint) FunctionEntry(name string) *Node {
	if b == nil || name == "" {
		return nil
	}
	for _, g := range b.FunctionGraphs {
		if g == nil {
			continue
		}
		for _, n := range g.Nodes {
			if n != nil && n.Kind == NodeFunctionEntry {
				if n.Function == name {
					return n
				}
				// Only the first entry node of a graph counts.
				break
			}
		}
	}
	return nil
}

// NodeCount returns the number of non-nil nodes across all graphs.
func (b *Blueprint) NodeCount() int {
	if b == nil {
		return 0
	}
	count := 0
	for _, graphs := range [][]*Graph{b.EventGraphs, b.FunctionGraphs} {
		for _, g := range graphs {
			if g == nil {
				continue
			}
			for _, n := range g.Nodes {
				if n != nil {
					count++
				}
			}
		}
	}
	return count
}

package blueprint

import "github.com/matzehuels/hardref/pkg/asset"

// ContainerKind tags how a property stores its value.
type ContainerKind string

const (
	Scalar ContainerKind = "scalar"
	Array  ContainerKind = "array"
	Set    ContainerKind = "set"
	Map    ContainerKind = "map"
	Struct ContainerKind = "struct"
)

// structDepth is how far the struct kind descends into nested fields.
const structDepth = 1

// ElemType describes a single stored element (a scalar value, a container
// element, a map key or a map value).
type ElemType struct {
	// Object reports whether the element holds an object reference.
	Object bool `json:"object,omitempty" toml:"object"`
	// Weak marks soft/lazy/weak references, which never load their target.
	Weak bool `json:"weak,omitempty" toml:"weak"`
	// Component marks object references whose class is an actor component.
	Component bool `json:"component,omitempty" toml:"component"`
}

// Strong reports whether the element can hold a strong object reference.
func (e ElemType) Strong() bool { return e.Object && !e.Weak }

// Property is a reflected property of a class or struct.
type Property struct {
	Name string        `json:"name" toml:"name"`
	Kind ContainerKind `json:"kind,omitempty" toml:"kind"`

	// Elem is the value type for scalars, the element type for arrays and
	// sets, and the key type for maps.
	Elem ElemType `json:"elem" toml:"elem"`
	// MapValue is the value type of a map.
	MapValue ElemType `json:"map_value,omitempty" toml:"map_value"`
	// Fields are the members of a struct.
	Fields []Property `json:"fields,omitempty" toml:"fields"`

	// Variable reports whether the property is a user-declared member variable.
	Variable bool `json:"variable,omitempty" toml:"variable"`
}

// Value is a stored property value. Exactly one field is meaningful,
// selected by the owning property's kind.
type Value struct {
	Object  asset.ObjectRef `json:"object,omitempty" toml:"object"`
	Items   []Value         `json:"items,omitempty" toml:"items"`
	Entries []MapEntry      `json:"entries,omitempty" toml:"entries"`
	Fields  Instance        `json:"fields,omitempty" toml:"fields"`
}

// MapEntry is one key/value pair of a map value.
type MapEntry struct {
	Key   Value `json:"key" toml:"key"`
	Value Value `json:"value" toml:"value"`
}

// Instance holds property values by property name (a class default object,
// a component template, or the fields of a struct value).
type Instance map[string]Value

// Ref is a convenience constructor for an object value.
func Ref(ref asset.ObjectRef) Value { return Value{Object: ref} }

// List is a convenience constructor for array and set values.
func List(items ...Value) Value { return Value{Items: items} }

// kind returns the property kind, treating an untagged property as a scalar.
func (p Property) kind() ContainerKind {
	if p.Kind == "" {
		return Scalar
	}
	return p.Kind
}

// IsComponentRef reports whether the property is a single object reference
// to an actor component.
func (p Property) IsComponentRef() bool {
	return p.kind() == Scalar && p.Elem.Object && p.Elem.Component
}

// HasStrongRefs reports whether values of this property can carry a strong
// object reference.
func (p Property) HasStrongRefs() bool { return p.hasStrongRefs(0) }

func (p Property) hasStrongRefs(depth int) bool {
	switch p.kind() {
	case Scalar, Array, Set:
		return p.Elem.Strong()
	case Map:
		return p.Elem.Strong() || p.MapValue.Strong()
	case Struct:
		if depth >= structDepth {
			return false
		}
		for _, f := range p.Fields {
			if f.hasStrongRefs(depth + 1) {
				return true
			}
		}
	}
	return false
}

// ObjectRefs returns the non-null strong object references stored in the
// property's value on inst, in storage order. Duplicates are kept.
func (p Property) ObjectRefs(inst Instance) []asset.ObjectRef {
	if inst == nil || !p.HasStrongRefs() {
		return nil
	}
	v, ok := inst[p.Name]
	if !ok {
		return nil
	}
	return p.valueRefs(v, 0, nil)
}

func (p Property) valueRefs(v Value, depth int, out []asset.ObjectRef) []asset.ObjectRef {
	switch p.kind() {
	case Scalar:
		out = appendRef(out, p.Elem, v)
	case Array, Set:
		for _, item := range v.Items {
			out = appendRef(out, p.Elem, item)
		}
	case Map:
		for _, e := range v.Entries {
			out = appendRef(out, p.Elem, e.Key)
			out = appendRef(out, p.MapValue, e.Value)
		}
	case Struct:
		if depth >= structDepth || v.Fields == nil {
			return out
		}
		for _, f := range p.Fields {
			fv, ok := v.Fields[f.Name]
			if !ok {
				continue
			}
			out = f.valueRefs(fv, depth+1, out)
		}
	}
	return out
}

func appendRef(out []asset.ObjectRef, t ElemType, v Value) []asset.ObjectRef {
	if !t.Strong() || v.Object.IsNull() {
		return out
	}
	return append(out, v.Object)
}

// IconTag returns the editor icon tag used for variables of this kind.
func (p Property) IconTag() string {
	switch p.kind() {
	case Array:
		return "VariableList.ArrayTypeIcon"
	case Set:
		return "VariableList.SetTypeIcon"
	case Map:
		return "VariableList.MapValueTypeIcon"
	default:
		return "VariableList.TypeIcon"
	}
}
